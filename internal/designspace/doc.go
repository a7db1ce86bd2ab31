// Package designspace loads and validates the design space of BERT-like
// encoder architectures and answers read-only questions about it.
//
// A design space document has two fields: the evaluation datasets and, for
// each architectural hyperparameter, the set of legal values:
//
//	datasets: [cola, sst2]
//	architecture:
//	  hidden_size: [128, 256]
//	  num_heads: [2, 4]
//	  encoder_layers: [2]
//	  operation_types: [sa, l, c]
//	  number_of_feed-forward_stacks: [1, 2]
//	  feed-forward_hidden: [512, 1024]
//	  operation_parameters:
//	    sa: [sdp, wma]
//	    l: [dft, dct]
//	    c: [5, 9]
//
// # Loading
//
// Parse and Load reject a malformed document as a whole with a *SchemaError
// listing every violation as a field path:
//
//	catalog, err := designspace.Load("design_space.yaml")
//	if errors.Is(err, designspace.ErrInvalidSchema) {
//	    log.Error(err, "rejected design space")
//	}
//
// Two documents are embedded and available through Builtin: "full" and the
// reduced "testing" space, a strict subset of "full".
//
// # Catalogs
//
// A Catalog treats every field as a set. Equal, IsSubsetOf and
// IsStrictSubsetOf compare catalogs field by field, Marshal renders the
// canonical document, and Cardinality counts the candidates the space admits.
//
// # Candidates
//
// A Candidate picks one value per layer for every field.
// Catalog.ValidateCandidate checks a candidate against the catalog and
// Candidate.ModelConfig flattens it into the per-layer lists the modular BERT
// model is configured with. Sampling candidates is left to the caller.
package designspace
