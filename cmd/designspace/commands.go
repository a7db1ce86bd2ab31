package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/llm-d/bert-design-space/internal/designspace"
)

var errNotSubset = errors.New("design space is not a subset")

func (o *options) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configured design space",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := o.loadCatalog(cmd.Context())
			if err != nil {
				var schemaErr *designspace.SchemaError
				if errors.As(err, &schemaErr) {
					for _, fieldErr := range schemaErr.Errs {
						fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", fieldErr.Error())
					}
				}
				return err
			}
			ctrl.LoggerFrom(cmd.Context()).Info("Design space is valid",
				append([]any{"name", catalog.Name()}, catalog.Summary().KeysAndValues()...)...)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", catalog.Name())
			return nil
		},
	}
}

func (o *options) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the canonical form of the configured design space",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := o.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			data, err := catalog.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func (o *options) countCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of candidate architectures the design space admits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := o.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			n, err := catalog.Cardinality()
			if err != nil {
				return fmt.Errorf("counting %s: %w", catalog.Name(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), n.String())
			return nil
		},
	}
}

func (o *options) subsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "subset <other-file>",
		Short: "Check whether the configured design space is contained in another document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := o.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			other, err := designspace.Load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case catalog.Equal(other):
				fmt.Fprintf(out, "%s is equal to %s\n", catalog.Name(), other.Name())
			case catalog.IsStrictSubsetOf(other):
				fmt.Fprintf(out, "%s is a strict subset of %s\n", catalog.Name(), other.Name())
			default:
				return fmt.Errorf("%w: %s is not contained in %s", errNotSubset, catalog.Name(), other.Name())
			}
			return nil
		},
	}
}

func (o *options) candidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "candidate <file>",
		Short: "Validate a candidate architecture and print its model configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := o.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading candidate %s: %w", args[0], err)
			}
			cand, err := designspace.ParseCandidate(data)
			if err != nil {
				return err
			}
			if err := catalog.ValidateCandidate(cand); err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cand.ModelConfig())
		},
	}
}

func (o *options) builtinsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "builtins",
		Short: "List the embedded design spaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(designspace.BuiltinNames(), "\n"))
			return nil
		},
	}
}
