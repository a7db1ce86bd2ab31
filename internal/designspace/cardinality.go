package designspace

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"k8s.io/apimachinery/pkg/util/sets"
)

// MaxCardinalityBits bounds the exact count Cardinality computes.
const MaxCardinalityBits = 4096

// ErrCardinalityTooLarge is returned by Cardinality when the exact count
// would exceed MaxCardinalityBits.
var ErrCardinalityTooLarge = errors.New("design space cardinality too large to compute exactly")

// Cardinality returns the number of distinct candidates the catalog admits.
//
// Layers are chosen independently. One layer picks a hidden size, a head
// count, an operation type with one of its sub-parameters, a stack count s
// and s stack widths:
//
//	perLayer    = |hidden| * |heads| * sum_op |params(op)| * sum_s |widths|^s
//	cardinality = sum_L perLayer^L   for L in encoder_layers
//
// The hidden-size/head-count divisibility rule is not subtracted.
func (c *Catalog) Cardinality() (*big.Int, error) {
	ffChoices, err := sumOfPowers(big.NewInt(int64(c.feedForwardHidden.Len())), c.feedForwardStacks)
	if err != nil {
		return nil, err
	}
	perLayer := big.NewInt(int64(c.hiddenSizes.Len()))
	perLayer.Mul(perLayer, big.NewInt(int64(c.numHeads.Len())))
	perLayer.Mul(perLayer, big.NewInt(int64(c.operationChoices())))
	perLayer.Mul(perLayer, ffChoices)
	if perLayer.BitLen() > MaxCardinalityBits {
		return nil, ErrCardinalityTooLarge
	}

	return sumOfPowers(perLayer, c.encoderLayers)
}

// ApproxCardinality returns Cardinality as a float64. It is +Inf when the
// exact count is too large, which is also beyond the float64 range.
func (c *Catalog) ApproxCardinality() float64 {
	n, err := c.Cardinality()
	if err != nil {
		return math.Inf(1)
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f
}

// CardinalityString renders Cardinality in decimal, or a lower bound when
// the exact count is too large.
func (c *Catalog) CardinalityString() string {
	n, err := c.Cardinality()
	if err != nil {
		return fmt.Sprintf(">2^%d", MaxCardinalityBits)
	}
	return n.String()
}

func (c *Catalog) operationChoices() int {
	total := 0
	for _, op := range c.OperationTypes() {
		total += c.ParameterCount(op)
	}
	return total
}

// sumOfPowers returns the sum of base^e over every exponent e, refusing
// any term longer than MaxCardinalityBits.
func sumOfPowers(base *big.Int, exponents sets.Set[int]) (*big.Int, error) {
	total := new(big.Int)
	bits := base.BitLen()
	for _, e := range sets.List(exponents) {
		// 0^e and 1^e stay small whatever the exponent.
		if bits > 1 && e > MaxCardinalityBits/(bits-1) {
			return nil, ErrCardinalityTooLarge
		}
		total.Add(total, new(big.Int).Exp(base, big.NewInt(int64(e)), nil))
		if total.BitLen() > MaxCardinalityBits {
			return nil, ErrCardinalityTooLarge
		}
	}
	return total, nil
}
