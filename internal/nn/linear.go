package nn

import (
	"fmt"

	bornnn "github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
	"golang.org/x/exp/rand"
)

// Linear implements a fully connected layer: y = x @ W.T (+ b).
//
// The bias is optional. Attention projections in the query generator run
// without one.
//
// Example:
//
//	src := rand.NewSource(42)
//	layer := nn.NewLinear(256, 256, false, src, backend)
//	out := layer.Forward(x) // [N, 256] -> [N, 256]
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *bornnn.Parameter[B] // [out_features, in_features]
	bias        *bornnn.Parameter[B] // [out_features] or nil
}

// NewLinear creates a Linear layer with a Xavier-initialized weight and,
// if useBias is set, a zero bias.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, useBias bool, src rand.Source, backend B) *Linear[B] {
	if inFeatures <= 0 || outFeatures <= 0 {
		panic(fmt.Sprintf("Linear: features must be positive, got in=%d out=%d", inFeatures, outFeatures))
	}

	l := &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight: bornnn.NewParameter("weight",
			Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}, src, backend)),
	}
	if useBias {
		l.bias = bornnn.NewParameter("bias", Zeros(tensor.Shape{outFeatures}, backend))
	}
	return l
}

// Forward computes x @ W.T (+ b) for a 2D input [batch, in_features].
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 2 || shape[1] != l.inFeatures {
		panic(shapeErr("Linear.Forward", "input", tensor.Shape{-1, l.inFeatures}, shape, ""))
	}

	output := input.MatMul(l.weight.Tensor().Transpose())
	if l.bias != nil {
		output = output.Add(l.bias.Tensor().Reshape(1, l.outFeatures))
	}
	return output
}

// Parameters returns [weight] or [weight, bias].
func (l *Linear[B]) Parameters() []*bornnn.Parameter[B] {
	if l.bias != nil {
		return []*bornnn.Parameter[B]{l.weight, l.bias}
	}
	return []*bornnn.Parameter[B]{l.weight}
}

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *bornnn.Parameter[B] {
	return l.weight
}

// Bias returns the bias parameter, nil when the layer has none.
func (l *Linear[B]) Bias() *bornnn.Parameter[B] {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear[B]) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear[B]) OutFeatures() int {
	return l.outFeatures
}

// NamedParameters returns "<prefix>weight" and, if present, "<prefix>bias".
func (l *Linear[B]) NamedParameters(prefix string) []NamedParameter[B] {
	params := []NamedParameter[B]{{Name: prefix + "weight", Param: l.weight}}
	if l.bias != nil {
		params = append(params, NamedParameter[B]{Name: prefix + "bias", Param: l.bias})
	}
	return params
}

// StateDict adds the layer's tensors under prefix to dict.
func (l *Linear[B]) StateDict(prefix string, dict map[string]*tensor.RawTensor) {
	WriteState(l.NamedParameters(prefix), dict)
}

// LoadStateDict copies the layer's tensors from dict. On error nothing is copied.
func (l *Linear[B]) LoadStateDict(prefix string, dict map[string]*tensor.RawTensor) error {
	return LoadState(l.NamedParameters(prefix), dict)
}
