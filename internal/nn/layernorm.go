package nn

import (
	"fmt"

	bornnn "github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// DefaultLayerNormEps is the epsilon used when none is configured.
const DefaultLayerNormEps float32 = 1e-5

// LayerNorm normalizes the last dimension of its input:
//
//	Y = gamma * (X - mean(X)) / sqrt(var(X) + eps) + beta
//
// Variance is the population variance over the feature dimension.
// Gamma starts at ones and beta at zeros, so a freshly constructed layer is a
// pure standardization.
type LayerNorm[B tensor.Backend] struct {
	Gamma   *bornnn.Parameter[B] // scale [d_model]
	Beta    *bornnn.Parameter[B] // shift [d_model]
	Epsilon float32
	dModel  int
}

// NewLayerNorm creates a LayerNorm over a feature dimension of size dModel.
func NewLayerNorm[B tensor.Backend](dModel int, epsilon float32, backend B) *LayerNorm[B] {
	if dModel <= 0 {
		panic(fmt.Sprintf("LayerNorm: normalized shape must be positive, got %d", dModel))
	}
	if epsilon <= 0 {
		epsilon = DefaultLayerNormEps
	}
	return &LayerNorm[B]{
		Gamma:   bornnn.NewParameter("weight", Ones(tensor.Shape{dModel}, backend)),
		Beta:    bornnn.NewParameter("bias", Zeros(tensor.Shape{dModel}, backend)),
		Epsilon: epsilon,
		dModel:  dModel,
	}
}

// Forward applies the normalization. Input [..., d_model], output has the same shape.
func (l *LayerNorm[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if len(shape) == 0 || shape[len(shape)-1] != l.dModel {
		panic(shapeErr("LayerNorm.Forward", "input", tensor.Shape{-1, l.dModel}, shape,
			"last dimension must match normalized shape"))
	}

	mean := x.MeanDim(-1, true)
	xCentered := x.Sub(mean)
	// Clone so the backend's in-place fast path cannot square xCentered itself.
	variance := xCentered.Mul(xCentered.Clone()).MeanDim(-1, true)
	xNorm := xCentered.Mul(variance.AddScalar(l.Epsilon).Rsqrt())

	// [d_model] -> [1, ..., 1, d_model] for broadcasting.
	gamma := l.Gamma.Tensor()
	beta := l.Beta.Tensor()
	for i := 0; i < len(shape)-1; i++ {
		gamma = gamma.Unsqueeze(0)
		beta = beta.Unsqueeze(0)
	}

	return xNorm.Mul(gamma).Add(beta)
}

// Parameters returns [gamma, beta].
func (l *LayerNorm[B]) Parameters() []*bornnn.Parameter[B] {
	return []*bornnn.Parameter[B]{l.Gamma, l.Beta}
}

// NamedParameters returns "<prefix>weight" (gamma) and "<prefix>bias" (beta).
func (l *LayerNorm[B]) NamedParameters(prefix string) []NamedParameter[B] {
	return []NamedParameter[B]{
		{Name: prefix + "weight", Param: l.Gamma},
		{Name: prefix + "bias", Param: l.Beta},
	}
}

// StateDict adds gamma and beta under prefix to dict.
func (l *LayerNorm[B]) StateDict(prefix string, dict map[string]*tensor.RawTensor) {
	WriteState(l.NamedParameters(prefix), dict)
}

// LoadStateDict copies gamma and beta from dict. On error nothing is copied.
func (l *LayerNorm[B]) LoadStateDict(prefix string, dict map[string]*tensor.RawTensor) error {
	return LoadState(l.NamedParameters(prefix), dict)
}
