package nn

import (
	"fmt"
	"math"

	bornnn "github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// XavierBound returns the Xavier/Glorot uniform bound sqrt(6 / (fan_in + fan_out)).
func XavierBound(fanIn, fanOut int) float64 {
	return math.Sqrt(6.0 / float64(fanIn+fanOut))
}

// Fans computes fan_in and fan_out for a weight of the given shape.
//
// For a 2D weight [out, in] this is (in, out). Trailing dimensions beyond the
// first two are treated as a receptive field and multiply both fans.
// Panics for shapes with fewer than two dimensions.
func Fans(shape tensor.Shape) (fanIn, fanOut int) {
	if len(shape) < 2 {
		panic(fmt.Sprintf("Fans: need at least 2 dimensions, got shape %v", shape))
	}
	receptive := 1
	for _, d := range shape[2:] {
		receptive *= d
	}
	return shape[1] * receptive, shape[0] * receptive
}

// Xavier creates a tensor initialized with Xavier/Glorot uniform values.
//
// Values are drawn from U(-a, a) with a = sqrt(6/(fan_in + fan_out)).
// The source makes initialization reproducible: two calls with sources
// seeded identically produce identical tensors.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, src rand.Source, backend B) *tensor.Tensor[float32, B] {
	data := make([]float32, shape.NumElements())
	fillUniform(data, XavierBound(fanIn, fanOut), src)

	t, err := tensor.FromSlice[float32, B](data, shape, backend)
	if err != nil {
		panic(fmt.Sprintf("Xavier: failed to create tensor: %v", err))
	}
	return t
}

// XavierUniform re-initializes a parameter in place with Xavier/Glorot
// uniform values, using Fans to derive fan_in and fan_out from its shape.
func XavierUniform[B tensor.Backend](p *bornnn.Parameter[B], src rand.Source) {
	t := p.Tensor()
	fanIn, fanOut := Fans(t.Shape())
	fillUniform(t.Data(), XavierBound(fanIn, fanOut), src)
}

func fillUniform(data []float32, bound float64, src rand.Source) {
	dist := distuv.Uniform{Min: -bound, Max: bound, Src: src}
	for i := range data {
		data[i] = float32(dist.Rand())
	}
}

// Zeros creates a tensor filled with zeros.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32](shape, backend)
}

// Ones creates a tensor filled with ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Ones[float32](shape, backend)
}
