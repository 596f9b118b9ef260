// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/audioquery/internal/nn"
	bornnn "github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
	"golang.org/x/exp/rand"
)

// ShapeError is the panic value for tensors of the wrong shape.
type ShapeError = nn.ShapeError

// Layers

// MultiHeadAttention is multi-head scaled dot-product attention.
type MultiHeadAttention[B tensor.Backend] = nn.MultiHeadAttention[B]

// MultiHeadAttentionConfig configures MultiHeadAttention.
type MultiHeadAttentionConfig = nn.MultiHeadAttentionConfig

// NewMultiHeadAttention creates an attention layer with Xavier-initialized
// projections drawn from src.
//
// Example:
//
//	attn := nn.NewMultiHeadAttention(nn.MultiHeadAttentionConfig{EmbedDim: 64, NumHeads: 8}, src, backend)
func NewMultiHeadAttention[B tensor.Backend](cfg MultiHeadAttentionConfig, src rand.Source, backend B) *MultiHeadAttention[B] {
	return nn.NewMultiHeadAttention(cfg, src, backend)
}

// LayerNorm normalizes the last dimension with learned scale and shift.
type LayerNorm[B tensor.Backend] = nn.LayerNorm[B]

// DefaultLayerNormEps is used when a non-positive epsilon is given.
const DefaultLayerNormEps = nn.DefaultLayerNormEps

// NewLayerNorm creates a LayerNorm over a feature dimension of size dModel.
func NewLayerNorm[B tensor.Backend](dModel int, epsilon float32, backend B) *LayerNorm[B] {
	return nn.NewLayerNorm(dModel, epsilon, backend)
}

// Linear is a fully connected layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a linear layer with Xavier weights and, when useBias is
// set, a zero bias.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, useBias bool, src rand.Source, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, useBias, src, backend)
}

// Initialization

// Xavier returns a tensor of the given shape drawn from
// U(-sqrt(6/(fanIn+fanOut)), sqrt(6/(fanIn+fanOut))).
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, src rand.Source, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, src, backend)
}

// XavierUniform re-draws p in place using fans computed from its shape.
func XavierUniform[B tensor.Backend](p *bornnn.Parameter[B], src rand.Source) {
	nn.XavierUniform(p, src)
}
