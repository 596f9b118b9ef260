// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"testing"

	"github.com/born-ml/audioquery/nn"
	"github.com/born-ml/born/backend/cpu"
	"github.com/born-ml/born/tensor"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
)

func TestLayers(t *testing.T) {
	backend := cpu.New()
	src := rand.NewSource(1)

	attn := nn.NewMultiHeadAttention(nn.MultiHeadAttentionConfig{EmbedDim: 8, NumHeads: 2}, src, backend)
	norm := nn.NewLayerNorm(8, 0, backend)
	linear := nn.NewLinear(8, 4, true, src, backend)

	x := tensor.Ones[float32](tensor.Shape{2, 3, 8}, backend)
	y := norm.Forward(attn.Forward(x, x, x))
	assert.Equal(t, tensor.Shape{2, 3, 8}, y.Shape())
	assert.Equal(t, nn.DefaultLayerNormEps, norm.Epsilon)

	z := linear.Forward(y.Reshape(6, 8))
	assert.Equal(t, tensor.Shape{6, 4}, z.Shape())
	assert.NotNil(t, linear.Bias())
	assert.Nil(t, nn.NewLinear(8, 4, false, src, backend).Bias())
}

func TestXavier(t *testing.T) {
	w := nn.Xavier(4, 4, tensor.Shape{4, 4}, rand.NewSource(2), cpu.New())
	for _, v := range w.Data() {
		assert.LessOrEqual(t, v, float32(0.867))
		assert.GreaterOrEqual(t, v, float32(-0.867))
	}
}
