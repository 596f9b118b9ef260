// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package querygen_test

import (
	"errors"
	"testing"

	"github.com/born-ml/audioquery/querygen"
	"github.com/born-ml/born/backend/cpu"
	"github.com/born-ml/born/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestPublicAPI(t *testing.T) {
	backend := cpu.New()
	cfg := querygen.DefaultConfig()
	cfg.EmbedDim = 16
	cfg.NumHeads = 2
	cfg.QueryNum = 3

	gen, err := querygen.New(cfg, backend)
	require.NoError(t, err)

	audio := tensor.Ones[float32](tensor.Shape{2, 16}, backend)
	out := gen.Forward(audio)
	assert.Equal(t, tensor.Shape{2, 3, 16}, out.Shape())
	assert.NoError(t, querygen.CheckFinite("out", out))
}

func TestPublicAPI_ShapeError(t *testing.T) {
	backend := cpu.New()
	cfg := querygen.DefaultConfig()
	cfg.EmbedDim = 8
	cfg.NumHeads = 2
	gen := querygen.MustNew(cfg, backend)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		var se *querygen.ShapeError
		require.True(t, errors.As(r.(error), &se))
		assert.Equal(t, tensor.Shape{3, 4}, se.Got)
	}()
	gen.Forward(tensor.Zeros[float32](tensor.Shape{3, 4}, backend))
}

func TestPublicAPI_Block(t *testing.T) {
	backend := cpu.New()
	block := querygen.NewAttentionBlock(querygen.BlockConfig{EmbedDim: 8, NumHeads: 4}, rand.NewSource(1), backend)

	query := tensor.Ones[float32](tensor.Shape{1, 2, 8}, backend)
	audio := tensor.Ones[float32](tensor.Shape{1, 1, 8}, backend)
	assert.Equal(t, tensor.Shape{1, 2, 8}, block.Forward(query, audio).Shape())
}

func TestPublicAPI_InvalidConfig(t *testing.T) {
	cfg := querygen.DefaultConfig()
	cfg.QueryNum = 0

	_, err := querygen.New(cfg, cpu.New())
	assert.Error(t, err)
}
