// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package querygen

import (
	"github.com/born-ml/audioquery/internal/config"
	"github.com/born-ml/audioquery/internal/nn"
	"github.com/born-ml/audioquery/internal/querygen"
	"github.com/born-ml/born/tensor"
	"golang.org/x/exp/rand"
)

// Config holds the generator hyperparameters.
type Config = config.Config

// DefaultConfig returns the reference hyperparameters
// (one layer, 8 queries, embed_dim 256, 4 heads, hidden_dim 512).
func DefaultConfig() Config {
	return config.Default()
}

// Generator maps audio features to query embeddings.
type Generator[B tensor.Backend] = querygen.Generator[B]

// NamedParameter pairs a parameter with its state dict name.
type NamedParameter[B tensor.Backend] = querygen.NamedParameter[B]

// New validates cfg and builds a Generator with Xavier-initialized weights.
//
// Example:
//
//	backend := cpu.New()
//	gen, err := querygen.New(querygen.DefaultConfig(), backend)
func New[B tensor.Backend](cfg Config, backend B) (*Generator[B], error) {
	return querygen.New(cfg, backend)
}

// MustNew is like New but panics on an invalid config.
func MustNew[B tensor.Backend](cfg Config, backend B) *Generator[B] {
	return querygen.MustNew(cfg, backend)
}

// AttentionBlock is the self-attention plus cross-attention block.
type AttentionBlock[B tensor.Backend] = querygen.AttentionBlock[B]

// BlockConfig configures an AttentionBlock.
type BlockConfig = querygen.BlockConfig

// NewAttentionBlock builds a standalone block drawing its weights from src.
func NewAttentionBlock[B tensor.Backend](cfg BlockConfig, src rand.Source, backend B) *AttentionBlock[B] {
	return querygen.NewAttentionBlock(cfg, src, backend)
}

// ShapeError is the panic value for tensors of the wrong shape.
type ShapeError = nn.ShapeError

// ErrNonFinite is wrapped by CheckFinite errors.
var ErrNonFinite = querygen.ErrNonFinite

// CheckFinite reports whether t holds NaN or Inf values.
func CheckFinite[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) error {
	return querygen.CheckFinite(name, t)
}
