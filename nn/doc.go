// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the attention layers the query generator is built from.
//
// # Overview
//
// This package contains:
//   - MultiHeadAttention: scaled dot-product attention with packed Q/K/V projection
//   - LayerNorm: normalization over the last dimension
//   - Linear: fully connected layer
//   - Initialization: Xavier-uniform with seeded sources
//
// Every layer works with any Born backend and exports its weights under
// PyTorch-compatible names through StateDict and LoadStateDict.
//
// # Basic Usage
//
//	backend := cpu.New()
//	src := rand.NewSource(42)
//
//	attn := nn.NewMultiHeadAttention(nn.MultiHeadAttentionConfig{
//	    EmbedDim: 256,
//	    NumHeads: 4,
//	}, src, backend)
//	out := attn.Forward(query, key, value) // [batch, seq_q, 256]
//
// # Errors
//
// Forward methods panic with *ShapeError when an input violates the layer's
// shape contract.
package nn
