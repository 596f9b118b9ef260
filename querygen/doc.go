// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package querygen generates audio-conditioned query embeddings.
//
// # Overview
//
// A Generator owns a table of QueryNum learned query tokens. For every audio
// feature vector in a batch it broadcasts the table, refines it with
// self-attention over the queries and cross-attention to the audio vector,
// and returns QueryNum embeddings of size EmbedDim:
//
//	audio   [batch, embed_dim]
//	queries [batch, query_num, embed_dim]
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/audioquery/querygen"
//	    "github.com/born-ml/born/backend/cpu"
//	)
//
//	func main() {
//	    cfg := querygen.DefaultConfig()
//	    cfg.QueryNum = 8
//
//	    gen, err := querygen.New(cfg, cpu.New())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    queries := gen.Forward(audio) // [2, 256] -> [2, 8, 256]
//	}
//
// # Checkpoints
//
// Parameter names follow the PyTorch layout of the reference model
// (query.weight, layers.self_attn.in_proj_weight, layers.norm1.weight, ...),
// so StateDict and LoadStateDict exchange weights with converted checkpoints.
//
// # Errors
//
// New returns an error for an invalid Config. Forward panics with *ShapeError
// when the audio tensor is not [batch, embed_dim].
package querygen
