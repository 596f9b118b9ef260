// Package querygen implements the audio-conditioned query generator: a fixed
// table of learned query tokens refined by one self-attention plus
// cross-attention block.
package querygen

import (
	"fmt"

	"github.com/born-ml/audioquery/internal/nn"
	"github.com/born-ml/born/tensor"
	"golang.org/x/exp/rand"
)

// BlockConfig configures an AttentionBlock.
type BlockConfig struct {
	EmbedDim  int
	NumHeads  int
	HiddenDim int // reserved, no feed-forward sub-block is built
	Eps       float32
}

// AttentionBlock refines a query sequence with self-attention over the
// queries followed by cross-attention to an audio feature sequence.
//
//	q = norm1(q + selfAttn(q, q, q))
//	q = norm2(q + crossAttn(q, audio, audio))
//	q = norm3(q + q)
//
// Both attention layers run without projection biases.
type AttentionBlock[B tensor.Backend] struct {
	SelfAttn  *nn.MultiHeadAttention[B]
	CrossAttn *nn.MultiHeadAttention[B]
	Norm1     *nn.LayerNorm[B]
	Norm2     *nn.LayerNorm[B]
	Norm3     *nn.LayerNorm[B]
	HiddenDim int
}

// NewAttentionBlock builds the block. Panics if EmbedDim is not divisible by NumHeads.
func NewAttentionBlock[B tensor.Backend](cfg BlockConfig, src rand.Source, backend B) *AttentionBlock[B] {
	attnCfg := nn.MultiHeadAttentionConfig{EmbedDim: cfg.EmbedDim, NumHeads: cfg.NumHeads}
	return &AttentionBlock[B]{
		SelfAttn:  nn.NewMultiHeadAttention(attnCfg, src, backend),
		CrossAttn: nn.NewMultiHeadAttention(attnCfg, src, backend),
		Norm1:     nn.NewLayerNorm(cfg.EmbedDim, cfg.Eps, backend),
		Norm2:     nn.NewLayerNorm(cfg.EmbedDim, cfg.Eps, backend),
		Norm3:     nn.NewLayerNorm(cfg.EmbedDim, cfg.Eps, backend),
		HiddenDim: cfg.HiddenDim,
	}
}

// Forward refines query [batch, seq_q, embed_dim] against audio
// [batch, seq_a, embed_dim] and returns a tensor shaped like query.
// Neither input is modified.
func (b *AttentionBlock[B]) Forward(query, audio *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	// Residuals add into the fresh attention output; adding into query
	// would let the backend overwrite the caller's tensor in place.
	out1 := b.SelfAttn.Forward(query, query, query)
	query = b.Norm1.Forward(out1.Add(query))

	out2 := b.CrossAttn.Forward(query, audio, audio)
	query = b.Norm2.Forward(out2.Add(query))

	// Doubling then normalizing; kept as-is to match trained checkpoints.
	return b.Norm3.Forward(query.Add(query))
}

// NamedParameters returns the block's parameters in registration order,
// names prefixed with prefix.
func (b *AttentionBlock[B]) NamedParameters(prefix string) []NamedParameter[B] {
	var out []NamedParameter[B]
	out = append(out, b.SelfAttn.NamedParameters(prefix+"self_attn.")...)
	out = append(out, b.CrossAttn.NamedParameters(prefix+"cross_attn.")...)
	for i, norm := range []*nn.LayerNorm[B]{b.Norm1, b.Norm2, b.Norm3} {
		out = append(out, norm.NamedParameters(fmt.Sprintf("%snorm%d.", prefix, i+1))...)
	}
	return out
}

// StateDict adds the block's tensors under prefix to dict.
func (b *AttentionBlock[B]) StateDict(prefix string, dict map[string]*tensor.RawTensor) {
	nn.WriteState(b.NamedParameters(prefix), dict)
}

// LoadStateDict copies the block's tensors from dict. On error no parameter
// is modified.
func (b *AttentionBlock[B]) LoadStateDict(prefix string, dict map[string]*tensor.RawTensor) error {
	return nn.LoadState(b.NamedParameters(prefix), dict)
}
