package nn

import (
	"fmt"
	"math"

	bornnn "github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
	"golang.org/x/exp/rand"
)

// MultiHeadAttentionConfig configures a MultiHeadAttention layer.
type MultiHeadAttentionConfig struct {
	EmbedDim int  // Model dimension, shared by queries, keys and values
	NumHeads int  // Number of heads (must divide EmbedDim)
	Bias     bool // Whether the in/out projections carry bias terms
}

// MultiHeadAttention implements batch-first multi-head attention:
//
//	MHA(Q, K, V) = Concat(head_1, ..., head_h) * W_O
//	head_i = softmax(Q W_Q_i (K W_K_i)^T / sqrt(d_head)) V W_V_i
//
// The Q, K and V projections are packed into one [3*embed_dim, embed_dim]
// weight, with out_proj as a separate Linear, so state dicts line up with the
// usual in_proj_weight / out_proj.weight naming.
//
// Example:
//
//	mha := nn.NewMultiHeadAttention(nn.MultiHeadAttentionConfig{
//	    EmbedDim: 256, NumHeads: 4,
//	}, rand.NewSource(0), backend)
//	out := mha.Forward(x, x, x)        // self-attention
//	out = mha.Forward(q, kv, kv)       // cross-attention
type MultiHeadAttention[B tensor.Backend] struct {
	InProjWeight *bornnn.Parameter[B] // [3*embed_dim, embed_dim]
	InProjBias   *bornnn.Parameter[B] // [3*embed_dim] or nil
	OutProj      *Linear[B]           // [embed_dim, embed_dim]
	NumHeads     int
	HeadDim      int
	EmbedDim     int
}

// NewMultiHeadAttention creates a multi-head attention layer.
//
// Panics if EmbedDim or NumHeads is not positive or EmbedDim is not
// divisible by NumHeads.
func NewMultiHeadAttention[B tensor.Backend](cfg MultiHeadAttentionConfig, src rand.Source, backend B) *MultiHeadAttention[B] {
	if cfg.EmbedDim <= 0 || cfg.NumHeads <= 0 {
		panic(fmt.Sprintf("MultiHeadAttention: embed_dim (%d) and num_heads (%d) must be positive",
			cfg.EmbedDim, cfg.NumHeads))
	}
	if cfg.EmbedDim%cfg.NumHeads != 0 {
		panic(fmt.Sprintf("MultiHeadAttention: embed_dim (%d) must be divisible by num_heads (%d)",
			cfg.EmbedDim, cfg.NumHeads))
	}

	e := cfg.EmbedDim
	m := &MultiHeadAttention[B]{
		InProjWeight: bornnn.NewParameter("in_proj_weight",
			Xavier(e, 3*e, tensor.Shape{3 * e, e}, src, backend)),
		OutProj:  NewLinear(e, e, cfg.Bias, src, backend),
		NumHeads: cfg.NumHeads,
		HeadDim:  e / cfg.NumHeads,
		EmbedDim: e,
	}
	if cfg.Bias {
		m.InProjBias = bornnn.NewParameter("in_proj_bias", Zeros(tensor.Shape{3 * e}, backend))
	}
	return m
}

// Forward computes multi-head attention.
//
//   - query: [batch, seq_q, embed_dim]
//   - key:   [batch, seq_k, embed_dim]
//   - value: [batch, seq_k, embed_dim]
//
// Returns [batch, seq_q, embed_dim].
func (m *MultiHeadAttention[B]) Forward(query, key, value *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	out, _ := m.ForwardWithWeights(query, key, value)
	return out
}

// ForwardWithWeights is Forward that also returns the per-head attention
// weights [batch, num_heads, seq_q, seq_k]. Rows of the weights sum to one.
func (m *MultiHeadAttention[B]) ForwardWithWeights(
	query, key, value *tensor.Tensor[float32, B],
) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	m.validate(query, key, value)

	batch := query.Shape()[0]
	seqQ := query.Shape()[1]
	seqK := key.Shape()[1]

	w := m.InProjWeight.Tensor().Chunk(3, 0)
	var b []*tensor.Tensor[float32, B]
	if m.InProjBias != nil {
		b = m.InProjBias.Tensor().Chunk(3, 0)
	}

	q := m.splitHeads(m.project(query, w, b, 0), batch, seqQ)
	k := m.splitHeads(m.project(key, w, b, 1), batch, seqK)
	v := m.splitHeads(m.project(value, w, b, 2), batch, seqK)

	// [batch, heads, seq_q, head_dim] @ [batch, heads, head_dim, seq_k]
	scale := float32(1.0 / math.Sqrt(float64(m.HeadDim)))
	scores := q.BatchMatMul(k.Transpose(0, 1, 3, 2)).MulScalar(scale)
	weights := scores.Softmax(-1)
	attn := weights.BatchMatMul(v)

	// Merge heads back: [batch, seq_q, embed_dim].
	attn = attn.Transpose(0, 2, 1, 3).Reshape(batch*seqQ, m.EmbedDim)
	out := m.OutProj.Forward(attn).Reshape(batch, seqQ, m.EmbedDim)

	return out, weights
}

// project applies the i-th packed input projection to a [batch, seq, embed_dim] tensor.
func (m *MultiHeadAttention[B]) project(
	x *tensor.Tensor[float32, B],
	w, b []*tensor.Tensor[float32, B],
	i int,
) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	out := x.Reshape(shape[0]*shape[1], m.EmbedDim).MatMul(w[i].Transpose())
	if b != nil {
		out = out.Add(b[i].Reshape(1, m.EmbedDim))
	}
	return out
}

// splitHeads turns [batch*seq, embed_dim] into [batch, heads, seq, head_dim].
func (m *MultiHeadAttention[B]) splitHeads(x *tensor.Tensor[float32, B], batch, seq int) *tensor.Tensor[float32, B] {
	return x.Reshape(batch, seq, m.NumHeads, m.HeadDim).Transpose(0, 2, 1, 3)
}

func (m *MultiHeadAttention[B]) validate(query, key, value *tensor.Tensor[float32, B]) {
	const op = "MultiHeadAttention.Forward"
	want := tensor.Shape{-1, -1, m.EmbedDim}

	for _, in := range []struct {
		name  string
		shape tensor.Shape
	}{
		{"query", query.Shape()},
		{"key", key.Shape()},
		{"value", value.Shape()},
	} {
		if len(in.shape) != 3 || in.shape[2] != m.EmbedDim {
			panic(shapeErr(op, in.name, want, in.shape, "expected [batch, seq, embed_dim]"))
		}
	}

	qs, ks, vs := query.Shape(), key.Shape(), value.Shape()
	if ks[0] != qs[0] || vs[0] != qs[0] {
		panic(shapeErr(op, "key", tensor.Shape{qs[0], -1, m.EmbedDim}, ks, "batch size must match query"))
	}
	if ks[1] != vs[1] {
		panic(shapeErr(op, "value", tensor.Shape{ks[0], ks[1], m.EmbedDim}, vs, "key and value must have same seq length"))
	}
}

// Parameters returns in_proj_weight, in_proj_bias (if any) and the out_proj parameters.
func (m *MultiHeadAttention[B]) Parameters() []*bornnn.Parameter[B] {
	params := []*bornnn.Parameter[B]{m.InProjWeight}
	if m.InProjBias != nil {
		params = append(params, m.InProjBias)
	}
	return append(params, m.OutProj.Parameters()...)
}

// NamedParameters returns the layer's parameters keyed as in_proj_weight,
// in_proj_bias (if any) and out_proj.*, prefixed with prefix.
func (m *MultiHeadAttention[B]) NamedParameters(prefix string) []NamedParameter[B] {
	params := []NamedParameter[B]{{Name: prefix + "in_proj_weight", Param: m.InProjWeight}}
	if m.InProjBias != nil {
		params = append(params, NamedParameter[B]{Name: prefix + "in_proj_bias", Param: m.InProjBias})
	}
	return append(params, m.OutProj.NamedParameters(prefix+"out_proj.")...)
}

// StateDict adds the layer's tensors under prefix to dict.
func (m *MultiHeadAttention[B]) StateDict(prefix string, dict map[string]*tensor.RawTensor) {
	WriteState(m.NamedParameters(prefix), dict)
}

// LoadStateDict copies the layer's tensors from dict. On error nothing is copied.
func (m *MultiHeadAttention[B]) LoadStateDict(prefix string, dict map[string]*tensor.RawTensor) error {
	return LoadState(m.NamedParameters(prefix), dict)
}
