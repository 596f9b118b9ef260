package querygen

import (
	"fmt"
	"time"

	"github.com/born-ml/audioquery/internal/config"
	"github.com/born-ml/audioquery/internal/logger"
	"github.com/born-ml/audioquery/internal/metrics"
	"github.com/born-ml/audioquery/internal/nn"
	bornnn "github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
	"golang.org/x/exp/rand"
)

// NamedParameter pairs a parameter with its state dict name.
type NamedParameter[B tensor.Backend] = nn.NamedParameter[B]

// Generator maps one audio feature vector per sample to a sequence of
// QueryNum learned query embeddings conditioned on it.
//
// Architecture:
//
//	audio [B, E] -> [B, 1, E]
//	query table [Q, E] -> broadcast [B, Q, E]
//	AttentionBlock(query, audio) -> [B, Q, E]
//
// A Generator holds no state besides its parameters. Forward reads them only,
// so concurrent calls are safe on a backend that is itself safe for
// concurrent use.
//
// Example:
//
//	cfg := config.Default()
//	cfg.QueryNum = 8
//	gen, err := querygen.New(cfg, cpu.New())
//	queries := gen.Forward(audio) // [2, 256] -> [2, 8, 256]
type Generator[B tensor.Backend] struct {
	Query  *bornnn.Parameter[B] // query token table [query_num, embed_dim]
	Layers *AttentionBlock[B]

	cfg     config.Config
	backend B
}

// New validates cfg, builds the generator and initializes every parameter
// of rank > 1 with Xavier-uniform values drawn from cfg.Seed.
func New[B tensor.Backend](cfg config.Config, backend B) (*Generator[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("querygen: %w", err)
	}
	if cfg.Eps == 0 {
		cfg.Eps = nn.DefaultLayerNormEps
	}

	src := rand.NewSource(cfg.Seed)
	g := &Generator[B]{
		Query: bornnn.NewParameter("query.weight",
			nn.Zeros(tensor.Shape{cfg.QueryNum, cfg.EmbedDim}, backend)),
		Layers: NewAttentionBlock(BlockConfig{
			EmbedDim:  cfg.EmbedDim,
			NumHeads:  cfg.NumHeads,
			HiddenDim: cfg.HiddenDim,
			Eps:       cfg.Eps,
		}, src, backend),
		cfg:     cfg,
		backend: backend,
	}
	g.resetParameters(src)

	logger.Log.Debug("query generator constructed",
		"backend", backend.Name(),
		"query_num", cfg.QueryNum,
		"embed_dim", cfg.EmbedDim,
		"num_heads", cfg.NumHeads,
		"num_layers", cfg.NumLayers,
		"parameters", g.NumParameters())

	return g, nil
}

// MustNew is like New but panics on an invalid config.
func MustNew[B tensor.Backend](cfg config.Config, backend B) *Generator[B] {
	g, err := New(cfg, backend)
	if err != nil {
		panic(err)
	}
	return g
}

// resetParameters re-draws every parameter with more than one dimension.
// LayerNorm scales and shifts keep their ones/zeros initialization.
func (g *Generator[B]) resetParameters(src rand.Source) {
	for _, np := range g.NamedParameters() {
		if len(np.Param.Tensor().Shape()) > 1 {
			nn.XavierUniform(np.Param, src)
		}
	}
}

// Forward generates queries for a batch of audio features.
//
// audio has shape [batch, embed_dim] with batch >= 1. The result has shape
// [batch, query_num, embed_dim]. Panics with *nn.ShapeError on any other
// input shape.
func (g *Generator[B]) Forward(audio *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := audio.Shape()
	if len(shape) != 2 || shape[0] < 1 || shape[1] != g.cfg.EmbedDim {
		panic(&nn.ShapeError{
			Op:       "Generator.Forward",
			Arg:      "audio",
			Expected: tensor.Shape{-1, g.cfg.EmbedDim},
			Got:      shape.Clone(),
			Reason:   "expected [batch, embed_dim] with batch >= 1",
		})
	}

	start := time.Now()
	batch := shape[0]
	q, e := g.cfg.QueryNum, g.cfg.EmbedDim

	audioSeq := audio.Reshape(batch, 1, e)
	query := g.Query.Tensor().Reshape(1, q, e).Expand(tensor.Shape{batch, q, e})
	out := g.Layers.Forward(query, audioSeq)

	metrics.ObserveForward(g.backend.Name(), batch, time.Since(start))
	return out
}

// NamedParameters returns all parameters with their state dict names, in
// registration order.
func (g *Generator[B]) NamedParameters() []NamedParameter[B] {
	params := []NamedParameter[B]{{Name: "query.weight", Param: g.Query}}
	return append(params, g.Layers.NamedParameters("layers.")...)
}

// Parameters returns all trainable parameters.
func (g *Generator[B]) Parameters() []*bornnn.Parameter[B] {
	named := g.NamedParameters()
	params := make([]*bornnn.Parameter[B], len(named))
	for i, np := range named {
		params[i] = np.Param
	}
	return params
}

// NumParameters returns the total number of scalar parameters.
func (g *Generator[B]) NumParameters() int {
	n := 0
	for _, p := range g.Parameters() {
		n += p.Tensor().NumElements()
	}
	return n
}

// StateDict returns the generator's tensors keyed by name.
func (g *Generator[B]) StateDict() map[string]*tensor.RawTensor {
	dict := make(map[string]*tensor.RawTensor)
	nn.WriteState(g.NamedParameters(), dict)
	return dict
}

// LoadStateDict copies tensors from dict into the generator's parameters.
// Every expected key must be present with a matching shape; extra keys are
// ignored. All entries are checked before any is copied, so on error the
// generator is unchanged.
func (g *Generator[B]) LoadStateDict(dict map[string]*tensor.RawTensor) error {
	if err := nn.LoadState(g.NamedParameters(), dict); err != nil {
		return fmt.Errorf("querygen: %w", err)
	}
	return nil
}

// Config returns the configuration the generator was built with.
func (g *Generator[B]) Config() config.Config {
	return g.cfg
}

// Backend returns the generator's compute backend.
func (g *Generator[B]) Backend() B {
	return g.backend
}
