package main

import (
	"fmt"
	"time"

	"github.com/born-ml/audioquery/internal/logger"
	"github.com/born-ml/audioquery/internal/querygen"
	"github.com/born-ml/born/backend/cpu"
	"github.com/born-ml/born/tensor"
	"golang.org/x/exp/rand"
)

// session runs the generator on one backend.
type session interface {
	// Forward runs one forward pass on a synthetic batch and returns the
	// output shape and values.
	Forward() (tensor.Shape, []float32, error)
	NumParameters() int
	BackendName() string
	Close()
}

// pipeline is the session implementation for backend B.
type pipeline[B tensor.Backend] struct {
	gen     *querygen.Generator[B]
	audio   *tensor.Tensor[float32, B]
	release func()
}

func newPipeline[B tensor.Backend](opts *options, backend B, release func()) (*pipeline[B], error) {
	if opts.batch < 1 {
		return nil, fmt.Errorf("invalid batch: %d (must be positive)", opts.batch)
	}
	gen, err := querygen.New(opts.cfg, backend)
	if err != nil {
		return nil, err
	}

	r := rand.New(rand.NewSource(opts.cfg.Seed + 1))
	data := make([]float32, opts.batch*opts.cfg.EmbedDim)
	for i := range data {
		data[i] = float32(r.NormFloat64())
	}
	audio, err := tensor.FromSlice(data, tensor.Shape{opts.batch, opts.cfg.EmbedDim}, backend)
	if err != nil {
		return nil, err
	}

	return &pipeline[B]{gen: gen, audio: audio, release: release}, nil
}

func (p *pipeline[B]) Forward() (tensor.Shape, []float32, error) {
	out := p.gen.Forward(p.audio)
	if err := querygen.CheckFinite("queries", out); err != nil {
		return nil, nil, err
	}
	return out.Shape(), out.Data(), nil
}

func (p *pipeline[B]) NumParameters() int {
	return p.gen.NumParameters()
}

func (p *pipeline[B]) BackendName() string {
	return p.gen.Backend().Name()
}

func (p *pipeline[B]) Close() {
	if p.release != nil {
		p.release()
	}
}

// newSession builds a session on the backend named in opts.
func newSession(opts *options) (session, error) {
	start := time.Now()
	var (
		s   session
		err error
	)
	switch opts.backend {
	case "cpu":
		s, err = newPipeline(opts, cpu.New(), nil)
	case "webgpu":
		s, err = newWebGPUSession(opts)
	default:
		return nil, fmt.Errorf("unknown backend %q (expected cpu or webgpu)", opts.backend)
	}
	if err != nil {
		return nil, err
	}
	logger.Log.Info("generator ready",
		"backend", s.BackendName(),
		"parameters", s.NumParameters(),
		"elapsed", time.Since(start).String())
	return s, nil
}
