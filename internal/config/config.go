// Package config holds the construction parameters of the query generator.
package config

import "fmt"

// Config describes a query generator.
type Config struct {
	// NumLayers is recorded for compatibility with checkpoints of the
	// reference model. A single attention block is built regardless.
	NumLayers int
	QueryNum  int // Number of learned query tokens (output sequence length)
	EmbedDim  int // Embedding dimension shared by all components
	NumHeads  int // Attention heads, must divide EmbedDim
	// HiddenDim is reserved for a feed-forward sub-block and not used by
	// the attention block.
	HiddenDim int
	Eps       float32 // LayerNorm epsilon
	Seed      uint64  // Seed for parameter initialization
}

// Default returns the reference hyperparameters: embed_dim=256, num_heads=4,
// hidden_dim=512.
func Default() Config {
	return Config{
		NumLayers: 1,
		QueryNum:  8,
		EmbedDim:  256,
		NumHeads:  4,
		HiddenDim: 512,
		Eps:       1e-5,
	}
}

// Validate checks the config for values that would make construction fail.
func (c *Config) Validate() error {
	if c.NumLayers < 0 {
		return fmt.Errorf("invalid num_layers: %d (must be non-negative)", c.NumLayers)
	}
	if c.QueryNum <= 0 {
		return fmt.Errorf("invalid query_num: %d (must be positive)", c.QueryNum)
	}
	if c.EmbedDim <= 0 {
		return fmt.Errorf("invalid embed_dim: %d (must be positive)", c.EmbedDim)
	}
	if c.NumHeads <= 0 {
		return fmt.Errorf("invalid num_heads: %d (must be positive)", c.NumHeads)
	}
	if c.EmbedDim%c.NumHeads != 0 {
		return fmt.Errorf("embed_dim (%d) must be divisible by num_heads (%d)", c.EmbedDim, c.NumHeads)
	}
	if c.HiddenDim < 0 {
		return fmt.Errorf("invalid hidden_dim: %d (must be non-negative)", c.HiddenDim)
	}
	if c.Eps < 0 {
		return fmt.Errorf("invalid eps: %g (must be non-negative)", c.Eps)
	}
	return nil
}

// HeadDim returns EmbedDim / NumHeads.
func (c *Config) HeadDim() int {
	return c.EmbedDim / c.NumHeads
}
