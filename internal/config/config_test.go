package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 256, cfg.EmbedDim)
	assert.Equal(t, 4, cfg.NumHeads)
	assert.Equal(t, 512, cfg.HiddenDim)
	assert.Equal(t, 64, cfg.HeadDim())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero queries", func(c *Config) { c.QueryNum = 0 }, "query_num"},
		{"zero embed", func(c *Config) { c.EmbedDim = 0 }, "embed_dim"},
		{"zero heads", func(c *Config) { c.NumHeads = 0 }, "num_heads"},
		{"not divisible", func(c *Config) { c.EmbedDim = 250 }, "divisible"},
		{"negative layers", func(c *Config) { c.NumLayers = -1 }, "num_layers"},
		{"negative hidden", func(c *Config) { c.HiddenDim = -1 }, "hidden_dim"},
		{"negative eps", func(c *Config) { c.Eps = -1 }, "eps"},
		{"zero eps uses default", func(c *Config) { c.Eps = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
