//go:build windows

package main

import (
	"errors"

	"github.com/born-ml/born/backend/webgpu"
)

func newWebGPUSession(opts *options) (session, error) {
	if !webgpu.IsAvailable() {
		return nil, errors.New("webgpu is not available on this system")
	}
	gpu, err := webgpu.New()
	if err != nil {
		return nil, err
	}
	s, err := newPipeline(opts, gpu, gpu.Release)
	if err != nil {
		gpu.Release()
		return nil, err
	}
	return s, nil
}
