//go:build !windows

package main

import "errors"

func newWebGPUSession(*options) (session, error) {
	return nil, errors.New("webgpu backend is only available on windows")
}
