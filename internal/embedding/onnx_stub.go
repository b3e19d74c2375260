//go:build !cgo
// +build !cgo

package embedding

import (
	"context"
	"fmt"
)

// ONNXEmbedder stub type when built without CGO (see onnx.go for real implementation).
type ONNXEmbedder struct{}

// NewONNXEmbedder returns ErrUnavailable when built without CGO.
func NewONNXEmbedder(_ string, _, _, _ int) (*ONNXEmbedder, error) {
	return nil, fmt.Errorf("%w: requires CGO_ENABLED=1 and the onnxruntime library", ErrUnavailable)
}

// Embed is unreachable in the stub: NewONNXEmbedder never returns an instance.
func (e *ONNXEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return nil, ErrUnavailable
}

// EmbedBatch is unreachable in the stub: NewONNXEmbedder never returns an instance.
func (e *ONNXEmbedder) EmbedBatch(_ context.Context, _ []string) ([][]float32, error) {
	return nil, ErrUnavailable
}

// Dimensions is unreachable in the stub: NewONNXEmbedder never returns an instance.
func (e *ONNXEmbedder) Dimensions() int { return 0 }

// Close is unreachable in the stub: NewONNXEmbedder never returns an instance.
func (e *ONNXEmbedder) Close() error { return nil }
