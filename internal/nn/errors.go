package nn

import (
	"fmt"

	"github.com/born-ml/born/tensor"
)

// ShapeError reports a tensor whose shape violates a layer's contract.
//
// Forward passes panic with a *ShapeError, in the same way Born layers panic
// on malformed input. Callers that need to recover can do so with:
//
//	defer func() {
//	    if r := recover(); r != nil {
//	        var se *nn.ShapeError
//	        if err, ok := r.(error); ok && errors.As(err, &se) {
//	            // handle
//	        }
//	    }
//	}()
type ShapeError struct {
	Op       string       // Operation that rejected the input, e.g. "MultiHeadAttention.Forward"
	Arg      string       // Argument name, e.g. "query"
	Expected tensor.Shape // Expected shape, -1 marks a free dimension
	Got      tensor.Shape // Actual shape
	Reason   string       // Optional detail
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	msg := fmt.Sprintf("%s: %s has shape %v, expected %v", e.Op, e.Arg, e.Got, e.Expected)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func shapeErr(op, arg string, expected, got tensor.Shape, reason string) *ShapeError {
	return &ShapeError{
		Op:       op,
		Arg:      arg,
		Expected: expected,
		Got:      got.Clone(),
		Reason:   reason,
	}
}
