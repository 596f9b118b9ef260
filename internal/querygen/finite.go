package querygen

import (
	"errors"
	"fmt"

	"github.com/born-ml/audioquery/internal/metrics"
	"github.com/born-ml/born/tensor"
)

// ErrNonFinite is returned by CheckFinite when a tensor holds NaN or Inf.
var ErrNonFinite = errors.New("tensor contains non-finite values")

// CheckFinite returns an error wrapping ErrNonFinite if t contains NaN or Inf
// values. Occurrences are counted in the numerical instability metric under name.
func CheckFinite[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) error {
	nans, infs := metrics.CountNonFinite(name, t.Data())
	if nans+infs > 0 {
		return fmt.Errorf("%s: %w (%d NaN, %d Inf)", name, ErrNonFinite, nans, infs)
	}
	return nil
}
