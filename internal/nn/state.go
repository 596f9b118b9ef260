package nn

import (
	"fmt"

	bornnn "github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// NamedParameter pairs a parameter with its state dict key.
type NamedParameter[B tensor.Backend] struct {
	Name  string
	Param *bornnn.Parameter[B]
}

// WriteState adds every parameter to dict under its name.
func WriteState[B tensor.Backend](params []NamedParameter[B], dict map[string]*tensor.RawTensor) {
	for _, np := range params {
		dict[np.Name] = np.Param.Tensor().Raw()
	}
}

// LoadState copies tensors from dict into params. Every key, shape and dtype
// is checked before any data is copied, so on error no parameter has changed.
// Keys in dict that no parameter names are ignored.
func LoadState[B tensor.Backend](params []NamedParameter[B], dict map[string]*tensor.RawTensor) error {
	for _, np := range params {
		if err := checkState(np, dict); err != nil {
			return err
		}
	}
	for _, np := range params {
		copy(np.Param.Tensor().Data(), dict[np.Name].AsFloat32())
	}
	return nil
}

func checkState[B tensor.Backend](np NamedParameter[B], dict map[string]*tensor.RawTensor) error {
	raw, ok := dict[np.Name]
	if !ok {
		return fmt.Errorf("missing %s in state dict", np.Name)
	}
	expected := np.Param.Tensor().Shape()
	if !raw.Shape().Equal(expected) {
		return fmt.Errorf("%s shape mismatch: expected %v, got %v", np.Name, expected, raw.Shape())
	}
	if raw.DType() != tensor.Float32 {
		return fmt.Errorf("%s dtype mismatch: expected float32, got %v", np.Name, raw.DType())
	}
	return nil
}
