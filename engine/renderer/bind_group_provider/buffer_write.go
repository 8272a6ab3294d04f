package bind_group_provider

// BufferWrite describes a single uniform buffer upload targeting a binding on a BindGroupProvider.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// PaddedData returns Data extended with zero bytes to a multiple of four, as queue writes require.
//
// Returns:
//   - []byte: the padded data, Data itself when already aligned
func (w BufferWrite) PaddedData() []byte {
	return PadToFour(w.Data)
}

// PadToFour extends data with zero bytes so its length is a multiple of four.
//
// Parameters:
//   - data: the bytes to pad
//
// Returns:
//   - []byte: data unchanged when aligned, otherwise a padded copy
func PadToFour(data []byte) []byte {
	rem := len(data) % 4
	if rem == 0 {
		return data
	}
	out := make([]byte, len(data)+4-rem)
	copy(out, data)
	return out
}
