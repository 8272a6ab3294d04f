package shader

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// Validate compiles WGSL to SPIR-V on the CPU, catching syntax and type errors
// before the source reaches the GPU driver.
//
// Parameters:
//   - source: WGSL source without @oxy: annotations
//
// Returns:
//   - []byte: the SPIR-V binary
//   - error: the compiler diagnostic, or an error if the output is not SPIR-V
func Validate(source string) ([]byte, error) {
	spirv, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}
	if len(spirv) < 4 || binary.LittleEndian.Uint32(spirv) != spirvMagic {
		return nil, fmt.Errorf("failed to compile shader: output is not a SPIR-V module")
	}
	return spirv, nil
}
