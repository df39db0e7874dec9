package vm

import (
	"fmt"
	"math"
)

// SafeIntToUint32 converts an int offset into the code section to a uint32,
// erroring instead of silently wrapping on a negative value (PC positioned
// before PayloadStart) or on a value beyond uint32's range.
func SafeIntToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("cannot convert negative int %d to uint32", v)
	}
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("int value %d exceeds uint32 maximum", v)
	}
	return uint32(v), nil
}
