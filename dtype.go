package ndwrap

import "fmt"

// DType is the element type of an Array.
type DType int

const (
	Int64 DType = iota
	Float64
)

// Size returns the element size in bytes.
func (d DType) Size() int {
	return 8
}

func (d DType) String() string {
	switch d {
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("DType(%d)", int(d))
	}
}

// ParseDType maps a dtype name such as "int64" or "float64" to a DType.
func ParseDType(name string) (DType, error) {
	switch name {
	case "int64", "i8":
		return Int64, nil
	case "float64", "f8":
		return Float64, nil
	}
	return 0, invalidArg(ErrDTypeMismatch, "ParseDType", "unknown dtype %q", name)
}
