package ndwrap

import "strconv"

// Scalar is a dtype-tagged number returned by reductions. Integer inputs
// produce Int64 scalars, floating-point inputs Float64 scalars.
type Scalar struct {
	dtype DType
	i     int64
	f     float64
}

// IntScalar returns an Int64 scalar.
func IntScalar(v int64) Scalar {
	return Scalar{dtype: Int64, i: v}
}

// FloatScalar returns a Float64 scalar.
func FloatScalar(v float64) Scalar {
	return Scalar{dtype: Float64, f: v}
}

// DType reports whether the scalar holds an integer or a float.
func (s Scalar) DType() DType { return s.dtype }

// Int64 returns the value as an integer, truncating floats toward zero.
func (s Scalar) Int64() int64 {
	if s.dtype == Float64 {
		return int64(s.f)
	}
	return s.i
}

// Float64 returns the value as a float.
func (s Scalar) Float64() float64 {
	if s.dtype == Int64 {
		return float64(s.i)
	}
	return s.f
}

// Value returns the value as an int64 or float64 according to its dtype.
func (s Scalar) Value() interface{} {
	if s.dtype == Int64 {
		return s.i
	}
	return s.f
}

func (s Scalar) String() string {
	if s.dtype == Int64 {
		return strconv.FormatInt(s.i, 10)
	}
	return strconv.FormatFloat(s.f, 'g', -1, 64)
}
