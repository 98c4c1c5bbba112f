package dist

import "errors"

var (
	// ErrInvalidRange is returned when a sampling range has low > high or a
	// non-finite bound.
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidParameter is returned when a standard deviation is not
	// strictly positive, or a parameter is not finite.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNumericAnomaly is returned when a sample or z-score evaluates to NaN
	// or an infinity.
	ErrNumericAnomaly = errors.New("numeric anomaly")
)

// Kind returns a short, stable name for the error taxonomy member wrapped by
// err. It is used as a log attribute and metric label.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, ErrInvalidParameter):
		return "invalid_parameter"
	case errors.Is(err, ErrNumericAnomaly):
		return "numeric_anomaly"
	default:
		return "other"
	}
}
