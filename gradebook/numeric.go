package gradebook

import (
	"strconv"
)

// isDecimal accepts digits with at most one decimal point. Signs, exponents
// and a lone "." are rejected.
func isDecimal(s string) bool {
	digits := 0
	dots := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// ParseMark converts a mark, max-mark or weight token to a float.
func ParseMark(field string, token string) (float64, error) {
	v, err := parseMark(field, token)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func parseMark(field string, token string) (float64, *Error) {
	if !isDecimal(token) {
		return 0, newError(KindNotANumber, field, "%s: %q is not a number", field, token).withToken(token)
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, newError(KindNotANumber, field, "%s: %q is not a number: %v", field, token, err).withToken(token)
	}
	return v, nil
}
