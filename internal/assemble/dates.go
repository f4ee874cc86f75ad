package assemble

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedDate marks a date value that was present but did not match any
// of the layouts the origin is known to use. Callers treat it as fatal for
// the record; it is never coerced into a best guess.
var ErrMalformedDate = errors.New("malformed date")

const isoDate = "2006-01-02"

// NormalizeDate parses raw against the given layouts in order and re-renders
// the first match as YYYY-MM-DD. A raw value that matches no layout is a
// malformed-value error — absent values must be handled by the caller before
// parsing, so raw here is always something the source actually supplied.
func NormalizeDate(raw string, layouts ...string) (string, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(isoDate), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrMalformedDate, raw)
}
