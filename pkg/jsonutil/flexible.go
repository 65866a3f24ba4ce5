// Package jsonutil decodes loosely typed JSON coming from browser forms and agents.
package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrMissing is returned for absent, null or blank values.
	ErrMissing = errors.New("value is required")
	// ErrNotNumber is returned for values that cannot be read as a number.
	ErrNotNumber = errors.New("must be a number")
)

// FlexibleNumber converts a json.RawMessage to a float64, accepting numbers,
// numeric strings ("12", " 3.0 ") and booleans (true=1, false=0), since HTML
// inputs post numbers as strings and radio groups may post booleans.
func FlexibleNumber(raw json.RawMessage) (float64, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return 0, ErrMissing
	}

	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		return numVal, nil
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		strVal = strings.TrimSpace(strVal)
		if strVal == "" {
			return 0, ErrMissing
		}
		v, err := strconv.ParseFloat(strVal, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %q", ErrNotNumber, strVal)
		}
		return v, nil
	}

	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		if boolVal {
			return 1, nil
		}
		return 0, nil
	}

	return 0, ErrNotNumber
}
