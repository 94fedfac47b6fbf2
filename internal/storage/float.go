package storage

import (
	"bytes"
	"math"
	"strconv"
)

// Float is a float64 that keeps NaN and ±Inf through JSON. A run stopped
// by a blow-up reports non-finite energies, which plain encoding/json
// refuses; those are written as the strings "NaN", "+Inf" and "-Inf".
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (f *Float) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	text := string(data)
	if len(data) > 1 && data[0] == '"' {
		unq, err := strconv.Unquote(text)
		if err != nil {
			return err
		}
		text = unq
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Floats converts a metric map for storage.
func Floats(m map[string]float64) map[string]Float {
	if m == nil {
		return nil
	}
	out := make(map[string]Float, len(m))
	for k, v := range m {
		out[k] = Float(v)
	}
	return out
}
