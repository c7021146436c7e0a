package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount is a JSON scalar that may arrive as a number or a numeric string.
// Anything else decodes to an invalid Amount instead of an error.
type Amount struct {
	Value float64
	Valid bool
}

// UnmarshalJSON never fails on shape mismatches.
func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = amountFromRaw(data)
	return nil
}

// Positive returns the value when it is a finite number greater than zero.
func (a Amount) Positive() (float64, bool) {
	if !a.Valid || math.IsNaN(a.Value) || math.IsInf(a.Value, 0) || a.Value <= 0 {
		return 0, false
	}
	return a.Value, true
}

// ParseAmount converts a decoded JSON value (float64, string, json.Number)
// into an Amount.
func ParseAmount(v any) Amount {
	switch t := v.(type) {
	case float64:
		return Amount{Value: t, Valid: true}
	case json.Number:
		f, err := t.Float64()
		return Amount{Value: f, Valid: err == nil}
	case string:
		return parseNumericString(t)
	default:
		return Amount{}
	}
}

func amountFromRaw(raw json.RawMessage) Amount {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Amount{}
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Amount{}
		}
		return parseNumericString(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		f, err := strconv.ParseFloat(string(raw), 64)
		return Amount{Value: f, Valid: err == nil}
	default:
		return Amount{}
	}
}

func parseNumericString(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Amount{}
	}
	return Amount{Value: f, Valid: true}
}

// object decodes raw into its fields, or nil when raw is not a JSON object.
func object(raw json.RawMessage) map[string]json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	return fields
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func flagField(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	return ok && bytes.Equal(bytes.TrimSpace(raw), []byte("true"))
}

func amountField(fields map[string]json.RawMessage, key string) Amount {
	raw, ok := fields[key]
	if !ok {
		return Amount{}
	}
	return amountFromRaw(raw)
}

// truthy reports whether raw holds a value other than null, false, 0 or "".
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 'n', 'f':
		return false
	case '"':
		return len(raw) > 2
	case '{', '[', 't':
		return true
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		return err == nil && f != 0
	}
}

// Truthy reports whether a decoded JSON value is present and non-empty.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	default:
		return true
	}
}
