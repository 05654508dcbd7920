package schema

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ValueKind tags the dynamic type of a Value.
type ValueKind int

// Value kinds. Null only appears in rows read back from an engine.
const (
	KindNull ValueKind = iota
	KindInteger
	KindFloat
	KindText
	KindBlob
)

var valueKindNames = map[ValueKind]string{
	KindNull:    "null",
	KindInteger: "integer",
	KindFloat:   "float",
	KindText:    "text",
	KindBlob:    "blob",
}

// String returns the lowercase kind name.
func (k ValueKind) String() string {
	return valueKindNames[k]
}

// Value is a single typed column value.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Text  string
	Blob  []byte
}

// NullValue returns SQL NULL.
func NullValue() Value { return Value{Kind: KindNull} }

// IntValue wraps an integer.
func IntValue(v int64) Value { return Value{Kind: KindInteger, Int: v} }

// FloatValue wraps a float.
func FloatValue(v float64) Value { return Value{Kind: KindFloat, Float: v} }

// TextValue wraps a string.
func TextValue(v string) Value { return Value{Kind: KindText, Text: v} }

// BlobValue wraps a byte slice.
func BlobValue(v []byte) Value { return Value{Kind: KindBlob, Blob: append([]byte(nil), v...)} }

// Clone returns a copy that shares no memory with v.
func (v Value) Clone() Value {
	if v.Kind == KindBlob {
		return BlobValue(v.Blob)
	}
	return v
}

// Equal reports whether two values are identical in kind and payload.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindInteger:
		return v.Int == o.Int
	case KindFloat:
		return v.Float == o.Float
	case KindText:
		return v.Text == o.Text
	case KindBlob:
		return bytes.Equal(v.Blob, o.Blob)
	default:
		return false
	}
}

// Compare orders two values with SQL comparison rules.
// ok is false when the values are not comparable (NULL operand or mixed kinds).
// Integers and floats compare numerically.
func (v Value) Compare(o Value) (cmp int, ok bool) {
	if v.Kind == KindNull || o.Kind == KindNull {
		return 0, false
	}
	if v.isNumeric() && o.isNumeric() {
		if v.Kind == KindInteger && o.Kind == KindInteger {
			return compareOrdered(v.Int, o.Int), true
		}
		return compareOrdered(v.asFloat(), o.asFloat()), true
	}
	if v.Kind != o.Kind {
		return 0, false
	}
	switch v.Kind {
	case KindText:
		return strings.Compare(v.Text, o.Text), true
	case KindBlob:
		return bytes.Compare(v.Blob, o.Blob), true
	}
	return 0, false
}

func (v Value) isNumeric() bool {
	return v.Kind == KindInteger || v.Kind == KindFloat
}

func (v Value) asFloat() float64 {
	if v.Kind == KindInteger {
		return float64(v.Int)
	}
	return v.Float
}

func compareOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// String renders the value for logs and assertion messages.
func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindText:
		return v.Text
	case KindBlob:
		return "x'" + hex.EncodeToString(v.Blob) + "'"
	default:
		return "NULL"
	}
}

// SQL renders the value as a SQL literal.
func (v Value) SQL() string {
	switch v.Kind {
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		s := strconv.FormatFloat(v.Float, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case KindText:
		return "'" + strings.ReplaceAll(v.Text, "'", "''") + "'"
	case KindBlob:
		return "X'" + hex.EncodeToString(v.Blob) + "'"
	default:
		return "NULL"
	}
}

type valueJSON struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON encodes the value with an explicit kind tag so that
// integers, floats and blobs round-trip without loss.
func (v Value) MarshalJSON() ([]byte, error) {
	var payload any
	switch v.Kind {
	case KindNull:
		return json.Marshal(valueJSON{Kind: KindNull.String()})
	case KindInteger:
		payload = strconv.FormatInt(v.Int, 10)
	case KindFloat:
		payload = v.Float
	case KindText:
		payload = v.Text
	case KindBlob:
		payload = hex.EncodeToString(v.Blob)
	default:
		return nil, errors.Errorf("unknown value kind %d", v.Kind)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(valueJSON{Kind: v.Kind.String(), Value: raw})
}

// UnmarshalJSON decodes a value written by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw valueJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case "null":
		*v = NullValue()
	case "integer":
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return errors.Wrap(err, "integer value")
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return errors.Wrap(err, "integer value")
		}
		*v = IntValue(n)
	case "float":
		var f float64
		if err := json.Unmarshal(raw.Value, &f); err != nil {
			return errors.Wrap(err, "float value")
		}
		*v = FloatValue(f)
	case "text":
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return errors.Wrap(err, "text value")
		}
		*v = TextValue(s)
	case "blob":
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return errors.Wrap(err, "blob value")
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return errors.Wrap(err, "blob value")
		}
		*v = Value{Kind: KindBlob, Blob: b}
	default:
		return errors.Errorf("unknown value kind %q", raw.Kind)
	}
	return nil
}
