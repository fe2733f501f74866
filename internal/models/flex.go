package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// FlexNumber handles market fields that arrive either as numbers or as
// formatted numeric strings ("$0.0042", "1,200,000", "N/A").
type FlexNumber struct {
	// Raw is the original string form when the field arrived as a string.
	Raw string
	// Value is the parsed numeric value, valid only when Set is true.
	Value float64
	Set   bool
}

// Float returns the parsed value and whether one is present.
func (f FlexNumber) Float() (float64, bool) {
	return f.Value, f.Set
}

// Present reports whether the field carried any usable value at all.
func (f FlexNumber) Present() bool {
	return f.Set || strings.TrimSpace(f.Raw) != ""
}

// String returns the original string form when there was one, otherwise a
// plain formatting of the numeric value.
func (f FlexNumber) String() string {
	if f.Raw != "" {
		return f.Raw
	}
	if f.Set {
		return strconv.FormatFloat(f.Value, 'f', -1, 64)
	}
	return ""
}

func (f *FlexNumber) setFromString(s string) {
	f.Raw = s
	if v, ok := parseNumeric(s); ok {
		f.Value = v
		f.Set = true
	}
}

// parseNumeric strips currency symbols and separators before parsing.
func parseNumeric(s string) (float64, bool) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// UnmarshalJSON accepts a JSON number, a numeric string, or null.
func (f *FlexNumber) UnmarshalJSON(data []byte) error {
	*f = FlexNumber{}

	if string(data) == "null" {
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		f.Value = num
		f.Set = true
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("flex number: unsupported JSON value %s", string(data))
	}
	f.setFromString(str)
	return nil
}

// MarshalJSON emits the numeric value when one was parsed, else the raw string.
func (f FlexNumber) MarshalJSON() ([]byte, error) {
	if f.Set {
		return json.Marshal(f.Value)
	}
	if f.Raw != "" {
		return json.Marshal(f.Raw)
	}
	return []byte("null"), nil
}

// UnmarshalBSONValue accepts doubles, ints, numeric strings, or null.
func (f *FlexNumber) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*f = FlexNumber{}
	rv := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.Double:
		f.Value = rv.Double()
		f.Set = true
	case bsontype.Int32:
		f.Value = float64(rv.Int32())
		f.Set = true
	case bsontype.Int64:
		f.Value = float64(rv.Int64())
		f.Set = true
	case bsontype.String:
		f.setFromString(rv.StringValue())
	case bsontype.Null, bsontype.Undefined:
		// leave zero value
	default:
		return fmt.Errorf("flex number: unsupported BSON type %s", t)
	}
	return nil
}

// MarshalBSONValue stores the parsed value as a double, preserving the raw
// string form for values that never parsed.
func (f FlexNumber) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if f.Set {
		return bson.MarshalValue(f.Value)
	}
	return bson.MarshalValue(f.Raw)
}
