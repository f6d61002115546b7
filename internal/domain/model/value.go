package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

type valueKind uint8

const (
	kindNull valueKind = iota
	kindNumber
	kindText
	kindBool
)

// Value is a nullable item column that holds whatever the client or the
// store put there: a number, text, or a boolean. The zero Value is null.
//
// Numbers keep their literal form, so "500.0" is written and echoed as sent.
// Objects and arrays are kept as their compact JSON text.
type Value struct {
	kind valueKind
	lit  string
}

// Number returns a numeric Value.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Text(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return Value{kind: kindNumber, lit: strconv.FormatFloat(f, 'f', -1, 64)}
}

// Text returns a text Value.
func Text(s string) Value { return Value{kind: kindText, lit: s} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: kindBool, lit: strconv.FormatBool(b)} }

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool { return v.kind == kindNull }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.kind == kindNumber }

// String returns the literal form of v, or "" when null.
func (v Value) String() string { return v.lit }

// Float64 parses v as a number. Numeric text such as a DECIMAL column
// converts too.
func (v Value) Float64() (float64, bool) {
	if v.kind != kindNumber && v.kind != kindText {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.lit, 64)
	return f, err == nil
}

// MarshalJSON writes null, the number literal, a quoted string or a boolean.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindNumber, kindBool:
		return []byte(v.lit), nil
	case kindText:
		return json.Marshal(v.lit)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts any JSON value.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = Value{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*v = Value{kind: kindBool, lit: string(data)}
	case data[0] == '{' || data[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*v = Text(buf.String())
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Value{kind: kindNumber, lit: n.String()}
	}
	return nil
}

// GormDataType keeps gorm from treating Value as a relation.
func (Value) GormDataType() string { return "string" }

// Value hands the column to the driver: integers as int64, other numbers as
// float64, text as string.
func (v Value) Value() (driver.Value, error) {
	switch v.kind {
	case kindNumber:
		if i, err := strconv.ParseInt(v.lit, 10, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(v.lit, 64); err == nil {
			return f, nil
		}
		return v.lit, nil
	case kindText:
		return v.lit, nil
	case kindBool:
		return v.lit == "true", nil
	default:
		return nil, nil
	}
}

// Scan reads whatever the column holds. Byte and string results, including
// DECIMAL columns, come back as text.
func (v *Value) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		*v = Value{}
	case int64:
		*v = Value{kind: kindNumber, lit: strconv.FormatInt(s, 10)}
	case float64:
		*v = Number(s)
	case float32:
		*v = Number(float64(s))
	case bool:
		*v = Bool(s)
	case []byte:
		*v = Text(string(s))
	case string:
		*v = Text(s)
	case time.Time:
		*v = Text(s.Format(time.RFC3339Nano))
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
	return nil
}
