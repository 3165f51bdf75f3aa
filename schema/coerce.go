package schema

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/oy3o/bincodec"
)

// Values reach schema codecs from JSON, CBOR or MessagePack decoders, each
// with its own idea of what a number or a byte string is. The functions here
// accept every representation those decoders produce.

func typeMismatch(name, expected string, v any) error {
	return &bincodec.Error{
		Code: bincodec.CodeTypeMismatch,
		Params: bincodec.Params{
			"codecDescription": name,
			"expected":         expected,
			"actual":           fmt.Sprintf("%T", v),
		},
	}
}

func outOfRange(name string, v any) error {
	return &bincodec.Error{
		Code:   bincodec.CodeNumberOutOfRange,
		Params: bincodec.Params{"codecDescription": name, "value": v},
	}
}

// two64 is 2^64, the exclusive upper bound of uint64 as a float.
const two64 = float64(1 << 63 * 2)

func floatToUint(name string, f float64) (uint64, error) {
	if math.IsNaN(f) || f < 0 || f >= two64 || f != math.Trunc(f) {
		return 0, outOfRange(name, f)
	}
	return uint64(f), nil
}

func floatToInt(name string, f float64) (int64, error) {
	if math.IsNaN(f) || f < math.MinInt64 || f >= -math.MinInt64 || f != math.Trunc(f) {
		return 0, outOfRange(name, f)
	}
	return int64(f), nil
}

func toUint(name string, v any) (uint64, error) {
	if n, ok := v.(json.Number); ok {
		if u, err := strconv.ParseUint(string(n), 10, 64); err == nil {
			return u, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, typeMismatch(name, "unsigned integer", v)
		}
		return floatToUint(name, f)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() < 0 {
			return 0, outOfRange(name, v)
		}
		return uint64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return floatToUint(name, rv.Float())
	default:
		return 0, typeMismatch(name, "unsigned integer", v)
	}
}

func toInt(name string, v any) (int64, error) {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, typeMismatch(name, "integer", v)
		}
		return floatToInt(name, f)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if rv.Uint() > math.MaxInt64 {
			return 0, outOfRange(name, v)
		}
		return int64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return floatToInt(name, rv.Float())
	default:
		return 0, typeMismatch(name, "integer", v)
	}
}

func toFloat(name string, v any) (float64, error) {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		if err != nil {
			return 0, typeMismatch(name, "number", v)
		}
		return f, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	default:
		return 0, typeMismatch(name, "number", v)
	}
}

func toBool(name string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, typeMismatch(name, "bool", v)
	}
	return b, nil
}

func toString(name string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", typeMismatch(name, "string", v)
	}
	return s, nil
}

// toBytes accepts byte strings and, for JSON input, standard base64 text.
func toBytes(name string, v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		raw, err := base64.StdEncoding.DecodeString(b)
		if err != nil {
			return nil, &bincodec.Error{
				Code:   bincodec.CodeInvalidStringForBase,
				Params: bincodec.Params{"value": b, "base": "base64"},
				Cause:  err,
			}
		}
		return raw, nil
	default:
		return nil, typeMismatch(name, "bytes", v)
	}
}

// toList accepts any slice or array.
func toList(name string, v any) ([]any, error) {
	if l, ok := v.([]any); ok {
		return l, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, typeMismatch(name, "list", v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func toRecord(name string, v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, typeMismatch(name, "record", v)
	}
	return m, nil
}
