// Package render converts dynamically typed values produced by schema codecs
// to and from self-describing formats for the command line.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

var ErrUnknownFormat = errors.New("render: unknown format")

// Format names a value representation.
type Format string

const (
	JSON    Format = "json"
	CBOR    Format = "cbor"
	MsgPack Format = "msgpack"
)

// ParseFormat resolves a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case JSON, CBOR, MsgPack:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (expected json, cbor or msgpack)", ErrUnknownFormat, s)
	}
}

// Renderer marshals dynamic values in one format.
type Renderer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte) (any, error)
}

// For returns the renderer of f.
func For(f Format) (Renderer, error) {
	switch f {
	case JSON:
		return jsonRenderer{}, nil
	case CBOR:
		return newCBOR()
	case MsgPack:
		return msgpackRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

type jsonRenderer struct{}

func (jsonRenderer) Marshal(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Unmarshal keeps numbers as json.Number so that 64-bit integers survive.
func (jsonRenderer) Unmarshal(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// cborRenderer uses Core Deterministic Encoding so that equal values always
// render to equal bytes.
type cborRenderer struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func newCBOR() (cborRenderer, error) {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return cborRenderer{}, err
	}
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		return cborRenderer{}, err
	}
	return cborRenderer{enc: em, dec: dm}, nil
}

func (c cborRenderer) Marshal(v any) ([]byte, error) {
	return c.enc.Marshal(v)
}

func (c cborRenderer) Unmarshal(data []byte) (any, error) {
	var v any
	err := c.dec.Unmarshal(data, &v)
	return v, err
}

type msgpackRenderer struct{}

func (msgpackRenderer) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (msgpackRenderer) Unmarshal(data []byte) (any, error) {
	var v any
	err := msgpack.Unmarshal(data, &v)
	return v, err
}
