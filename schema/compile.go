package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	"github.com/oy3o/bincodec"
)

// Compiler turns type expressions into codecs over dynamic values. Compiled
// expressions are cached, so a Compiler should be shared; it is safe for
// concurrent use.
type Compiler struct {
	cache *xsync.Map[string, bincodec.Codec[any]]
}

// NewCompiler creates a Compiler with an empty cache.
func NewCompiler() *Compiler {
	return &Compiler{cache: xsync.NewMap[string, bincodec.Codec[any]]()}
}

// Cached returns the number of cached expressions.
func (c *Compiler) Cached() int { return c.cache.Size() }

// Compile returns the codec of a type expression.
//
//	type    = ["be:"] scalar | sized | generic
//	scalar  = "u8" | "i8" | "u16" | "i16" | "u32" | "i32" | "u64" | "i64"
//	        | "f32" | "f64" | "shortu16" | "bool"
//	sized   = ("string" | "bytes" | "hex" | "base58" | "base64") ["[" N "]"]
//	generic = "array<" type ["," N] ">" | "option<" type ">"
//	        | "tuple<" type {"," type} ">"
//
// Strings and byte strings without a size are u32 length-prefixed; with [N]
// they occupy exactly N bytes. "be:" selects big-endian numbers.
//
// Integer types decode to uint64 or int64, floats to float64, option<T> to nil
// or the value, arrays and tuples to []any.
func (c *Compiler) Compile(expr string) (bincodec.Codec[any], error) {
	key := strings.ToLower(strings.Join(strings.Fields(expr), ""))
	if codec, ok := c.cache.Load(key); ok {
		return codec, nil
	}

	p := &parser{src: key}
	codec, err := construct(func() (bincodec.Codec[any], error) {
		codec, err := p.parseType()
		if err == nil && p.pos != len(p.src) {
			err = p.errorf("unexpected %q", p.src[p.pos:])
		}
		return codec, err
	})
	if err != nil {
		Logger().Debug("compile failed", zap.String("expr", expr), zap.Error(err))
		return bincodec.Codec[any]{}, err
	}

	c.cache.Store(key, codec)
	Logger().Debug("compiled type", zap.String("expr", key), zap.String("size", codec.Size().String()))
	return codec, nil
}

// CompileFile compiles a schema into a codec over map[string]any records whose
// fields are encoded in file order.
func (c *Compiler) CompileFile(f File) (bincodec.Codec[any], error) {
	if err := f.Validate(); err != nil {
		return bincodec.Codec[any]{}, err
	}
	fields := make([]bincodec.RecordField, len(f.Fields))
	for i, spec := range f.Fields {
		codec, err := c.Compile(spec.Type)
		if err != nil {
			return bincodec.Codec[any]{}, fmt.Errorf("field %q: %w", spec.Name, err)
		}
		fields[i] = bincodec.RecordField{Name: strings.TrimSpace(spec.Name), Codec: codec}
	}
	record, err := construct(func() (bincodec.Codec[map[string]any], error) {
		return bincodec.RecordCodec(fields...), nil
	})
	if err != nil {
		return bincodec.Codec[any]{}, err
	}
	Logger().Debug("compiled schema",
		zap.String("name", f.Name),
		zap.Int("fields", len(fields)),
		zap.String("size", record.Size().String()))

	return bincodec.MapCodec(record,
		func(v any) (map[string]any, error) { return toRecord(record.Name(), v) },
		func(m map[string]any) (any, error) { return m, nil },
	), nil
}

// construct runs a codec builder and turns its construction panics, such as
// a layout whose size overflows an int, into ErrSyntax errors.
func construct[T any](build func() (bincodec.Codec[T], error)) (c bincodec.Codec[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*bincodec.Error)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("%w: %w", ErrSyntax, e)
		}
	}()
	return build()
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d in %q", ErrSyntax, fmt.Sprintf(format, args...), p.pos, p.src)
}

func (p *parser) peek(b byte) bool {
	return p.pos < len(p.src) && p.src[p.pos] == b
}

func (p *parser) expect(b byte) error {
	if !p.peek(b) {
		return p.errorf("expected %q", b)
	}
	p.pos++
	return nil
}

func (p *parser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') || ch == '_' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *parser) number() (int, error) {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if start == p.pos {
		return 0, p.errorf("expected a number")
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return 0, p.errorf("number %s is too large", p.src[start:p.pos])
	}
	return n, nil
}

// size parses an optional "[N]" suffix and returns -1 when absent.
func (p *parser) size() (int, error) {
	if !p.peek('[') {
		return -1, nil
	}
	p.pos++
	n, err := p.number()
	if err != nil {
		return 0, err
	}
	return n, p.expect(']')
}

func (p *parser) parseType() (bincodec.Codec[any], error) {
	start := p.pos
	name := p.ident()
	if name == "" {
		return bincodec.Codec[any]{}, p.errorf("expected a type name")
	}

	var opts []bincodec.NumberOption
	if p.peek(':') {
		if name != "be" {
			return bincodec.Codec[any]{}, p.errorf("unknown modifier %q", name)
		}
		p.pos++
		opts = append(opts, bincodec.WithEndian(bincodec.BE))
		name = p.ident()
		if _, ok := numberTypes[name]; !ok {
			return bincodec.Codec[any]{}, fmt.Errorf("%w: %q does not take a byte order", ErrUnknownType, name)
		}
	}

	if build, ok := numberTypes[name]; ok {
		return build(opts), nil
	}

	switch name {
	case "shortu16":
		return unsignedCodec(bincodec.ShortU16Codec[uint64]()), nil
	case "bool":
		return bincodec.MapCodec(bincodec.BoolCodec(),
			func(v any) (bool, error) { return toBool("bool", v) },
			func(b bool) (any, error) { return b, nil }), nil
	case "string", "hex", "base58", "base64":
		n, err := p.size()
		if err != nil {
			return bincodec.Codec[any]{}, err
		}
		return textCodec(textEncodings[name], n), nil
	case "bytes":
		n, err := p.size()
		if err != nil {
			return bincodec.Codec[any]{}, err
		}
		return bytesCodec(n), nil
	case "array":
		return p.parseArray()
	case "option":
		return p.parseOption()
	case "tuple":
		return p.parseTuple()
	default:
		p.pos = start
		return bincodec.Codec[any]{}, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
}

func (p *parser) parseArray() (bincodec.Codec[any], error) {
	if err := p.expect('<'); err != nil {
		return bincodec.Codec[any]{}, err
	}
	item, err := p.parseType()
	if err != nil {
		return bincodec.Codec[any]{}, err
	}
	var opts []bincodec.SizeOption
	if p.peek(',') {
		p.pos++
		n, err := p.number()
		if err != nil {
			return bincodec.Codec[any]{}, err
		}
		itemSize, ok := item.Size().Fixed()
		if !ok {
			return bincodec.Codec[any]{}, p.errorf("array of %d items needs a fixed-size item, %s is %s", n, item.Name(), item.Size())
		}
		if itemSize > 0 && n > math.MaxInt/itemSize {
			return bincodec.Codec[any]{}, p.errorf("array of %d %s items is too large", n, item.Name())
		}
		opts = append(opts, bincodec.WithFixedSize(n))
	}
	if err := p.expect('>'); err != nil {
		return bincodec.Codec[any]{}, err
	}
	arr := bincodec.ArrayCodec(item, opts...)
	return bincodec.MapCodec(arr,
		func(v any) ([]any, error) { return toList(arr.Name(), v) },
		func(l []any) (any, error) { return l, nil }), nil
}

func (p *parser) parseOption() (bincodec.Codec[any], error) {
	if err := p.expect('<'); err != nil {
		return bincodec.Codec[any]{}, err
	}
	item, err := p.parseType()
	if err != nil {
		return bincodec.Codec[any]{}, err
	}
	if err := p.expect('>'); err != nil {
		return bincodec.Codec[any]{}, err
	}
	return bincodec.MapCodec(bincodec.OptionCodec(item),
		func(v any) (bincodec.Option[any], error) {
			if v == nil {
				return bincodec.None[any](), nil
			}
			return bincodec.Some(v), nil
		},
		func(o bincodec.Option[any]) (any, error) {
			if !o.Valid {
				return nil, nil
			}
			return o.Value, nil
		}), nil
}

func (p *parser) parseTuple() (bincodec.Codec[any], error) {
	if err := p.expect('<'); err != nil {
		return bincodec.Codec[any]{}, err
	}
	var items []bincodec.Codec[any]
	for {
		item, err := p.parseType()
		if err != nil {
			return bincodec.Codec[any]{}, err
		}
		items = append(items, item)
		if !p.peek(',') {
			break
		}
		p.pos++
	}
	if err := p.expect('>'); err != nil {
		return bincodec.Codec[any]{}, err
	}
	tuple := bincodec.TupleCodec(items...)
	return bincodec.MapCodec(tuple,
		func(v any) ([]any, error) { return toList(tuple.Name(), v) },
		func(l []any) (any, error) { return l, nil }), nil
}

type numberBuilder func([]bincodec.NumberOption) bincodec.Codec[any]

func unsigned(factory func(...bincodec.NumberOption) bincodec.Codec[uint64]) numberBuilder {
	return func(opts []bincodec.NumberOption) bincodec.Codec[any] {
		return unsignedCodec(factory(opts...))
	}
}

func signed(factory func(...bincodec.NumberOption) bincodec.Codec[int64]) numberBuilder {
	return func(opts []bincodec.NumberOption) bincodec.Codec[any] {
		c := factory(opts...)
		return bincodec.MapCodec(c,
			func(v any) (int64, error) { return toInt(c.Name(), v) },
			func(n int64) (any, error) { return n, nil })
	}
}

func floating(factory func(...bincodec.NumberOption) bincodec.Codec[float64]) numberBuilder {
	return func(opts []bincodec.NumberOption) bincodec.Codec[any] {
		c := factory(opts...)
		return bincodec.MapCodec(c,
			func(v any) (float64, error) { return toFloat(c.Name(), v) },
			func(f float64) (any, error) { return f, nil })
	}
}

func unsignedCodec(c bincodec.Codec[uint64]) bincodec.Codec[any] {
	return bincodec.MapCodec(c,
		func(v any) (uint64, error) { return toUint(c.Name(), v) },
		func(n uint64) (any, error) { return n, nil })
}

var numberTypes = map[string]numberBuilder{
	"u8":  unsigned(bincodec.U8Codec[uint64]),
	"u16": unsigned(bincodec.U16Codec[uint64]),
	"u32": unsigned(bincodec.U32Codec[uint64]),
	"u64": unsigned(bincodec.U64Codec[uint64]),
	"i8":  signed(bincodec.I8Codec[int64]),
	"i16": signed(bincodec.I16Codec[int64]),
	"i32": signed(bincodec.I32Codec[int64]),
	"i64": signed(bincodec.I64Codec[int64]),
	"f32": floating(bincodec.F32Codec[float64]),
	"f64": floating(bincodec.F64Codec[float64]),
}

var textEncodings = map[string]bincodec.TextEncoding{
	"string": bincodec.UTF8,
	"hex":    bincodec.Base16,
	"base58": bincodec.Base58,
	"base64": bincodec.Base64,
}

func textCodec(enc bincodec.TextEncoding, n int) bincodec.Codec[any] {
	var opts []bincodec.SizeOption
	if n >= 0 {
		opts = append(opts, bincodec.WithFixedSize(n))
	}
	c := bincodec.TextCodec(enc, opts...)
	return bincodec.MapCodec(c,
		func(v any) (string, error) { return toString(c.Name(), v) },
		func(s string) (any, error) { return s, nil })
}

func bytesCodec(n int) bincodec.Codec[any] {
	var opts []bincodec.SizeOption
	if n >= 0 {
		opts = append(opts, bincodec.WithFixedSize(n))
	}
	c := bincodec.BytesCodec(opts...)
	return bincodec.MapCodec(c,
		func(v any) ([]byte, error) { return toBytes(c.Name(), v) },
		func(b []byte) (any, error) { return b, nil })
}
