// Command bincodec encodes and decodes binary data described by a schema.
//
//	bincodec -schema transfer.toml -decode -in data.bin -format json
//	bincodec -schema transfer.toml -encode -in value.json -out data.bin
//	bincodec -type "array<u16>" -decode -hex -in - <<< "0200000001000200"
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oy3o/bincodec"
	"github.com/oy3o/bincodec/internal/render"
	"github.com/oy3o/bincodec/messages"
	"github.com/oy3o/bincodec/schema"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	schemaPath string
	typeExpr   string
	decode     bool
	encode     bool
	in         string
	out        string
	configPath string
	cfg        config
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("bincodec", flag.ContinueOnError)
	fs.SetOutput(stderr)

	def := defaultConfig()
	fs.StringVar(&o.schemaPath, "schema", "", "schema file (TOML)")
	fs.StringVar(&o.typeExpr, "type", "", "type expression, instead of -schema")
	fs.BoolVar(&o.decode, "decode", false, "decode binary input to -format")
	fs.BoolVar(&o.encode, "encode", false, "encode -format input to binary")
	fs.StringVar(&o.in, "in", "-", "input file, - for stdin")
	fs.StringVar(&o.out, "out", "-", "output file, - for stdout")
	fs.StringVar(&o.configPath, "config", "", "config file (TOML)")
	format := fs.String("format", def.Format, "value format: json, cbor or msgpack")
	logLevel := fs.String("log-level", def.LogLevel, "log level")
	strict := fs.Bool("strict", def.Strict, "reject trailing bytes when decoding")
	hexMode := fs.Bool("hex", def.Hex, "read and write binary data as hex text")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.decode == o.encode {
		return o, errors.New("exactly one of -decode and -encode is required")
	}
	if (o.schemaPath == "") == (o.typeExpr == "") {
		return o, errors.New("exactly one of -schema and -type is required")
	}

	o.cfg = def
	if o.configPath != "" {
		cfg, err := loadConfig(o.configPath, def)
		if err != nil {
			return o, err
		}
		o.cfg = cfg
	}

	// Flags given on the command line win over the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			o.cfg.Format = *format
		case "log-level":
			o.cfg.LogLevel = *logLevel
		case "strict":
			o.cfg.Strict = *strict
		case "hex":
			o.cfg.Hex = *hexMode
		}
	})
	return o, nil
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "bincodec: %v\n", err)
		return 2
	}

	logger, err := newLogger(o.cfg.LogLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "bincodec: %v\n", err)
		return 2
	}
	defer logger.Sync() //nolint:errcheck
	schema.SetLogger(logger.Named("schema"))

	if err := execute(o, logger, stdin, stdout); err != nil {
		fmt.Fprintf(stderr, "bincodec: %s\n", messages.Format(err))
		if isUsageError(err) {
			return 2
		}
		return 1
	}
	return 0
}

// isUsageError reports whether err stems from the arguments rather than the data.
func isUsageError(err error) bool {
	return errors.Is(err, schema.ErrSyntax) ||
		errors.Is(err, schema.ErrUnknownType) ||
		errors.Is(err, render.ErrUnknownFormat)
}

func execute(o options, logger *zap.Logger, stdin io.Reader, stdout io.Writer) error {
	format, err := render.ParseFormat(o.cfg.Format)
	if err != nil {
		return err
	}
	r, err := render.For(format)
	if err != nil {
		return err
	}

	codec, err := compile(o)
	if err != nil {
		return err
	}
	logger.Debug("codec ready", zap.String("codec", codec.Name()), zap.Stringer("size", codec.Size()))

	input, err := readInput(o.in, stdin)
	if err != nil {
		return err
	}

	var output []byte
	if o.decode {
		if o.cfg.Hex {
			if input, err = hex.DecodeString(strings.TrimSpace(string(input))); err != nil {
				return fmt.Errorf("decode hex input: %w", err)
			}
		}
		var v any
		if o.cfg.Strict {
			v, err = codec.DecodeExact(input)
		} else {
			var end int
			v, end, err = codec.Read(input, 0)
			if err == nil && end < len(input) {
				logger.Warn("ignoring trailing bytes", zap.Int("consumed", end), zap.Int("length", len(input)))
			}
		}
		if err != nil {
			return err
		}
		if output, err = r.Marshal(v); err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
	} else {
		v, err := r.Unmarshal(input)
		if err != nil {
			return fmt.Errorf("parse %s input: %w", format, err)
		}
		if output, err = codec.Encode(v); err != nil {
			return err
		}
		if o.cfg.Hex {
			output = []byte(hex.EncodeToString(output) + "\n")
		}
	}
	logger.Info("done", zap.Int("inputBytes", len(input)), zap.Int("outputBytes", len(output)))
	return writeOutput(o.out, stdout, output)
}

func compile(o options) (bincodec.Codec[any], error) {
	c := schema.NewCompiler()
	if o.typeExpr != "" {
		return c.Compile(o.typeExpr)
	}
	f, err := schema.Load(o.schemaPath)
	if err != nil {
		return bincodec.Codec[any]{}, err
	}
	return c.CompileFile(f)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
