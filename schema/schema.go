// Package schema describes binary layouts declaratively and compiles them to
// bincodec codecs over dynamically typed values.
//
// A schema file is TOML:
//
//	name = "transfer"
//
//	[[fields]]
//	name = "amount"
//	type = "u64"
//
//	[[fields]]
//	name = "memo"
//	type = "option<string>"
//
// Field types are type expressions; see Compiler.Compile for the grammar.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	ErrUnknownType    = errors.New("schema: unknown type")
	ErrSyntax         = errors.New("schema: syntax error")
	ErrInvalidSchema  = errors.New("schema: invalid schema")
	ErrDuplicateField = errors.New("schema: duplicate field")
)

// File is a named record layout.
type File struct {
	Name   string      `toml:"name"`
	Fields []FieldSpec `toml:"fields"`
}

// FieldSpec is one record member in wire order.
type FieldSpec struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
}

// Load reads and validates a schema file.
func Load(path string) (File, error) {
	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return File{}, fmt.Errorf("load schema %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		Logger().Sugar().Warnf("schema %s: ignoring unknown keys %v", path, undecoded)
	}
	if err := f.Validate(); err != nil {
		return File{}, fmt.Errorf("load schema %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a schema from TOML text.
func Parse(data string) (File, error) {
	var f File
	if _, err := toml.Decode(data, &f); err != nil {
		return File{}, fmt.Errorf("parse schema: %w", err)
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate checks that every field has a name and a type and that names are
// unique. It does not compile the types.
func (f File) Validate() error {
	if len(f.Fields) == 0 {
		return fmt.Errorf("%w: no fields", ErrInvalidSchema)
	}
	seen := make(map[string]struct{}, len(f.Fields))
	for i, field := range f.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("%w: field %d has no name", ErrInvalidSchema, i)
		}
		if strings.TrimSpace(field.Type) == "" {
			return fmt.Errorf("%w: field %q has no type", ErrInvalidSchema, name)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateField, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
