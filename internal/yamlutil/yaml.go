// Package yamlutil reads and writes the YAML files the editorjs tooling
// accepts: editor configs, entity fixtures and documents authored as YAML.
package yamlutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// DefaultMaxSize is the input limit used when MaxSize is not given.
const DefaultMaxSize = 1 << 20

var (
	ErrEmpty     = errors.New("yamlutil: empty input")
	ErrNilTarget = errors.New("yamlutil: nil decode target")
	ErrTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

type options struct {
	strict  bool
	maxSize int
}

// Option configures decoding.
type Option func(*options)

// Strict rejects keys that do not map to a field of the target.
func Strict() Option {
	return func(o *options) { o.strict = true }
}

// MaxSize overrides DefaultMaxSize. Non-positive values are ignored.
func MaxSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSize = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{maxSize: DefaultMaxSize}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func checkSize(data []byte, max int) error {
	if len(data) == 0 {
		return ErrEmpty
	}
	if len(data) > max {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(data), max)
	}
	return nil
}

// Decode parses data into v.
func Decode(data []byte, v any, opts ...Option) error {
	o := buildOptions(opts)
	if err := checkSize(data, o.maxSize); err != nil {
		return err
	}
	if v == nil {
		return ErrNilTarget
	}
	var decodeOpts []yaml.DecodeOption
	if o.strict {
		decodeOpts = append(decodeOpts, yaml.Strict())
	}
	if err := yaml.UnmarshalWithOptions(data, v, decodeOpts...); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalStrict is Decode with Strict.
func UnmarshalStrict(data []byte, v any) error {
	return Decode(data, v, Strict())
}

// Marshal encodes v as YAML.
func Marshal(v any) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}

// ToJSON converts a YAML document to JSON so it can go through the JSON
// document decoder.
func ToJSON(data []byte, opts ...Option) ([]byte, error) {
	o := buildOptions(opts)
	if err := checkSize(data, o.maxSize); err != nil {
		return nil, err
	}
	out, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}

// IsYAML reports whether path has a .yaml or .yml extension.
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
