package specfile

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedVersion = errors.New("unsupported specification version")
	ErrInvalidFile        = errors.New("invalid specification file")
)

// LoadFile loads and parses a YAML specification file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read specification file %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse specification YAML: %w", err)
	}

	applyDefaults(&f)

	if err := check(&f); err != nil {
		return nil, err
	}

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	if f.Accessor == "" {
		f.Accessor = AccessorKey
	}

	if f.Kind == "" {
		if len(f.Mapping) > 0 {
			f.Kind = KindMapping
		} else {
			f.Kind = KindAggregation
		}
	}
}

func check(f *File) error {
	if f.Version != "1" {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, f.Version)
	}

	switch f.Accessor {
	case AccessorKey, AccessorAttribute:
	default:
		return fmt.Errorf("%w: unknown accessor %q", ErrInvalidFile, f.Accessor)
	}

	switch f.Kind {
	case KindMapping:
		if len(f.GroupBy) > 0 || len(f.SortBy) > 0 || len(f.Mappings) > 0 || len(f.Aggregations) > 0 {
			return fmt.Errorf("%w: mapping files only declare mapping", ErrInvalidFile)
		}
	case KindAggregation:
		if len(f.Mapping) > 0 {
			return fmt.Errorf("%w: aggregation files declare mappings and aggregations, not mapping", ErrInvalidFile)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidFile, f.Kind)
	}

	return nil
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal specification: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // specification files are not secret
		return fmt.Errorf("failed to write specification file %s: %w", path, err)
	}

	return nil
}
