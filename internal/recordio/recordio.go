// Package recordio reads and writes record streams as JSON, YAML or CSV.
// Records are decoded as map[string]any.
package recordio

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format of a record stream.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	CSV  Format = "csv"
)

var ErrUnknownFormat = errors.New("unknown record format")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case JSON, YAML, CSV:
		return f, nil
	case "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatOf guesses the format from a file extension, defaulting to JSON.
func FormatOf(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return JSON
	}

	return f
}

// ReadFile reads records from path, or from stdin when path is "-".
func ReadFile(path string, f Format) ([]any, error) {
	if path == "-" || path == "" {
		return Read(os.Stdin, f)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records %s: %w", path, err)
	}
	defer file.Close()

	records, err := Read(bufio.NewReader(file), f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return records, nil
}

// Read decodes all records from r.
func Read(r io.Reader, f Format) ([]any, error) {
	switch f {
	case JSON:
		return readJSON(r)
	case YAML:
		return readYAML(r)
	case CSV:
		return readCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Write encodes records to w.
func Write(w io.Writer, f Format, records []any) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(nonNil(records))
	case YAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(nonNil(records)); err != nil {
			return err
		}

		return enc.Close()
	case CSV:
		return writeCSV(w, records)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// readJSON accepts a single array of objects or a stream of objects.
func readJSON(r io.Reader) ([]any, error) {
	br := bufio.NewReader(r)

	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return []any{}, nil
	}

	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(br)

	if first == '[' {
		var records []map[string]any
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("failed to decode JSON records: %w", err)
		}

		return toAny(records), nil
	}

	var out []any

	for {
		var rec map[string]any

		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to decode JSON record %d: %w", len(out), err)
		}

		out = append(out, rec)
	}

	return out, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}

		if !strings.ContainsRune(" \t\r\n", rune(b)) {
			return b, br.UnreadByte()
		}
	}
}

func readYAML(r io.Reader) ([]any, error) {
	var records []map[string]any

	if err := yaml.NewDecoder(r).Decode(&records); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML records: %w", err)
	}

	return toAny(records), nil
}

// readCSV uses the first row as field names. Cell values are inferred:
// integers, floats and booleans are decoded, everything else stays a string.
func readCSV(r io.Reader) ([]any, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []any{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var out []any

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(out)+1, err)
		}

		rec := make(map[string]any, len(header))
		for i, name := range header {
			rec[name] = inferCell(row[i])
		}

		out = append(out, rec)
	}

	return out, nil
}

func inferCell(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return int(i)
	}

	// NaN and Inf spellings stay text
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}

	switch {
	case strings.EqualFold(s, "true"):
		return true
	case strings.EqualFold(s, "false"):
		return false
	}

	return s
}

// writeCSV writes the union of the record keys, sorted, as header.
// Nested values are written as JSON.
func writeCSV(w io.Writer, records []any) error {
	keys := map[string]struct{}{}

	rows := make([]map[string]any, 0, len(records))

	for i, rec := range records {
		m, ok := rec.(map[string]any)
		if !ok {
			return fmt.Errorf("record %d: CSV output needs map[string]any, got %T", i, rec)
		}

		for k := range m {
			keys[k] = struct{}{}
		}

		rows = append(rows, m)
	}

	header := slices.Sorted(maps.Keys(keys))

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, m := range rows {
		row := make([]string, len(header))

		for i, k := range header {
			cell, err := formatCell(m[k])
			if err != nil {
				return fmt.Errorf("field %s: %w", k, err)
			}

			row[i] = cell
		}

		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

func formatCell(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case []any, map[string]any:
		data, err := json.Marshal(val)

		return string(data), err
	default:
		return fmt.Sprint(val), nil
	}
}

func toAny(records []map[string]any) []any {
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = r
	}

	return out
}

func nonNil(records []any) []any {
	if records == nil {
		return []any{}
	}

	return records
}
