package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// SerializeOptions configures the serializers.
type SerializeOptions struct {
	// Format is FormatJSON or FormatYAML (default: json).
	Format string
	// Indent is the number of spaces per indentation level (default: 2).
	// JSON output with an indent of 0 is compact.
	Indent int
}

// DefaultSerializeOptions returns sensible defaults.
func DefaultSerializeOptions() SerializeOptions {
	return SerializeOptions{
		Format: FormatJSON,
		Indent: 2,
	}
}

// WithFormat returns a copy of o rendering format.
func (o SerializeOptions) WithFormat(format string) SerializeOptions {
	o.Format = format
	return o
}

// Serialize renders v in the configured format. Ordered trees keep their
// key order; plain maps are rendered with sorted keys.
func Serialize(v interface{}, opts SerializeOptions) ([]byte, error) {
	switch strings.ToLower(opts.Format) {
	case "", FormatJSON:
		return SerializeJSON(v, opts.Indent)
	case FormatYAML, "yml":
		return SerializeYAML(v, opts.Indent)
	default:
		return nil, fmt.Errorf("unknown output format %q (available: %s, %s)", opts.Format, FormatJSON, FormatYAML)
	}
}

// SerializeJSON renders v as JSON. HTML characters are not escaped and the
// result always ends with a newline.
func SerializeJSON(v interface{}, indent int) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}

	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("serializing JSON: %w", err)
	}

	return buf.Bytes(), nil
}

// SerializeYAML renders v as a YAML document ending with a newline.
func SerializeYAML(v interface{}, indent int) ([]byte, error) {
	if indent <= 0 {
		indent = 2
	}

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)

	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("serializing YAML: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("serializing YAML: %w", err)
	}

	return buf.Bytes(), nil
}
