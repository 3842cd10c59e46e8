package schema

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/bobject/errors"
)

// Format names a schema file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json" // comments and trailing commas allowed
)

// FormatFor picks the format from a file extension, defaulting to YAML.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// Load reads and validates a schema map from a file. The time and
// duration records are injected.
func Load(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("reading "+path, err)
	}
	m, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Parse decodes and validates a schema map. The top level maps type names
// to records:
//
//	std_msgs/Header:
//	  fields:
//	    - {name: seq, type: uint32}
//	    - {name: stamp, type: time}
//	    - {name: frame_id, type: string}
func Parse(data []byte, format Format) (Map, error) {
	var m Map
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.UseNumber()
		if err := dec.Decode(&m); err != nil {
			return nil, errors.Load("parsing json schema", err)
		}
		normalizeValues(m)
	case FormatYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, errors.Load("parsing yaml schema", err)
		}
	default:
		return nil, errors.Unsupported(errors.PhaseLoad, "schema format "+string(format))
	}

	m = AddTimeTypes(m)
	if err := Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

// normalizeValues turns json.Number constants into int or float64 so the
// same schema reads identically from YAML and JSON.
func normalizeValues(m Map) {
	for name, rec := range m {
		for i, f := range rec.Fields {
			n, ok := f.Value.(json.Number)
			if !ok {
				continue
			}
			if v, err := n.Int64(); err == nil {
				rec.Fields[i].Value = int(v)
			} else if v, err := n.Float64(); err == nil {
				rec.Fields[i].Value = v
			}
		}
		m[name] = rec
	}
}
