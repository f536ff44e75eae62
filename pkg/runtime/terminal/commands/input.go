package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/de-tools/sales-report/pkg/models/api"
	"gopkg.in/yaml.v3"
)

// readInput loads a report request from a JSON or YAML file, or from stdin
// when path is "-". Both encodings are checked against the same schema.
func readInput(path string, stdin io.Reader) (*api.ReportRequest, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	if isYAML(path, data) {
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, err
		}
	}

	return api.DecodeReportRequest(data)
}

func isYAML(path string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	case ".json":
		return false
	}
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] != '{'
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", api.ErrMalformedRequest, err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", api.ErrMalformedRequest, err)
	}
	return out, nil
}

// toYAMLValue rewrites a decoded JSON tree so numbers are emitted as YAML
// numbers rather than quoted strings.
func toYAMLValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = toYAMLValue(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = toYAMLValue(val)
		}
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}
