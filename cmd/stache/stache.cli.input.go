package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to stdout or atomically replaces a file
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}

	return atomic.WriteFile(path, bytes.NewReader(data))
}

// loadData decodes the render data. A data file wins over an inline JSON
// string; with neither the data is empty.
func loadData(jsonStr, filePath string) (map[string]any, error) {
	result := make(map[string]any)

	if filePath != "" {
		raw, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(filepath.Ext(filePath)) {
		case DataExtYAML, DataExtYML:
			if err := yaml.Unmarshal(raw, &result); err != nil {
				return nil, err
			}
		default:
			if err := json.Unmarshal(raw, &result); err != nil {
				return nil, err
			}
		}
		return result, nil
	}

	if jsonStr != "" {
		if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
			return nil, err
		}
	}
	return result, nil
}
