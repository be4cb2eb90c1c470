// Package reference loads the process-wide list of reference codes that are
// embedded into every generated payload. The list is loaded once at startup
// and handed to the generator explicitly.
package reference

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"barcode-batcher/internal/models"
)

//go:embed codes.txt
var defaultCodes []byte

// Default returns the embedded reference list
func Default() []string {
	codes, err := parseLines(bytes.NewReader(defaultCodes))
	if err != nil {
		panic(fmt.Sprintf("reference: embedded list is unreadable: %v", err))
	}
	return codes
}

// Load returns the embedded list for an empty path, otherwise the codes in path
func Load(path string) ([]string, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reference: read %s: %w", path, err)
	}

	var codes []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		codes, err = parseYAML(data)
	case ".csv":
		codes, err = parseCSV(bytes.NewReader(data))
	default:
		codes, err = parseLines(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("reference: parse %s: %w", path, err)
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("reference: %s: %w", path, models.ErrEmptyReferenceList)
	}
	return codes, nil
}

// parseLines reads one code per line; blank lines and # comments are skipped
func parseLines(r io.Reader) ([]string, error) {
	var codes []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		codes = append(codes, line)
	}
	return codes, scanner.Err()
}

// parseCSV takes the first column of every record
func parseCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var codes []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) == 0 {
			continue
		}
		if code := strings.TrimSpace(record[0]); code != "" {
			codes = append(codes, code)
		}
	}
	return codes, nil
}

type yamlDocument struct {
	Codes []string `yaml:"codes"`
}

// parseYAML accepts either a bare sequence or a mapping with a codes key
func parseYAML(data []byte) ([]string, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	var raw []string
	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&raw); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var doc yamlDocument
		if err := root.Decode(&doc); err != nil {
			return nil, err
		}
		raw = doc.Codes
	default:
		return nil, fmt.Errorf("expected a list of codes")
	}

	codes := make([]string, 0, len(raw))
	for _, c := range raw {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	return codes, nil
}
