package converter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/james-see/leadengrave/pkg/leadsheet"
)

// ParseYAMLFile reads a YAML leadsheet
func ParseYAMLFile(filename string) (*leadsheet.Sheet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML decodes and validates a YAML leadsheet
func ParseYAML(data []byte) (*leadsheet.Sheet, error) {
	var s leadsheet.Sheet
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// GenerateYAML encodes a leadsheet as YAML
func GenerateYAML(s *leadsheet.Sheet) ([]byte, error) {
	if s == nil {
		return nil, errNilSheet
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to write YAML: %w", err)
	}
	return data, nil
}
