package compose

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the orchestration file expected in every service directory.
const FileName = "docker-compose.yml"

// File is the subset of a compose file needed to find routes.
type File struct {
	Services map[string]Container `yaml:"services"`
}

// Container is one entry of the compose services mapping.
type Container struct {
	Image  string `yaml:"image"`
	Labels Labels `yaml:"labels"`
}

// Labels is the canonical label mapping. Compose allows both a list of
// "key=value" strings and a mapping; both decode into this type.
type Labels map[string]string

// UnmarshalYAML normalizes both label encodings.
func (l *Labels) UnmarshalYAML(node *yaml.Node) error {
	out := make(Labels, len(node.Content))

	switch node.Kind {
	case yaml.SequenceNode:
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: label list items must be strings", item.Line)
			}
			key, value, ok := strings.Cut(item.Value, "=")
			if !ok {
				continue
			}
			out[key] = value
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			if v.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: label %q must have a scalar value", v.Line, k.Value)
			}
			if v.Tag == "!!null" {
				out[k.Value] = ""
				continue
			}
			out[k.Value] = v.Value
		}
	case yaml.ScalarNode:
		if node.Tag != "!!null" {
			return fmt.Errorf("line %d: labels must be a list or a mapping", node.Line)
		}
	default:
		return fmt.Errorf("line %d: labels must be a list or a mapping", node.Line)
	}

	*l = out
	return nil
}

// Load reads and parses a compose file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compose file: %w", err)
	}
	return Parse(data)
}

// Parse decodes compose bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse compose yaml: %w", err)
	}
	return &f, nil
}
