package resolver

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Preset is a named selection of services. It is written either as a plain
// list, or as a record extending a parent preset with extra services.
type Preset struct {
	Extends  string   `yaml:"extends"`
	Services []string `yaml:"services"`
}

// UnmarshalYAML accepts both preset encodings.
func (p *Preset) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*p = Preset{Services: list}
		return nil
	case yaml.MappingNode:
		type plain Preset
		var rec plain
		if err := node.Decode(&rec); err != nil {
			return err
		}
		*p = Preset(rec)
		return nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*p = Preset{}
			return nil
		}
	}
	return fmt.Errorf("line %d: preset must be a list or a mapping with extends/services", node.Line)
}

// Presets is the preset table keyed by preset name.
type Presets map[string]Preset

// PresetCycleError reports a preset chain that revisits itself. Path lists
// the chain in resolution order and ends with the repeated preset.
type PresetCycleError struct {
	Path []string
}

func (e *PresetCycleError) Error() string {
	return fmt.Sprintf("preset cycle detected: %s", strings.Join(e.Path, " -> "))
}

// LoadPresets reads the preset table. A missing file is returned as an error
// wrapping fs.ErrNotExist so callers can decide to treat it as empty.
func LoadPresets(path string) (Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}
	return ParsePresets(data)
}

// ParsePresets decodes a preset table.
func ParsePresets(data []byte) (Presets, error) {
	var table Presets
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse presets yaml: %w", err)
	}
	if table == nil {
		table = Presets{}
	}
	return table, nil
}

// Names returns the preset names sorted.
func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve expands name into a sorted, deduplicated list of service names.
//
// Members that are themselves preset names are expanded recursively, other
// members are taken literally. An unknown preset resolves to an empty result
// without error. A preset that reaches itself again through its own
// expansion returns a *PresetCycleError.
func (p Presets) Resolve(name string) ([]string, error) {
	if _, ok := p[name]; !ok {
		return []string{}, nil
	}

	seen := make(map[string]struct{})
	if err := p.expand(name, nil, seen); err != nil {
		return nil, err
	}
	return sortedKeys(seen), nil
}

// expand walks one preset. path holds the presets currently on the stack;
// revisiting one of them is a cycle, reaching a preset twice through
// separate branches is not.
func (p Presets) expand(name string, path []string, out map[string]struct{}) error {
	for _, onPath := range path {
		if onPath == name {
			cycle := append(append([]string{}, path...), name)
			return &PresetCycleError{Path: cycle}
		}
	}
	path = append(path, name)

	preset := p[name]
	// An unknown parent contributes nothing, like an unknown preset.
	if _, ok := p[preset.Extends]; ok {
		if err := p.expand(preset.Extends, path, out); err != nil {
			return err
		}
	}

	for _, member := range preset.Services {
		if _, ok := p[member]; ok {
			if err := p.expand(member, path, out); err != nil {
				return err
			}
			continue
		}
		out[member] = struct{}{}
	}
	return nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
