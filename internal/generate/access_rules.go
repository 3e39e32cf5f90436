package generate

import (
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/nexus/internal/manifest"
)

const (
	PolicyAllow = "allow"
	PolicyDeny  = "deny"
)

// AccessRules is the document consumed by the access gate.
type AccessRules struct {
	Groups   map[string][]string   `yaml:"groups"`
	Default  string                `yaml:"default"`
	Services map[string]AccessRule `yaml:"services"`
}

// AccessRule lists the groups allowed on one subdomain or service name.
type AccessRule struct {
	Groups      []string `yaml:"groups"`
	Description string   `yaml:"description"`
}

// BuildAccessRules projects manifests into access rules.
//
// An empty services list selects every manifest; unknown names are ignored.
// Services without access groups are left to the default policy. Each
// subdomain gets a rule, and the service name gets one too when it has web
// access and no subdomain already claimed it. Manifests are visited by name
// so a subdomain shared by two services resolves the same way every run.
func BuildAccessRules(all map[string]*manifest.ServiceManifest, services []string, groups map[string][]string) *AccessRules {
	if groups == nil {
		groups = map[string][]string{}
	}
	rules := &AccessRules{
		Groups:   groups,
		Default:  PolicyDeny,
		Services: make(map[string]AccessRule),
	}

	selected := manifest.Names(all)
	if len(services) > 0 {
		selected = uniqueSorted(services)
	}

	for _, name := range selected {
		m, ok := all[name]
		if !ok || len(m.AccessGroups) == 0 {
			continue
		}

		rule := AccessRule{
			Groups:      slices.Clone(m.AccessGroups),
			Description: m.Description,
		}
		for _, sub := range m.Subdomains {
			rules.Services[sub] = rule
		}
		if _, taken := rules.Services[m.Name]; !taken && m.HasWebAccess() {
			rules.Services[m.Name] = rule
		}
	}
	return rules
}

// AccessRulesHeader is the comment block written above the rules.
func AccessRulesHeader(now time.Time) string {
	return fmt.Sprintf(`# Tailscale Access Rules
#
# This file defines:
# 1. Group memberships (must match Tailscale ACL policy)
# 2. Per-service access rules
#
# Used by the nexus access gate (ForwardAuth).
#
# AUTO-GENERATED FROM service.yml MANIFESTS - Edit manifests, not this file.
# Generated: %s

`, now.UTC().Format(time.RFC3339))
}

// LoadAccessRules reads a rules file back. A missing default is treated as deny.
func LoadAccessRules(path string) (*AccessRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read access rules: %w", err)
	}

	var rules AccessRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse access rules yaml: %w", err)
	}
	switch rules.Default {
	case "":
		rules.Default = PolicyDeny
	case PolicyAllow, PolicyDeny:
	default:
		return nil, fmt.Errorf("invalid default policy %q", rules.Default)
	}
	if rules.Groups == nil {
		rules.Groups = map[string][]string{}
	}
	if rules.Services == nil {
		rules.Services = map[string]AccessRule{}
	}
	return &rules, nil
}
