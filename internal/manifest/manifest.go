package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the manifest file looked up in every service directory.
	FileName = "service.yml"

	DefaultCategory = "other"
	DefaultIcon     = "mdi-application"
)

var validate = validator.New()

// ServiceManifest is the typed form of one service.yml.
type ServiceManifest struct {
	Name         string
	Description  string
	Category     string
	Subdomains   []string
	AccessGroups []string
	IsPublic     bool
	Dependencies []string
	Icon         string
	DisplayName  string

	DashboardExclude bool
	Widget           map[string]any

	// SubServices maps a container name to its dashboard overrides, for
	// stacks exposing several UIs from one directory.
	SubServices map[string]SubService

	// Dir is the directory holding the manifest.
	Dir string
}

// SubService carries dashboard overrides for one container of a stack.
// Nil pointers mean "inherit from the parent manifest".
type SubService struct {
	Description *string        `yaml:"description"`
	Icon        *string        `yaml:"icon"`
	Exclude     bool           `yaml:"exclude"`
	Widget      map[string]any `yaml:"widget"`
}

// HasWebAccess reports whether the service is reachable over HTTP.
func (m *ServiceManifest) HasWebAccess() bool {
	return len(m.Subdomains) > 0 || m.IsPublic
}

type rawManifest struct {
	Name         string    `yaml:"name" validate:"required"`
	Description  string    `yaml:"description"`
	Category     string    `yaml:"category"`
	Subdomain    *string   `yaml:"subdomain"`
	Subdomains   *[]string `yaml:"subdomains"`
	Dependencies []string  `yaml:"dependencies" validate:"dive,required"`
	Icon         string    `yaml:"icon"`
	DisplayName  string    `yaml:"display_name"`

	Access struct {
		Groups []string `yaml:"groups" validate:"dive,required"`
		Public bool     `yaml:"public"`
	} `yaml:"access"`

	Dashboard struct {
		Exclude bool           `yaml:"exclude"`
		Widget  map[string]any `yaml:"widget"`
	} `yaml:"dashboard"`

	SubServices map[string]SubService `yaml:"sub_services"`
}

// Load reads and validates a single manifest. Every failure is a *ManifestError.
func Load(path string) (*ServiceManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ManifestError{Path: path, Err: fmt.Errorf("failed to read manifest: %w", err)}
	}

	m, err := Parse(data)
	if err != nil {
		return nil, &ManifestError{Path: path, Err: err}
	}
	m.Dir = filepath.Dir(path)
	return m, nil
}

// Parse decodes manifest bytes and applies defaults.
func Parse(data []byte) (*ServiceManifest, error) {
	var raw rawManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse manifest yaml: %w", err)
	}

	if err := validate.Struct(raw); err != nil {
		return nil, translateValidation(err)
	}

	m := &ServiceManifest{
		Name:             raw.Name,
		Description:      raw.Description,
		Category:         raw.Category,
		AccessGroups:     raw.Access.Groups,
		IsPublic:         raw.Access.Public,
		Dependencies:     raw.Dependencies,
		Icon:             raw.Icon,
		DisplayName:      raw.DisplayName,
		DashboardExclude: raw.Dashboard.Exclude,
		Widget:           raw.Dashboard.Widget,
		SubServices:      raw.SubServices,
	}

	// Plural wins whenever it is present, even if the singular is set too.
	switch {
	case raw.Subdomains != nil:
		m.Subdomains = *raw.Subdomains
	case raw.Subdomain != nil && *raw.Subdomain != "":
		m.Subdomains = []string{*raw.Subdomain}
	}

	if m.Category == "" {
		m.Category = DefaultCategory
	}
	if m.Icon == "" {
		m.Icon = DefaultIcon
	}
	if m.DisplayName == "" {
		m.DisplayName = m.Name
	}

	return m, nil
}

func translateValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate manifest: %w", err)
	}
	for _, fe := range verrs {
		if fe.StructField() == "Name" {
			return ErrMissingName
		}
	}
	fe := verrs[0]
	return fmt.Errorf("invalid field %s: failed %q check", fe.Namespace(), fe.Tag())
}
