package widget

import (
	"maps"

	"github.com/MrSnakeDoc/nexus/internal/secrets"
)

const (
	TypeGrafana    = "grafana"
	TypeJellyfin   = "jellyfin"
	TypePlex       = "plex"
	TypeTraefik    = "traefik"
	TypePrometheus = "prometheus"

	defaultGrafanaUser = "admin"
)

// credential describes the secret a widget type cannot render without.
type credential struct {
	secret string // vault key
	field  string // widget field receiving the value
}

var required = map[string]credential{
	TypeGrafana:  {secret: secrets.KeyGrafanaPassword, field: "password"},
	TypeJellyfin: {secret: secrets.KeyJellyfinAPIKey, field: "key"},
	TypePlex:     {secret: secrets.KeyPlexToken, field: "key"},
}

// Type returns the widget "type" field, empty when absent.
func Type(base map[string]any) string {
	t, _ := base["type"].(string)
	return t
}

// RequiresSecret reports whether a widget type needs a credential.
func RequiresSecret(widgetType string) bool {
	_, ok := required[widgetType]
	return ok
}

// InjectSecrets returns the widget to publish for base, with credentials
// filled from s. ok is false when the widget must be omitted: the template is
// empty, or its type needs a credential that s lacks. A widget is never
// returned with a blank credential. base is not modified.
func InjectSecrets(base map[string]any, s secrets.Secrets) (map[string]any, bool) {
	if len(base) == 0 {
		return nil, false
	}

	widgetType := Type(base)
	cred, needsSecret := required[widgetType]
	if !needsSecret {
		return maps.Clone(base), true
	}

	value, ok := s.String(cred.secret)
	if !ok {
		return nil, false
	}

	out := maps.Clone(base)
	out[cred.field] = value

	if widgetType == TypeGrafana {
		if u, _ := out["username"].(string); u == "" {
			user, ok := s.String(secrets.KeyGrafanaUser)
			if !ok {
				user = defaultGrafanaUser
			}
			out["username"] = user
		}
	}
	return out, true
}
