package secrets

import (
	"fmt"
	"sort"
	"strconv"
)

// Well-known vault keys.
const (
	KeyGrafanaUser     = "grafana_admin_user"
	KeyGrafanaPassword = "grafana_admin_password"
	KeyJellyfinAPIKey  = "jellyfin_api_key"
	KeyPlexToken       = "plex_token"
	KeyTailscaleUsers  = "tailscale_users"
	KeyDataDirectory   = "nexus_data_directory"
	KeyDomain          = "nexus_domain"
)

// Secrets is the flat key/value view of the vault.
type Secrets map[string]any

// String returns the value of key as a string. Missing keys, nulls and empty
// values all report ok=false.
func (s Secrets) String(key string) (string, bool) {
	v, present := s[key]
	if !present || v == nil {
		return "", false
	}

	var out string
	switch t := v.(type) {
	case string:
		out = t
	case float64:
		out = strconv.FormatFloat(t, 'f', -1, 64)
	case int, int64, bool:
		out = fmt.Sprint(t)
	default:
		return "", false
	}
	return out, out != ""
}

// Groups decodes a mapping of group name to member list, used for
// tailscale_users. Members that are not strings are dropped and every list
// is sorted.
func (s Secrets) Groups(key string) map[string][]string {
	// Nested mappings decoded into Secrets keep the Secrets type.
	var raw map[string]any
	switch v := s[key].(type) {
	case Secrets:
		raw = v
	case map[string]any:
		raw = v
	default:
		return map[string][]string{}
	}

	out := make(map[string][]string, len(raw))
	for group, v := range raw {
		list, _ := v.([]any)
		members := make([]string, 0, len(list))
		for _, item := range list {
			if m, ok := item.(string); ok && m != "" {
				members = append(members, m)
			}
		}
		sort.Strings(members)
		out[group] = members
	}
	return out
}
