package index

import (
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/nexus/internal/generate"
)

func testRules(def string) *generate.AccessRules {
	return &generate.AccessRules{
		Groups: map[string][]string{
			"admins": {"alice@example.com"},
			"family": {"alice@example.com", "bob@example.com"},
		},
		Default: def,
		Services: map[string]generate.AccessRule{
			"grafana":  {Groups: []string{"admins"}},
			"jellyfin": {Groups: []string{"family", "admins"}},
			"locked":   {Groups: []string{}},
		},
	}
}

func TestRulesIndex_Decide(t *testing.T) {
	tests := []struct {
		name        string
		def         string
		host        string
		email       string
		wantAllowed bool
		wantReason  string
	}{
		{"admin on admin service", generate.PolicyDeny, "grafana.example.com", "alice@example.com", true, ""},
		{"family denied admin service", generate.PolicyDeny, "grafana.example.com", "bob@example.com", false, "Access Denied"},
		{"family on shared service", generate.PolicyDeny, "jellyfin.example.com", "bob@example.com", true, ""},
		{"stranger", generate.PolicyDeny, "jellyfin.example.com", "eve@example.com", false, "Access Denied"},
		{"unconfigured with deny", generate.PolicyDeny, "wiki.example.com", "alice@example.com", false, "Service 'wiki' not configured"},
		{"unconfigured with allow", generate.PolicyAllow, "wiki.example.com", "eve@example.com", true, ""},
		{"rule with no groups", generate.PolicyAllow, "locked.example.com", "alice@example.com", false, "Access Denied"},
		{"missing host", generate.PolicyDeny, "", "alice@example.com", false, "Service 'unknown' not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := NewRulesIndex()
			idx.Update(testRules(tt.def))

			got := idx.Decide(tt.host, tt.email)
			if got.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", got.Allowed, tt.wantAllowed)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestRulesIndex_NotLoaded(t *testing.T) {
	idx := NewRulesIndex()

	if idx.Loaded() {
		t.Fatal("new index should not be loaded")
	}
	if idx.Count() != 0 {
		t.Errorf("Count = %d, want 0", idx.Count())
	}
	if !idx.GetLastReload().IsZero() {
		t.Error("last reload should be zero")
	}
	if d := idx.Decide("grafana.example.com", "alice@example.com"); d.Allowed {
		t.Error("expected deny without rules")
	}
}

func TestRulesIndex_UserGroups(t *testing.T) {
	idx := NewRulesIndex()
	idx.Update(testRules(generate.PolicyDeny))

	got := idx.UserGroups("alice@example.com")
	if len(got) != 2 || got[0] != "admins" || got[1] != "family" {
		t.Errorf("UserGroups = %v, want [admins family]", got)
	}
	if got := idx.UserGroups("nobody@example.com"); len(got) != 0 {
		t.Errorf("UserGroups for stranger = %v, want empty", got)
	}

	d := idx.Decide("grafana.example.com", "bob@example.com")
	if len(d.Required) != 1 || d.Required[0] != "admins" {
		t.Errorf("Required = %v, want [admins]", d.Required)
	}
}

func TestRulesIndex_UpdateReplaces(t *testing.T) {
	idx := NewRulesIndex()
	idx.Update(testRules(generate.PolicyDeny))
	first := idx.GetLastReload()

	time.Sleep(2 * time.Millisecond)
	idx.Update(&generate.AccessRules{Default: generate.PolicyDeny})

	if idx.Count() != 0 {
		t.Errorf("Count = %d, want 0 after replace", idx.Count())
	}
	if len(idx.UserGroups("alice@example.com")) != 0 {
		t.Error("old memberships should be dropped")
	}
	if !idx.GetLastReload().After(first) {
		t.Error("last reload should advance")
	}
}

func TestRulesIndex_Concurrent(t *testing.T) {
	idx := NewRulesIndex()
	idx.Update(testRules(generate.PolicyDeny))

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%5 == 0 {
				idx.Update(testRules(generate.PolicyDeny))
				return
			}
			_ = idx.Decide("jellyfin.example.com", "bob@example.com")
		}()
	}
	wg.Wait()

	if !idx.Decide("jellyfin.example.com", "bob@example.com").Allowed {
		t.Error("expected allow after concurrent updates")
	}
}

func TestServiceFromHost(t *testing.T) {
	tests := map[string]string{
		"grafana.example.com": "grafana",
		"grafana":             "grafana",
		"  ":                  UnknownService,
		"":                    UnknownService,
	}
	for in, want := range tests {
		if got := ServiceFromHost(in); got != want {
			t.Errorf("ServiceFromHost(%q) = %q, want %q", in, got, want)
		}
	}
}
