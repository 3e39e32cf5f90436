package index

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/nexus/internal/generate"
)

// UnknownService is reported when a request carries no forwarded host.
const UnknownService = "unknown"

// Decision is the outcome of one access check.
type Decision struct {
	Allowed  bool
	Service  string
	Groups   []string // groups of the caller
	Required []string // groups accepted by the service rule, if any
	Reason   string   // set when denied
}

// RulesIndex holds the access rules currently enforced by the gate.
// Readers never block each other; a reload swaps the whole document.
type RulesIndex struct {
	mu         sync.RWMutex
	rules      *generate.AccessRules
	members    map[string][]string // email -> sorted groups
	lastReload time.Time
}

func NewRulesIndex() *RulesIndex {
	return &RulesIndex{members: map[string][]string{}}
}

// Update replaces the enforced rules.
func (idx *RulesIndex) Update(rules *generate.AccessRules) {
	members := make(map[string][]string)
	for group, emails := range rules.Groups {
		for _, email := range emails {
			members[email] = append(members[email], group)
		}
	}
	for email := range members {
		slices.Sort(members[email])
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.rules = rules
	idx.members = members
	idx.lastReload = time.Now()
}

// Loaded reports whether a rules document has been installed.
func (idx *RulesIndex) Loaded() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.rules != nil
}

// Count returns the number of service rules.
func (idx *RulesIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.rules == nil {
		return 0
	}
	return len(idx.rules.Services)
}

// GetLastReload returns the time of the last Update.
func (idx *RulesIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

// UserGroups returns the groups listing email, sorted.
func (idx *RulesIndex) UserGroups(email string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return slices.Clone(idx.members[email])
}

// Decide checks whether email may reach the service behind host. Without
// loaded rules every request falls under the deny default.
func (idx *RulesIndex) Decide(host, email string) Decision {
	service := ServiceFromHost(host)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	d := Decision{
		Service: service,
		Groups:  slices.Clone(idx.members[email]),
	}
	if d.Groups == nil {
		d.Groups = []string{}
	}

	if idx.rules == nil {
		d.Reason = fmt.Sprintf("Service '%s' not configured", service)
		return d
	}

	rule, ok := idx.rules.Services[service]
	if !ok {
		if idx.rules.Default == generate.PolicyAllow {
			d.Allowed = true
			return d
		}
		d.Reason = fmt.Sprintf("Service '%s' not configured", service)
		return d
	}

	d.Required = slices.Clone(rule.Groups)
	for _, g := range d.Groups {
		if slices.Contains(rule.Groups, g) {
			d.Allowed = true
			return d
		}
	}
	d.Reason = "Access Denied"
	return d
}

// ServiceFromHost returns the first DNS label of a forwarded host.
func ServiceFromHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return UnknownService
	}
	name, _, _ := strings.Cut(host, ".")
	return name
}
