package compose

import (
	"errors"
	"regexp"
	"strings"
)

// ErrMalformedRule is returned when a rule contains a Host matcher that
// cannot be read.
var ErrMalformedRule = errors.New("malformed Host() matcher")

var (
	hostMatcher = regexp.MustCompile("Host\\(\\s*(?:`(?P<bt>[^`]+)`|\"(?P<dq>[^\"]+)\")\\s*[,)]")
	hostToken   = regexp.MustCompile(`(^|[^A-Za-z])Host\(`)
)

// ParseHostRule returns the first hostname of a Host(`...`) matcher.
//
// found is false when the rule has no Host matcher at all (for example a
// PathPrefix-only rule). A Host( token that is not a well formed quoted
// argument yields ErrMalformedRule instead of a guessed substring.
func ParseHostRule(rule string) (host string, found bool, err error) {
	if !hostToken.MatchString(rule) {
		return "", false, nil
	}

	m := hostMatcher.FindStringSubmatch(rule)
	if m == nil {
		return "", false, ErrMalformedRule
	}

	for _, name := range []string{"bt", "dq"} {
		if v := m[hostMatcher.SubexpIndex(name)]; v != "" {
			host = strings.TrimSpace(v)
			break
		}
	}
	if host == "" || strings.ContainsAny(host, " \t") {
		return "", false, ErrMalformedRule
	}
	return host, true, nil
}

// SubstituteDomain replaces the domain placeholders used in router rules.
func SubstituteDomain(host, domain string) string {
	return strings.NewReplacer(
		"${NEXUS_DOMAIN}", domain,
		"${DOMAIN}", domain,
	).Replace(host)
}
