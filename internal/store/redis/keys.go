package redis

import (
	"fmt"
	"strings"
)

// KeyPrefixIdentity namespaces cached whois answers, one key per tailnet IP.
const KeyPrefixIdentity = "nexus:whois:"

func IdentityKey(ip string) string {
	return KeyPrefixIdentity + ip
}

// ExtractIP is the inverse of IdentityKey.
func ExtractIP(key string) (string, error) {
	ip, ok := strings.CutPrefix(key, KeyPrefixIdentity)
	if !ok || ip == "" {
		return "", fmt.Errorf("invalid identity key: %q", key)
	}
	return ip, nil
}
