package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/nexus/internal/tailscale"
)

func TestIdentityKey(t *testing.T) {
	key := IdentityKey("100.64.0.1")
	if key != "nexus:whois:100.64.0.1" {
		t.Fatalf("IdentityKey = %q", key)
	}

	ip, err := ExtractIP(key)
	if err != nil || ip != "100.64.0.1" {
		t.Fatalf("ExtractIP(%q) = %q, %v", key, ip, err)
	}

	for _, bad := range []string{"", KeyPrefixIdentity, "nexus:rules:x"} {
		if _, err := ExtractIP(bad); err == nil {
			t.Errorf("ExtractIP(%q) should fail", bad)
		}
	}
}

// unreachableStore points at a port nothing listens on.
func unreachableStore(t *testing.T) *Store {
	t.Helper()
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client)
}

func TestStoreErrorsWhenUnreachable(t *testing.T) {
	s := unreachableStore(t)
	ctx := context.Background()

	if err := s.Ping(ctx); err == nil {
		t.Error("Ping should fail")
	}
	if _, _, err := s.GetIdentity(ctx, "100.64.0.1"); err == nil {
		t.Error("GetIdentity should fail")
	}
	if err := s.SetIdentity(ctx, "100.64.0.1", &tailscale.UserProfile{LoginName: "a@b"}, time.Minute); err == nil {
		t.Error("SetIdentity should fail")
	}
}

func TestSetIdentityZeroTTLIsNoop(t *testing.T) {
	s := unreachableStore(t)
	if err := s.SetIdentity(context.Background(), "100.64.0.1", &tailscale.UserProfile{LoginName: "a@b"}, 0); err != nil {
		t.Errorf("zero ttl should not touch redis: %v", err)
	}
}
