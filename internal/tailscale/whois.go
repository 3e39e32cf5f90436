package tailscale

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"tailscale.com/client/local"
)

// ErrNoProfile is returned when tailscaled knows no user behind an address.
var ErrNoProfile = errors.New("no tailscale user profile")

// Dev identity served in development mode.
const (
	DevLoginName   = "dev@example.com"
	DevDisplayName = "Dev User"
)

// UserProfile is the identity of a tailnet peer.
type UserProfile struct {
	LoginName   string `json:"LoginName"`
	DisplayName string `json:"DisplayName"`
}

// Resolver identifies the tailnet user behind an IP address.
type Resolver interface {
	WhoIs(ctx context.Context, ip string) (*UserProfile, error)
}

// LocalClient asks tailscaled, over its local API socket, who is behind a
// tailnet address.
type LocalClient struct {
	lc      *local.Client
	timeout time.Duration
}

// NewLocalClient talks to the tailscaled socket at socketPath. timeout
// bounds every lookup.
func NewLocalClient(socketPath string, timeout time.Duration) *LocalClient {
	dialer := &net.Dialer{Timeout: timeout}
	return &LocalClient{
		lc: &local.Client{
			Socket:        socketPath,
			UseSocketOnly: true,
			Dial: func(ctx context.Context, _, _ string) (net.Conn, error) {
				return dialer.DialContext(ctx, "unix", socketPath)
			},
		},
		timeout: timeout,
	}
}

func (c *LocalClient) WhoIs(ctx context.Context, ip string) (*UserProfile, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	res, err := c.lc.WhoIs(ctx, ip)
	if err != nil {
		if errors.Is(err, local.ErrPeerNotFound) {
			return nil, ErrNoProfile
		}
		return nil, fmt.Errorf("tailscale whois failed: %w", err)
	}
	if res == nil || res.UserProfile == nil || res.UserProfile.LoginName == "" {
		return nil, ErrNoProfile
	}
	return &UserProfile{
		LoginName:   res.UserProfile.LoginName,
		DisplayName: res.UserProfile.DisplayName,
	}, nil
}

// DevResolver answers every lookup with the dev identity.
type DevResolver struct{}

func (DevResolver) WhoIs(context.Context, string) (*UserProfile, error) {
	return &UserProfile{LoginName: DevLoginName, DisplayName: DevDisplayName}, nil
}
