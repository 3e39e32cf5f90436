package deps

import (
	"time"

	"github.com/MrSnakeDoc/nexus/internal/index"
	"github.com/MrSnakeDoc/nexus/internal/logger"
	redisstore "github.com/MrSnakeDoc/nexus/internal/store/redis"
	"github.com/MrSnakeDoc/nexus/internal/tailscale"
)

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Version         string
	Commit          string
	BuildDate       string
	GoVersion       string
	TrustedCIDRS    []string           // networks answered as the local admin without a whois
	AdminCIDRS      []string           // IPs allowed on readyz/infra/reload/metrics, empty = everyone
	TrustProxy      bool               // true if running behind a trusted reverse proxy (traefik)
	RulesFile       string             // Path to the access rules file
	Rules           *index.RulesIndex  // Enforced access rules
	Identity        tailscale.Resolver // whois lookups, cached or not
	IdentityMode    string             // "tailscale" | "dev", reported by /infra
	Store           *redisstore.Store  // Redis store, nil when the identity cache is disabled
	WhoisTimeout    time.Duration      // Timeout for one whois lookup
	HeaderPrefix    string             // Identity header prefix, ex: "Remote-"
	RateLimitBurst  int                // per-IP burst on /auth
	RateLimitPerMin int                // per-IP refill on /auth
	ReloadTrigger   chan struct{}      // Channel to trigger manual rules reload
}
