package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/nexus/internal/config"
	"github.com/MrSnakeDoc/nexus/internal/httpserver"
	"github.com/MrSnakeDoc/nexus/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nexus/internal/index"
	"github.com/MrSnakeDoc/nexus/internal/logger"
	"github.com/MrSnakeDoc/nexus/internal/redis"
	"github.com/MrSnakeDoc/nexus/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/nexus/internal/store/redis"
	"github.com/MrSnakeDoc/nexus/internal/tailscale"
	"github.com/MrSnakeDoc/nexus/internal/version"
)

// Gate is the long-running ForwardAuth service.
type Gate struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	reloader    *scheduler.RulesReloader
}

// NewGate wires the gate. Redis is optional: when NEXUS_REDIS_ADDR is set
// and unreachable the gate starts without an identity cache.
func NewGate(cfg *config.Config, loggerClient logger.Logger) (*Gate, error) {
	if err := cfg.ValidateGate(); err != nil {
		return nil, err
	}

	var resolver tailscale.Resolver
	mode := "tailscale"
	if cfg.DevMode {
		loggerClient.Warn("dev mode enabled, every tailnet caller is the dev user")
		resolver = tailscale.DevResolver{}
		mode = "dev"
	} else {
		resolver = tailscale.NewLocalClient(cfg.TailscaleSocket, cfg.RequestTimeout)
	}

	var redisClient *goredis.Client
	var store *redisstore.Store
	if cfg.RedisAddr != "" {
		client, err := redis.Connect(context.Background(), redis.OptionsFromConfig(cfg), loggerClient)
		if err != nil {
			loggerClient.Warn("identity cache disabled", logger.Error(err))
		} else {
			redisClient = client
			store = redisstore.NewStore(client)
			if cfg.WhoisTTL > 0 {
				resolver = tailscale.NewCachedResolver(resolver, store, cfg.WhoisTTL, loggerClient)
			}
		}
	}

	rules := index.NewRulesIndex()
	reloadTrigger := make(chan struct{}, 1)
	reloader := scheduler.NewRulesReloader(
		cfg.AccessRulesFile,
		rules,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TrustedCIDRS:    cfg.TrustedCIDRS,
		AdminCIDRS:      cfg.AdminCIDRS,
		TrustProxy:      cfg.TrustProxy,
		RulesFile:       cfg.AccessRulesFile,
		Rules:           rules,
		Identity:        resolver,
		IdentityMode:    mode,
		Store:           store,
		WhoisTimeout:    cfg.RequestTimeout,
		HeaderPrefix:    cfg.AuthHeaderPrefix,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
		ReloadTrigger:   reloadTrigger,
	}

	return &Gate{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		redisClient: redisClient,
		reloader:    reloader,
	}, nil
}

// Run serves until SIGINT/SIGTERM, then shuts down gracefully.
func (g *Gate) Run() error {
	g.logger.Infof("🚀 Starting nexus gate v%s on %s", version.Version, g.cfg.ListenPort)
	g.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := g.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start rules reloader: %w", err)
	}
	g.logger.Info("rules reloader started",
		logger.String("file", g.cfg.AccessRulesFile),
		logger.Duration("interval", g.cfg.ReloadInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := g.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		g.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		g.reloader.Stop()
		return err
	}

	g.reloader.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), g.cfg.ShutdownTimeout)
	defer cancel()
	if err := g.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if g.redisClient != nil {
		if err := g.redisClient.Close(); err != nil {
			g.logger.Warnf("failed to close redis: %v", err)
		} else {
			g.logger.Info("✅ Redis closed cleanly")
		}
	}

	g.logger.Info("✅ nexus gate stopped cleanly")
	return nil
}
