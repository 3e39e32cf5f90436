package main

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/nexus/internal/app"
	"github.com/MrSnakeDoc/nexus/internal/config"
	"github.com/MrSnakeDoc/nexus/internal/logger"
)

// --- Global Command Variables ---
var (
	verbose bool

	// generate
	genAll      bool
	genPreset   string
	genWithDeps bool
	genDryRun   bool
	genDomain   string
	genDataDir  string
	genOutput   string

	// health
	healthDomain   string
	healthDataDir  string
	healthCritical bool

	rootCmd = &cobra.Command{
		Use:   "nexus",
		Short: "Derive dashboard, access rules and health checks from service manifests",
		Long: `nexus reads the service.yml manifest of every service in the homelab
and derives the Homepage dashboard, the access gate rules and the
health probe list from them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// --- Generation ---
	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate configuration from the service manifests",
	}
	generateDashboardCmd = &cobra.Command{
		Use:   "dashboard [services...]",
		Short: "Generate the Homepage dashboard configuration",
		RunE:  runGenerateDashboard, // Defined in cmd_generate.go
	}
	generateAccessRulesCmd = &cobra.Command{
		Use:   "access-rules [services...]",
		Short: "Generate the access gate rules file",
		RunE:  runGenerateAccessRules, // Defined in cmd_generate.go
	}

	// --- Catalog ---
	servicesCmd = &cobra.Command{
		Use:   "services",
		Short: "Inspect discovered services",
	}
	servicesListCmd = &cobra.Command{
		Use:   "list",
		Short: "List services grouped by category",
		Args:  cobra.NoArgs,
		RunE:  runServicesList, // Defined in cmd_services.go
	}
	servicesDepsCmd = &cobra.Command{
		Use:   "deps <service>...",
		Short: "Show services with their transitive dependencies",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runServicesDeps, // Defined in cmd_services.go
	}

	presetsCmd = &cobra.Command{
		Use:   "presets",
		Short: "Inspect service presets",
	}
	presetsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List presets",
		Args:  cobra.NoArgs,
		RunE:  runPresetsList, // Defined in cmd_presets.go
	}
	presetsResolveCmd = &cobra.Command{
		Use:   "resolve <preset>",
		Short: "Show the services a preset expands to",
		Args:  cobra.ExactArgs(1),
		RunE:  runPresetsResolve, // Defined in cmd_presets.go
	}

	// --- Operations ---
	healthCmd = &cobra.Command{
		Use:   "health",
		Short: "Probe services, containers, certificates and disk",
		Args:  cobra.NoArgs,
		RunE:  runHealth, // Defined in cmd_health.go
	}
	gateCmd = &cobra.Command{
		Use:   "gate",
		Short: "Run the ForwardAuth access gate",
		Args:  cobra.NoArgs,
		RunE:  runGate, // Defined in cmd_gate.go
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run:   runVersion, // Defined in cmd_version.go
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(generateCmd)
	generateCmd.AddCommand(generateDashboardCmd)
	generateCmd.AddCommand(generateAccessRulesCmd)
	for _, c := range []*cobra.Command{generateDashboardCmd, generateAccessRulesCmd} {
		c.Flags().BoolVar(&genAll, "all", false, "Select every discovered service")
		c.Flags().StringVar(&genPreset, "preset", "", "Select the services of a preset")
		c.Flags().BoolVar(&genWithDeps, "with-deps", false, "Add transitive dependencies to the selection")
		c.Flags().BoolVar(&genDryRun, "dry-run", false, "Log what would be written without touching disk")
		c.MarkFlagsMutuallyExclusive("all", "preset")
	}
	generateDashboardCmd.Flags().StringVar(&genDomain, "domain", "", "Base domain (default: NEXUS_DOMAIN, then the vault)")
	generateDashboardCmd.Flags().StringVar(&genDataDir, "data-dir", "", "Data directory holding Config/homepage")
	generateAccessRulesCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Rules file (default: NEXUS_ACCESS_RULES_FILE)")

	rootCmd.AddCommand(servicesCmd)
	servicesCmd.AddCommand(servicesListCmd)
	servicesCmd.AddCommand(servicesDepsCmd)

	rootCmd.AddCommand(presetsCmd)
	presetsCmd.AddCommand(presetsListCmd)
	presetsCmd.AddCommand(presetsResolveCmd)

	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().StringVar(&healthDomain, "domain", "", "Base domain (default: NEXUS_DOMAIN, then the vault)")
	healthCmd.Flags().StringVar(&healthDataDir, "data-dir", "", "Data directory holding the generated dashboard")
	healthCmd.Flags().BoolVar(&healthCritical, "critical-only", false, "Only probe the reverse proxy and the gate")

	rootCmd.AddCommand(gateCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger honours --verbose on top of NEXUS_LOG_LEVEL.
func newLogger(cfg *config.Config) logger.Logger {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logger.New(level, cfg.PrettyLog)
}

// newApp loads configuration and discovers manifests.
func newApp() (*app.App, logger.Logger, error) {
	cfg := config.Load()
	log := newLogger(cfg)
	a, err := app.New(cfg, log)
	if err != nil {
		return nil, log, err
	}
	return a, log, nil
}

func selection(args []string) app.Selection {
	return app.Selection{
		All:      genAll,
		Preset:   genPreset,
		Names:    args,
		WithDeps: genWithDeps,
	}
}
