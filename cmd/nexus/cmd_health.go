package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/nexus/internal/app"
)

// errUnhealthy makes the process exit 1 once the report has been printed.
var errUnhealthy = errors.New("unhealthy services")

func runHealth(cmd *cobra.Command, _ []string) error {
	a, log, err := newApp()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	report := a.Health(cmd.Context(), app.HealthOptions{
		Domain:       healthDomain,
		DataDir:      healthDataDir,
		CriticalOnly: healthCritical,
	})
	if _, err := report.WriteTo(cmd.OutOrStdout()); err != nil {
		return err
	}
	if !report.Healthy() {
		return errUnhealthy
	}
	return nil
}
