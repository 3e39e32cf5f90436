package main

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/nexus/internal/app"
	"github.com/MrSnakeDoc/nexus/internal/config"
)

// runGate does not discover manifests: the gate only reads the generated
// rules file.
func runGate(_ *cobra.Command, _ []string) error {
	cfg := config.Load()
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	g, err := app.NewGate(cfg, log)
	if err != nil {
		return err
	}
	return g.Run()
}
