package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/nexus/internal/app"
)

func runGenerateDashboard(cmd *cobra.Command, args []string) error {
	a, log, err := newApp()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	services, err := a.GenerateDashboard(cmd.Context(), app.DashboardOptions{
		Selection: selection(args),
		Domain:    genDomain,
		DataDir:   genDataDir,
		DryRun:    genDryRun,
	})
	if err != nil {
		return fmt.Errorf("generate dashboard: %w", err)
	}

	entries := 0
	for _, group := range services {
		for _, list := range group {
			entries += len(list)
		}
	}
	if genDryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "dry run: %d dashboard entries, nothing written\n", entries)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ dashboard generated: %d entries\n", entries)
	return nil
}

func runGenerateAccessRules(cmd *cobra.Command, args []string) error {
	a, log, err := newApp()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	rules, err := a.GenerateAccessRules(cmd.Context(), app.AccessRulesOptions{
		Selection: selection(args),
		Output:    genOutput,
		DryRun:    genDryRun,
	})
	if err != nil {
		return fmt.Errorf("generate access rules: %w", err)
	}

	if genDryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "dry run: %d rules, %d groups, nothing written\n", len(rules.Services), len(rules.Groups))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ access rules generated: %d rules, %d groups\n", len(rules.Services), len(rules.Groups))
	return nil
}
