package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func runPresetsList(cmd *cobra.Command, _ []string) error {
	a, _, err := newApp()
	if err != nil {
		return err
	}
	presets, err := a.Presets()
	if err != nil {
		return err
	}

	for _, name := range presets.Names() {
		p := presets[name]
		line := name
		if p.Extends != "" {
			line += " (extends " + p.Extends + ")"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", line, strings.Join(p.Services, ", "))
	}
	return nil
}

func runPresetsResolve(cmd *cobra.Command, args []string) error {
	a, _, err := newApp()
	if err != nil {
		return err
	}
	presets, err := a.Presets()
	if err != nil {
		return err
	}
	if _, ok := presets[args[0]]; !ok {
		return fmt.Errorf("unknown preset %q", args[0])
	}

	names, err := presets.Resolve(args[0])
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(cmd.OutOrStdout(), n)
	}
	return nil
}
