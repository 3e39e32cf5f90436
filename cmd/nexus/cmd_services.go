package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/nexus/internal/manifest"
	"github.com/MrSnakeDoc/nexus/internal/resolver"
)

func runServicesList(cmd *cobra.Command, _ []string) error {
	a, _, err := newApp()
	if err != nil {
		return err
	}
	printServices(cmd.OutOrStdout(), a.Manifests())
	return nil
}

func runServicesDeps(cmd *cobra.Command, args []string) error {
	a, _, err := newApp()
	if err != nil {
		return err
	}
	all := a.Manifests()
	for _, name := range args {
		if _, ok := all[name]; !ok {
			return fmt.Errorf("unknown service %q", name)
		}
	}
	for _, name := range resolver.ResolveDependencies(args, all) {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

// printServices writes one block per category, categories and services
// sorted, then the services reachable without the access gate.
func printServices(w io.Writer, all map[string]*manifest.ServiceManifest) {
	grouped := manifest.ByCategory(all)
	categories := make([]string, 0, len(grouped))
	for c := range grouped {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for i, c := range categories {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s:\n", manifest.TitleCase(c))
		for _, m := range grouped[c] {
			line := "  " + m.Name
			if len(m.Subdomains) > 0 {
				line += " (" + strings.Join(m.Subdomains, ", ") + ")"
			}
			if m.Description != "" {
				line += " - " + m.Description
			}
			fmt.Fprintln(w, line)
		}
	}

	if public := manifest.Public(all); len(public) > 0 {
		fmt.Fprintf(w, "\nPublic: %s\n", strings.Join(public, ", "))
	}
}
