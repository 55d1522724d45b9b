// Package deno detects and plans Deno applications.
// Copyright (c) 2026 Dublyo. All rights reserved.
// Licensed under the MIT License.
package deno

import (
	"context"
	"fmt"
	"regexp"

	"github.com/dublyo/buildplan/pkg/app"
	"github.com/dublyo/buildplan/pkg/environment"
	"github.com/dublyo/buildplan/pkg/phase"
	"github.com/dublyo/buildplan/pkg/pkgref"
)

var importRe = regexp.MustCompile(`(?m)^import .+ from "https://deno\.land/[^"]+\.ts";?$`)

// Provider detects Deno applications by config file or a deno.land import.
type Provider struct{}

// New returns a Deno provider.
func New() *Provider { return &Provider{} }

// Name implements providers.Provider.
func (Provider) Name() string { return "deno" }

// Detect implements providers.Provider.
func (Provider) Detect(_ context.Context, a *app.App, _ *environment.Environment) (bool, error) {
	if a.IncludesFile("deno.json") || a.IncludesFile("deno.jsonc") {
		return true, nil
	}
	return a.FindMatch(importRe, "**/*.ts")
}

// Setup implements providers.Provider.
func (Provider) Setup(_ context.Context, _ *app.App, _ *environment.Environment) (*phase.Setup, error) {
	return phase.NewSetup(pkgref.New("deno")), nil
}

// Install implements providers.Provider. Deno has no separate install step;
// dependencies are resolved lazily by `deno cache`/`deno run`.
func (Provider) Install(_ context.Context, _ *app.App, _ *environment.Environment) (*phase.Install, error) {
	return nil, nil
}

// Build implements providers.Provider.
func (Provider) Build(_ context.Context, a *app.App, _ *environment.Environment) (*phase.Build, error) {
	startFile, err := getStartFile(a)
	if err != nil {
		return nil, err
	}
	if startFile == "" {
		return nil, nil
	}
	return phase.NewBuild(fmt.Sprintf("deno cache %s", startFile)), nil
}

// Start implements providers.Provider.
func (Provider) Start(_ context.Context, a *app.App, _ *environment.Environment) (*phase.Start, error) {
	startFile, err := getStartFile(a)
	if err != nil {
		return nil, err
	}
	if startFile == "" {
		return nil, nil
	}
	return phase.NewStart(fmt.Sprintf("deno run --allow-all %s", startFile)), nil
}

// EnvironmentVariables implements providers.Provider.
func (Provider) EnvironmentVariables(_ context.Context, _ *app.App, _ *environment.Environment) (map[string]string, error) {
	return nil, nil
}

// getStartFile finds the first index.ts/index.js file anywhere in the tree.
func getStartFile(a *app.App) (string, error) {
	matches, err := a.FindFiles("**/index.[tj]s")
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	return matches[0], nil
}
