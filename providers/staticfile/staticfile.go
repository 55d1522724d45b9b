// Package staticfile is the bottom-of-registry fallback for applications
// that are nothing more than a directory of static assets.
// Copyright (c) 2026 Dublyo. All rights reserved.
// Licensed under the MIT License.
package staticfile

import (
	"context"

	"github.com/dublyo/buildplan/pkg/app"
	"github.com/dublyo/buildplan/pkg/environment"
	"github.com/dublyo/buildplan/pkg/phase"
	"github.com/dublyo/buildplan/pkg/pkgref"
)

const defaultRoot = "."

// Provider detects plain static sites by the presence of an index.html at
// the source root with no other recognized manifest ahead of it in the
// registry.
type Provider struct{}

// New returns a Staticfile provider.
func New() *Provider { return &Provider{} }

// Name implements providers.Provider.
func (Provider) Name() string { return "staticfile" }

// Detect implements providers.Provider.
func (Provider) Detect(_ context.Context, a *app.App, _ *environment.Environment) (bool, error) {
	return a.IncludesFile("index.html"), nil
}

// Setup implements providers.Provider.
func (Provider) Setup(_ context.Context, _ *app.App, _ *environment.Environment) (*phase.Setup, error) {
	return phase.NewSetup(pkgref.New("staticfile")), nil
}

// Install implements providers.Provider. There is nothing to install.
func (Provider) Install(_ context.Context, _ *app.App, _ *environment.Environment) (*phase.Install, error) {
	return nil, nil
}

// Build implements providers.Provider. There is nothing to build.
func (Provider) Build(_ context.Context, _ *app.App, _ *environment.Environment) (*phase.Build, error) {
	return nil, nil
}

// Start implements providers.Provider.
func (Provider) Start(_ context.Context, _ *app.App, env *environment.Environment) (*phase.Start, error) {
	root := defaultRoot
	if v, ok := env.GetConfigVariable("STATIC_ROOT"); ok {
		root = v
	}
	return phase.NewStart("serve " + root), nil
}

// EnvironmentVariables implements providers.Provider.
func (Provider) EnvironmentVariables(_ context.Context, _ *app.App, _ *environment.Environment) (map[string]string, error) {
	return nil, nil
}
