// Package rust detects and plans Rust applications built with Cargo.
// Copyright (c) 2026 Dublyo. All rights reserved.
// Licensed under the MIT License.
package rust

import (
	"context"
	"fmt"
	"strings"

	"github.com/dublyo/buildplan/pkg/app"
	"github.com/dublyo/buildplan/pkg/environment"
	"github.com/dublyo/buildplan/pkg/phase"
	"github.com/dublyo/buildplan/pkg/pkgref"
)

// cargoToml is the subset of Cargo.toml the provider reads.
type cargoToml struct {
	Package struct {
		Name    string `toml:"name"`
		Edition string `toml:"edition"`
	} `toml:"package"`
	Dependencies map[string]any `toml:"dependencies"`
}

// Provider detects Rust applications by the presence of Cargo.toml.
type Provider struct{}

// New returns a Rust provider.
func New() *Provider { return &Provider{} }

// Name implements providers.Provider.
func (Provider) Name() string { return "rust" }

// Detect implements providers.Provider.
func (Provider) Detect(_ context.Context, a *app.App, _ *environment.Environment) (bool, error) {
	return a.IncludesFile("Cargo.toml"), nil
}

// Setup implements providers.Provider.
func (Provider) Setup(_ context.Context, _ *app.App, _ *environment.Environment) (*phase.Setup, error) {
	return phase.NewSetup(pkgref.New("cargo"), pkgref.New("rustc")), nil
}

// Install implements providers.Provider.
func (Provider) Install(_ context.Context, _ *app.App, _ *environment.Environment) (*phase.Install, error) {
	return phase.NewInstall("cargo fetch").AddCacheDirectories("/root/.cargo/registry"), nil
}

// Build implements providers.Provider.
func (Provider) Build(_ context.Context, _ *app.App, _ *environment.Environment) (*phase.Build, error) {
	return phase.NewBuild("cargo build --release").AddCacheDirectories("target"), nil
}

// Start implements providers.Provider.
func (Provider) Start(_ context.Context, a *app.App, _ *environment.Environment) (*phase.Start, error) {
	cargo, err := readCargoToml(a)
	if err != nil {
		return nil, err
	}
	name := cargo.Package.Name
	if name == "" {
		name = "app"
	}
	return phase.NewStart(fmt.Sprintf("./target/release/%s", name)), nil
}

// EnvironmentVariables implements providers.Provider.
func (Provider) EnvironmentVariables(_ context.Context, a *app.App, _ *environment.Environment) (map[string]string, error) {
	vars := map[string]string{"ROCKET_ADDRESS": "0.0.0.0"}
	if usesFramework(a, "actix-web") {
		vars["RUST_FRAMEWORK"] = "actix"
	} else if usesFramework(a, "axum") {
		vars["RUST_FRAMEWORK"] = "axum"
	}
	return vars, nil
}

func readCargoToml(a *app.App) (cargoToml, error) {
	return app.ReadTOML[cargoToml](a, "Cargo.toml")
}

func usesFramework(a *app.App, name string) bool {
	content, err := a.ReadFile("Cargo.toml")
	if err != nil {
		return false
	}
	return strings.Contains(content, name)
}
