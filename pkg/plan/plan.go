// Package plan synthesizes a BuildPlan for an application by merging
// provider defaults, global option additions, a plan file and explicit
// overrides, in strict precedence order.
// Copyright (c) 2026 Dublyo. All rights reserved.
// Licensed under the MIT License.
package plan

import (
	"fmt"

	"github.com/dublyo/buildplan/pkg/phase"
	"github.com/dublyo/buildplan/pkg/pkgref"
)

// BuildPlan is the serializable, provider-agnostic description of how to
// build and run an application: the four ordered phases plus any
// environment variables the plan wants injected at runtime.
//
// Field order mirrors the on-disk JSON/YAML schema and must not change:
// setup, install, build, start, variables.
type BuildPlan struct {
	Setup     *phase.Setup      `json:"setup,omitempty" yaml:"setup,omitempty"`
	Install   *phase.Install    `json:"install,omitempty" yaml:"install,omitempty"`
	Build     *phase.Build      `json:"build,omitempty" yaml:"build,omitempty"`
	Start     *phase.Start      `json:"start,omitempty" yaml:"start,omitempty"`
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// New returns an empty BuildPlan ready for phases to be attached.
func New() *BuildPlan {
	return &BuildPlan{Variables: map[string]string{}}
}

// SetVariable sets a runtime environment variable on the plan, creating the
// map on first use.
func (p *BuildPlan) SetVariable(key, value string) {
	if p.Variables == nil {
		p.Variables = map[string]string{}
	}
	p.Variables[key] = value
}

// GeneratePlanOptions carries every layer of user-supplied override that
// Generate folds on top of the detected provider's defaults. Zero values
// mean "no override at this layer."
type GeneratePlanOptions struct {
	// PlanPath, when set, is read and merged ahead of the CLI overrides
	// below (layer: plan file).
	PlanPath string `validate:"omitempty,filepath"`

	// CustomPkgs, CustomLibs, CustomAptPkgs extend (never replace) the
	// provider's Setup phase.
	CustomPkgs    []pkgref.Pkg `validate:"dive"`
	CustomLibs    []string
	CustomAptPkgs []string

	// CustomInstallCmd, CustomBuildCmd and CustomStartCmd replace the
	// provider's command for that phase when non-empty. CustomInstallCmd
	// and CustomBuildCmd are slices of commands joined with "&&" so
	// multi-step overrides read the same as single-step ones on the CLI.
	CustomInstallCmd []string
	CustomBuildCmd   []string
	CustomStartCmd   string

	// PinPkgs locks every Setup package to the nixpkgs archive resolved
	// for this plan, overriding provider-chosen pins.
	PinPkgs bool
}

// Reporter receives non-fatal notices raised while a plan is generated,
// e.g. a NIXPACKS_*_CMD variable overriding a command, or pin-pkgs
// requested without NIXPACKS_NIXPKGS_ARCHIVE. Providers have no access to
// it. A nil Reporter passed to Generate is replaced by NopReporter{}.
type Reporter interface {
	Notice(format string, args ...any)
}

// NopReporter discards every notice.
type NopReporter struct{}

// Notice implements Reporter.
func (NopReporter) Notice(string, ...any) {}

// CollectingReporter accumulates notices in memory, for tests and for the
// CLI's --verbose rendering.
type CollectingReporter struct {
	Notices []string
}

// Notice implements Reporter.
func (c *CollectingReporter) Notice(format string, args ...any) {
	c.Notices = append(c.Notices, fmt.Sprintf(format, args...))
}
