package plan

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/dublyo/buildplan/pkg/app"
	"github.com/dublyo/buildplan/pkg/environment"
	"github.com/dublyo/buildplan/pkg/phase"
	"github.com/dublyo/buildplan/pkg/providers"

	nperrors "github.com/dublyo/buildplan/internal/errors"
)

var optionsValidator = validator.New()

// Generate detects the application's provider and synthesizes a BuildPlan
// by layering, in increasing precedence:
//
//  1. the detected provider's Setup/Install/Build/Start defaults
//  2. opts.CustomPkgs/CustomLibs/CustomAptPkgs (global option additions)
//  3. the plan file at opts.PlanPath, when set
//  4. opts.CustomInstallCmd/CustomBuildCmd/CustomStartCmd (CLI overrides)
//  5. NIXPACKS_* environment variable overrides observed on env
//
// It returns the provider that was detected alongside the plan so callers
// can report which provider ran.
func Generate(ctx context.Context, a *app.App, env *environment.Environment, registry *providers.Registry, opts GeneratePlanOptions, reporter Reporter) (*BuildPlan, providers.Provider, error) {
	if reporter == nil {
		reporter = NopReporter{}
	}

	if err := optionsValidator.Struct(opts); err != nil {
		return nil, nil, nperrors.Parse(nperrors.ErrPlanFileSchema, "GeneratePlanOptions", err)
	}

	provider, ok, err := providers.Select(ctx, registry, a, env)
	if err != nil {
		return nil, nil, fmt.Errorf("detect provider: %w", err)
	}
	if !ok {
		provider = nil
	}

	p := New()

	if provider != nil {
		setup, err := provider.Setup(ctx, a, env)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: setup phase: %w", provider.Name(), err)
		}
		install, err := provider.Install(ctx, a, env)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: install phase: %w", provider.Name(), err)
		}
		build, err := provider.Build(ctx, a, env)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: build phase: %w", provider.Name(), err)
		}
		start, err := provider.Start(ctx, a, env)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: start phase: %w", provider.Name(), err)
		}
		vars, err := provider.EnvironmentVariables(ctx, a, env)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: environment variables: %w", provider.Name(), err)
		}

		p.Setup, p.Install, p.Build, p.Start = setup, install, build, start
		for k, v := range vars {
			p.SetVariable(k, v)
		}
	}

	// Layer 2: global option additions.
	p.Setup = mergeSetup(p.Setup, opts.CustomPkgs, opts.CustomLibs, opts.CustomAptPkgs)

	// Layer 3: plan file.
	if opts.PlanPath != "" {
		fromFile, err := Load(opts.PlanPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load plan file: %w", err)
		}
		p = overlayPlan(p, fromFile)
	}

	// Layer 4: explicit CLI command overrides.
	if len(opts.CustomInstallCmd) > 0 {
		if p.Install == nil {
			p.Install = phase.NewInstall("")
		}
		p.Install.Cmd = joinCmds(opts.CustomInstallCmd)
	}
	if len(opts.CustomBuildCmd) > 0 {
		if p.Build == nil {
			p.Build = phase.NewBuild("")
		}
		p.Build.Cmd = joinCmds(opts.CustomBuildCmd)
	}
	if opts.CustomStartCmd != "" {
		if p.Start == nil {
			p.Start = phase.NewStart("")
		}
		p.Start.Cmd = opts.CustomStartCmd
	}

	if opts.PinPkgs && p.Setup != nil {
		archive, ok := env.GetConfigVariable("NIXPKGS_ARCHIVE")
		if ok {
			p.Setup.Archive = archive
		} else {
			reporter.Notice("pin-pkgs requested but no NIXPACKS_NIXPKGS_ARCHIVE set; leaving archive unset")
		}
	}

	// Layer 5: NIXPACKS_* environment variable overrides.
	applyEnvOverrides(p, env, reporter)

	return p, provider, nil
}

// applyEnvOverrides lets NIXPACKS_INSTALL_CMD / NIXPACKS_BUILD_CMD /
// NIXPACKS_START_CMD win over everything computed so far, mirroring the
// provider-facing config variable mechanism but scoped to the whole plan.
func applyEnvOverrides(p *BuildPlan, env *environment.Environment, reporter Reporter) {
	if v, ok := env.GetConfigVariable("INSTALL_CMD"); ok {
		if p.Install == nil {
			p.Install = phase.NewInstall("")
		}
		p.Install.Cmd = v
		reporter.Notice("install command overridden by NIXPACKS_INSTALL_CMD")
	}
	if v, ok := env.GetConfigVariable("BUILD_CMD"); ok {
		if p.Build == nil {
			p.Build = phase.NewBuild("")
		}
		p.Build.Cmd = v
		reporter.Notice("build command overridden by NIXPACKS_BUILD_CMD")
	}
	if v, ok := env.GetConfigVariable("START_CMD"); ok {
		if p.Start == nil {
			p.Start = phase.NewStart("")
		}
		p.Start.Cmd = v
		reporter.Notice("start command overridden by NIXPACKS_START_CMD")
	}
}
