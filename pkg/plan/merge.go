package plan

import (
	"strings"

	"github.com/dublyo/buildplan/pkg/phase"
	"github.com/dublyo/buildplan/pkg/pkgref"
)

// mergeSetup layers extra packages/libraries/apt packages onto a provider's
// Setup phase, preserving provider order and appending additions after it.
func mergeSetup(base *phase.Setup, extraPkgs []pkgref.Pkg, extraLibs, extraAptPkgs []string) *phase.Setup {
	if base == nil {
		base = phase.NewSetup()
	}
	base.AddPkgs(extraPkgs...)
	base.AddLibraries(extraLibs...)
	base.AddAptPkgs(extraAptPkgs...)
	return base.Dedup()
}

// overlayPlan merges src onto dst: any non-nil/non-empty field in src wins
// over dst's. Used to layer a plan file on top of the provider-generated
// plan; Generate applies the CLI command overrides separately afterwards.
func overlayPlan(dst, src *BuildPlan) *BuildPlan {
	if src == nil {
		return dst
	}

	if src.Setup != nil {
		if dst.Setup == nil {
			dst.Setup = phase.NewSetup()
		}
		if len(src.Setup.Pkgs) > 0 {
			dst.Setup.Pkgs = src.Setup.Pkgs
		}
		if len(src.Setup.Libs) > 0 {
			dst.Setup.Libs = src.Setup.Libs
		}
		if len(src.Setup.AptPkgs) > 0 {
			dst.Setup.AptPkgs = src.Setup.AptPkgs
		}
		if len(src.Setup.Cmds) > 0 {
			dst.Setup.Cmds = src.Setup.Cmds
		}
		if src.Setup.Archive != "" {
			dst.Setup.Archive = src.Setup.Archive
		}
		dst.Setup.Dedup()
	}

	if src.Install != nil {
		if dst.Install == nil {
			dst.Install = phase.NewInstall("")
		}
		if src.Install.Cmd != "" {
			dst.Install.Cmd = src.Install.Cmd
		}
		if len(src.Install.CacheDirectories) > 0 {
			dst.Install.CacheDirectories = src.Install.CacheDirectories
		}
	}

	if src.Build != nil {
		if dst.Build == nil {
			dst.Build = phase.NewBuild("")
		}
		if src.Build.Cmd != "" {
			dst.Build.Cmd = src.Build.Cmd
		}
		if len(src.Build.CacheDirectories) > 0 {
			dst.Build.CacheDirectories = src.Build.CacheDirectories
		}
	}

	if src.Start != nil {
		if dst.Start == nil {
			dst.Start = phase.NewStart("")
		}
		if src.Start.Cmd != "" {
			dst.Start.Cmd = src.Start.Cmd
		}
		if src.Start.RunImage != "" {
			dst.Start.RunImage = src.Start.RunImage
		}
	}

	for k, v := range src.Variables {
		dst.SetVariable(k, v)
	}

	return dst
}

// joinCmds joins multi-step CLI overrides the way the CLI accepts them:
// one flag occurrence per step, executed in sequence.
func joinCmds(cmds []string) string {
	return strings.Join(cmds, " && ")
}
