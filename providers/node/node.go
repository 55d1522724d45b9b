// Package node detects and plans Node.js applications.
// Copyright (c) 2026 Dublyo. All rights reserved.
// Licensed under the MIT License.
package node

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/dublyo/buildplan/pkg/app"
	"github.com/dublyo/buildplan/pkg/environment"
	"github.com/dublyo/buildplan/pkg/phase"
	"github.com/dublyo/buildplan/pkg/pkgref"
)

const defaultNodePkgName = "nodejs"

// availableNodeVersions are the major versions with a corresponding
// nodejs-N_x nix package; anything else falls back to the default.
var availableNodeVersions = []int{10, 12, 14, 16, 18, 20, 22}

var (
	simpleVersionRe = regexp.MustCompile(`^(\d+)\.?[xX]?$`)
	gteVersionRe    = regexp.MustCompile(`^>=(\d+)`)
)

// PackageJSON is the subset of package.json that provider decisions read.
type PackageJSON struct {
	Name    string            `json:"name,omitempty"`
	Scripts map[string]string `json:"scripts,omitempty"`
	Engines map[string]string `json:"engines,omitempty"`
	Main    string            `json:"main,omitempty"`
}

// Provider detects Node.js applications by the presence of package.json.
type Provider struct{}

// New returns a Node provider.
func New() *Provider { return &Provider{} }

// Name implements providers.Provider.
func (Provider) Name() string { return "node" }

// Detect implements providers.Provider.
func (Provider) Detect(_ context.Context, a *app.App, _ *environment.Environment) (bool, error) {
	return a.IncludesFile("package.json"), nil
}

// Setup implements providers.Provider.
func (Provider) Setup(_ context.Context, a *app.App, env *environment.Environment) (*phase.Setup, error) {
	pkgs, err := getNixPackages(a, env)
	if err != nil {
		return nil, err
	}
	s := phase.NewSetup(pkgs...)
	if usesCanvas(a) {
		s.AddLibraries("libuuid", "libGL")
	}
	return s, nil
}

// Install implements providers.Provider.
func (Provider) Install(_ context.Context, a *app.App, _ *environment.Environment) (*phase.Install, error) {
	return phase.NewInstall(getInstallCommand(a)), nil
}

// Build implements providers.Provider.
func (Provider) Build(_ context.Context, a *app.App, _ *environment.Environment) (*phase.Build, error) {
	has, err := hasScript(a, "build")
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, nil
	}
	return phase.NewBuild(getPackageManager(a) + " run build"), nil
}

// Start implements providers.Provider.
func (Provider) Start(_ context.Context, a *app.App, _ *environment.Environment) (*phase.Start, error) {
	startCmd, err := getStartCmd(a)
	if err != nil {
		return nil, err
	}
	if startCmd == "" {
		return nil, nil
	}
	pkgManager := getPackageManager(a)
	return phase.NewStart(strings.ReplaceAll(startCmd, "npm", pkgManager)), nil
}

// EnvironmentVariables implements providers.Provider.
func (Provider) EnvironmentVariables(_ context.Context, _ *app.App, _ *environment.Environment) (map[string]string, error) {
	return map[string]string{
		"NODE_ENV":              "production",
		"NPM_CONFIG_PRODUCTION": "false",
	}, nil
}

func hasScript(a *app.App, script string) (bool, error) {
	pkg, err := app.ReadJSON[PackageJSON](a, "package.json")
	if err != nil {
		return false, err
	}
	_, ok := pkg.Scripts[script]
	return ok, nil
}

func getStartCmd(a *app.App) (string, error) {
	has, err := hasScript(a, "start")
	if err != nil {
		return "", err
	}
	if has {
		return "npm run start", nil
	}

	pkg, err := app.ReadJSON[PackageJSON](a, "package.json")
	if err != nil {
		return "", err
	}
	if pkg.Main != "" && a.IncludesFile(pkg.Main) {
		return fmt.Sprintf("node %s", pkg.Main), nil
	}
	if a.IncludesFile("index.js") {
		return "node index.js", nil
	}
	return "", nil
}

// getNixNodePkg parses package.json's engines.node field, falling back to
// NIXPACKS_NODE_VERSION, and resolves it to a concrete nodejs-N_x package.
// A version that resolves to no available major yields the default package
// without any notice being raised.
func getNixNodePkg(pkg PackageJSON, env *environment.Environment) pkgref.Pkg {
	nodeVersion := pkg.Engines["node"]
	if nodeVersion == "" {
		if v, ok := env.GetConfigVariable("NODE_VERSION"); ok {
			nodeVersion = v
		}
	}
	if nodeVersion == "" || nodeVersion == "*" {
		return pkgref.New(defaultNodePkgName)
	}

	if m := simpleVersionRe.FindStringSubmatch(nodeVersion); m != nil {
		return versionNumberToPkg(m[1])
	}

	// Constraint ranges like ">=14.10.3 <16" are resolved by finding the
	// highest available major the constraint actually admits, falling
	// back to the ">=" lower bound when nothing qualifies exactly -
	// mirroring the leniency of the regex-only fallback below.
	if constraint, err := semver.NewConstraint(nodeVersion); err == nil {
		for i := len(availableNodeVersions) - 1; i >= 0; i-- {
			major := availableNodeVersions[i]
			v := semver.MustParse(fmt.Sprintf("%d.0.0", major))
			if constraint.Check(v) {
				return versionNumberToPkg(strconv.Itoa(major))
			}
		}
	}

	if m := gteVersionRe.FindStringSubmatch(nodeVersion); m != nil {
		return versionNumberToPkg(m[1])
	}

	return pkgref.New(defaultNodePkgName)
}

func versionNumberToPkg(raw string) pkgref.Pkg {
	version, err := strconv.Atoi(raw)
	if err != nil {
		return pkgref.New(defaultNodePkgName)
	}
	for _, v := range availableNodeVersions {
		if v == version {
			return pkgref.New(fmt.Sprintf("nodejs-%d_x", version))
		}
	}
	return pkgref.New(defaultNodePkgName)
}

func getPackageManager(a *app.App) string {
	switch {
	case a.IncludesFile("pnpm-lock.yaml"):
		return "pnpm"
	case a.IncludesFile("yarn.lock"):
		return "yarn"
	default:
		return "npm"
	}
}

func getInstallCommand(a *app.App) string {
	switch getPackageManager(a) {
	case "pnpm":
		return "pnpm i --frozen-lockfile"
	case "yarn":
		if a.IncludesFile(".yarnrc.yml") {
			return "yarn set version berry && yarn install --immutable --check-cache"
		}
		return "yarn install --frozen-lockfile"
	default:
		if a.IncludesFile("package-lock.json") {
			return "npm ci"
		}
		return "npm i"
	}
}

func getNixPackages(a *app.App, env *environment.Environment) ([]pkgref.Pkg, error) {
	pkg, err := app.ReadJSON[PackageJSON](a, "package.json")
	if err != nil {
		return nil, err
	}
	nodePkg := getNixNodePkg(pkg, env)
	pkgs := []pkgref.Pkg{nodePkg}

	switch getPackageManager(a) {
	case "pnpm":
		pnpm := pkgref.New("nodePackages.pnpm")
		if nodePkg.Name != defaultNodePkgName {
			pnpm = pnpm.SetOverride("nodejs", nodePkg.Name)
		}
		pkgs = append(pkgs, pnpm)
	case "yarn":
		yarn := pkgref.New("yarn")
		if nodePkg.Name != defaultNodePkgName {
			yarn = yarn.SetOverride("nodejs", nodePkg.Name)
		}
		pkgs = append(pkgs, yarn)
	}
	return pkgs, nil
}

func usesCanvas(a *app.App) bool {
	packageJSON, _ := a.ReadFile("package.json")
	lockJSON, _ := a.ReadFile("package-lock.json")
	yarnLock, _ := a.ReadFile("yarn.lock")
	pnpmYAML, _ := a.ReadFile("pnpm-lock.yaml")

	return strings.Contains(packageJSON, `"canvas"`) ||
		strings.Contains(lockJSON, "/canvas/") ||
		strings.Contains(yarnLock, "/canvas/") ||
		strings.Contains(pnpmYAML, "/canvas/")
}
