// Package golang detects and plans Go applications, distinguishing the
// Gin, Echo and Fiber web frameworks from a plain standard-library build
// only to pick sensible defaults - the resulting plan shape is the same
// either way.
// Copyright (c) 2026 Dublyo. All rights reserved.
// Licensed under the MIT License.
package golang

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/dublyo/buildplan/pkg/app"
	"github.com/dublyo/buildplan/pkg/environment"
	"github.com/dublyo/buildplan/pkg/phase"
	"github.com/dublyo/buildplan/pkg/pkgref"
)

var portRe = regexp.MustCompile(`:(\d{4})`)

type framework struct {
	name   string
	module string
}

var knownFrameworks = []framework{
	{name: "gin", module: "github.com/gin-gonic/gin"},
	{name: "echo", module: "github.com/labstack/echo"},
	{name: "fiber", module: "github.com/gofiber/fiber"},
}

// Provider detects Go applications by the presence of go.mod.
type Provider struct{}

// New returns a Go provider.
func New() *Provider { return &Provider{} }

// Name implements providers.Provider.
func (Provider) Name() string { return "go" }

// Detect implements providers.Provider.
func (Provider) Detect(_ context.Context, a *app.App, _ *environment.Environment) (bool, error) {
	return a.IncludesFile("go.mod"), nil
}

// Setup implements providers.Provider.
func (Provider) Setup(_ context.Context, a *app.App, _ *environment.Environment) (*phase.Setup, error) {
	version, err := goVersion(a)
	if err != nil {
		return nil, err
	}
	return phase.NewSetup(pkgref.New(goNixPkg(version))), nil
}

// Install implements providers.Provider.
func (Provider) Install(_ context.Context, _ *app.App, _ *environment.Environment) (*phase.Install, error) {
	return phase.NewInstall("go mod download").AddCacheDirectories("/root/go/pkg/mod"), nil
}

// Build implements providers.Provider.
func (Provider) Build(_ context.Context, a *app.App, _ *environment.Environment) (*phase.Build, error) {
	mainPath := detectMainPath(a)
	return phase.NewBuild(fmt.Sprintf("go build -o out %s", mainPath)), nil
}

// Start implements providers.Provider.
func (Provider) Start(_ context.Context, _ *app.App, _ *environment.Environment) (*phase.Start, error) {
	return phase.NewStart("./out"), nil
}

// EnvironmentVariables implements providers.Provider.
func (Provider) EnvironmentVariables(_ context.Context, a *app.App, _ *environment.Environment) (map[string]string, error) {
	framework, err := detectFramework(a)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"CGO_ENABLED":  "0",
		"GO_PORT":      detectPort(a),
		"GO_FRAMEWORK": framework,
	}, nil
}

// detectFramework returns the module-declared web framework, if any, used
// for documentation/reporting purposes. The plan shape does not depend on
// the result - Setup/Install/Build/Start are the same for every framework.
func detectFramework(a *app.App) (string, error) {
	data, err := a.ReadFile("go.mod")
	if err != nil {
		return "standard", nil
	}
	f, err := modfile.Parse("go.mod", []byte(data), nil)
	if err != nil {
		return "standard", nil
	}
	for _, req := range f.Require {
		for _, fw := range knownFrameworks {
			if strings.HasPrefix(req.Mod.Path, fw.module) {
				return fw.name, nil
			}
		}
	}
	return "standard", nil
}

func goVersion(a *app.App) (string, error) {
	data, err := a.ReadFile("go.mod")
	if err != nil {
		return "1.22", nil
	}
	f, err := modfile.Parse("go.mod", []byte(data), nil)
	if err != nil || f.Go == nil {
		return "1.22", nil
	}
	return f.Go.Version, nil
}

func goNixPkg(version string) string {
	return fmt.Sprintf("go_%s", strings.ReplaceAll(version, ".", "_"))
}

func detectMainPath(a *app.App) string {
	switch {
	case a.IncludesFile("cmd/server/main.go"):
		return "./cmd/server"
	case a.IncludesFile("cmd/api/main.go"):
		return "./cmd/api"
	case a.IncludesFile("cmd/main.go"):
		return "./cmd"
	default:
		return "."
	}
}

func detectPort(a *app.App) string {
	for _, mainFile := range []string{"main.go", "cmd/main.go", "cmd/server/main.go", "cmd/api/main.go"} {
		content, err := a.ReadFile(mainFile)
		if err != nil {
			continue
		}
		if m := portRe.FindStringSubmatch(content); m != nil {
			return m[1]
		}
	}
	return "8080"
}
