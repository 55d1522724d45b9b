// Package python detects and plans Python applications, distinguishing
// Django/FastAPI/Flask only to pick the right start command and WSGI/ASGI
// server - the rest of the plan shape is shared.
// Copyright (c) 2026 Dublyo. All rights reserved.
// Licensed under the MIT License.
package python

import (
	"context"
	"regexp"
	"strings"

	"github.com/dublyo/buildplan/pkg/app"
	"github.com/dublyo/buildplan/pkg/environment"
	"github.com/dublyo/buildplan/pkg/phase"
	"github.com/dublyo/buildplan/pkg/pkgref"
)

// pyProject is the subset of pyproject.toml the provider reads.
type pyProject struct {
	Project struct {
		Dependencies   []string `toml:"dependencies"`
		RequiresPython string   `toml:"requires-python"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies map[string]any `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

var (
	versionRe       = regexp.MustCompile(`(\d+\.\d+)`)
	runtimeVersionRe = regexp.MustCompile(`python-(\d+\.\d+)`)
)

// Provider detects Python applications.
type Provider struct{}

// New returns a Python provider.
func New() *Provider { return &Provider{} }

// Name implements providers.Provider.
func (Provider) Name() string { return "python" }

// Detect implements providers.Provider.
func (Provider) Detect(_ context.Context, a *app.App, _ *environment.Environment) (bool, error) {
	return a.IncludesFile("requirements.txt") ||
		a.IncludesFile("pyproject.toml") ||
		a.IncludesFile("Pipfile") ||
		a.IncludesFile("setup.py"), nil
}

// Setup implements providers.Provider.
func (Provider) Setup(_ context.Context, a *app.App, _ *environment.Environment) (*phase.Setup, error) {
	version := pythonVersion(a)
	s := phase.NewSetup(pkgref.New("python" + strings.ReplaceAll(version, ".", "")))
	switch packageManager(a) {
	case "poetry":
		s.AddPkgs(pkgref.New("poetry"))
	case "pipenv":
		s.AddPkgs(pkgref.New("pipenv"))
	case "uv":
		s.AddPkgs(pkgref.New("uv"))
	}
	return s, nil
}

// Install implements providers.Provider.
func (Provider) Install(_ context.Context, a *app.App, _ *environment.Environment) (*phase.Install, error) {
	switch packageManager(a) {
	case "poetry":
		return phase.NewInstall("poetry install --no-root"), nil
	case "pipenv":
		return phase.NewInstall("pipenv install --deploy"), nil
	case "uv":
		return phase.NewInstall("uv sync --frozen"), nil
	default:
		if a.IncludesFile("requirements.txt") {
			return phase.NewInstall("pip install -r requirements.txt"), nil
		}
		return phase.NewInstall("pip install ."), nil
	}
}

// Build implements providers.Provider. Python applications rarely need a
// dedicated build step.
func (Provider) Build(_ context.Context, _ *app.App, _ *environment.Environment) (*phase.Build, error) {
	return nil, nil
}

// Start implements providers.Provider.
func (Provider) Start(_ context.Context, a *app.App, _ *environment.Environment) (*phase.Start, error) {
	server := wsgiServer(a)
	switch {
	case a.IncludesFile("manage.py"):
		project := djangoProjectName(a)
		return phase.NewStart(server + " " + project + ".wsgi --bind 0.0.0.0:8000"), nil
	case hasDependency(a, "fastapi"):
		return phase.NewStart("uvicorn main:app --host 0.0.0.0 --port 8000"), nil
	case hasDependency(a, "flask"):
		return phase.NewStart("gunicorn --bind 0.0.0.0:8000 app:app"), nil
	case a.IncludesFile("main.py"):
		return phase.NewStart("python main.py"), nil
	default:
		return nil, nil
	}
}

// EnvironmentVariables implements providers.Provider.
func (Provider) EnvironmentVariables(_ context.Context, _ *app.App, _ *environment.Environment) (map[string]string, error) {
	return map[string]string{
		"PYTHONUNBUFFERED":        "1",
		"PYTHONDONTWRITEBYTECODE": "1",
	}, nil
}

func loadPyProject(a *app.App) (pyProject, bool) {
	if !a.IncludesFile("pyproject.toml") {
		return pyProject{}, false
	}
	p, err := app.ReadTOML[pyProject](a, "pyproject.toml")
	if err != nil {
		return pyProject{}, false
	}
	return p, true
}

func hasDependency(a *app.App, name string) bool {
	if p, ok := loadPyProject(a); ok {
		for _, dep := range p.Project.Dependencies {
			if strings.Contains(strings.ToLower(dep), name) {
				return true
			}
		}
		if _, ok := p.Tool.Poetry.Dependencies[name]; ok {
			return true
		}
	}
	if content, err := a.ReadFile("requirements.txt"); err == nil {
		for _, line := range strings.Split(content, "\n") {
			if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), name) {
				return true
			}
		}
	}
	return false
}

func packageManager(a *app.App) string {
	switch {
	case a.IncludesFile("poetry.lock"):
		return "poetry"
	case a.IncludesFile("Pipfile.lock"), a.IncludesFile("Pipfile"):
		return "pipenv"
	case a.IncludesFile("uv.lock"):
		return "uv"
	default:
		if p, ok := loadPyProject(a); ok && len(p.Tool.Poetry.Dependencies) > 0 {
			return "poetry"
		}
		return "pip"
	}
}

func wsgiServer(a *app.App) string {
	if hasDependency(a, "uvicorn") {
		return "uvicorn"
	}
	return "gunicorn"
}

func djangoProjectName(a *app.App) string {
	matches, err := a.FindFiles("**/settings.py")
	if err != nil || len(matches) == 0 {
		return "config"
	}
	dir := strings.TrimSuffix(matches[0], "/settings.py")
	if dir == matches[0] || dir == "" {
		return "config"
	}
	return strings.ReplaceAll(dir, "/", ".")
}

func pythonVersion(a *app.App) string {
	if p, ok := loadPyProject(a); ok && p.Project.RequiresPython != "" {
		if m := versionRe.FindString(p.Project.RequiresPython); m != "" {
			return m
		}
	}
	if content, err := a.ReadFile(".python-version"); err == nil {
		if m := versionRe.FindString(strings.TrimSpace(content)); m != "" {
			return m
		}
	}
	if content, err := a.ReadFile("runtime.txt"); err == nil {
		if m := runtimeVersionRe.FindStringSubmatch(strings.TrimSpace(content)); len(m) > 1 {
			return m[1]
		}
	}
	return "3.12"
}
