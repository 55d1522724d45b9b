package plan_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dublyo/buildplan/pkg/app"
	"github.com/dublyo/buildplan/pkg/environment"
	"github.com/dublyo/buildplan/pkg/phase"
	"github.com/dublyo/buildplan/pkg/pkgref"
	"github.com/dublyo/buildplan/pkg/plan"
	"github.com/dublyo/buildplan/pkg/providers"
)

// fakeProvider always detects and returns a fixed nodejs-shaped plan, used
// to exercise the precedence chain without depending on a concrete
// language provider.
type fakeProvider struct {
	detect bool
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Detect(context.Context, *app.App, *environment.Environment) (bool, error) {
	return f.detect, nil
}

func (f *fakeProvider) Setup(context.Context, *app.App, *environment.Environment) (*phase.Setup, error) {
	return phase.NewSetup(pkgref.New("nodejs")), nil
}

func (f *fakeProvider) Install(context.Context, *app.App, *environment.Environment) (*phase.Install, error) {
	return phase.NewInstall("npm install"), nil
}

func (f *fakeProvider) Build(context.Context, *app.App, *environment.Environment) (*phase.Build, error) {
	return phase.NewBuild(""), nil
}

func (f *fakeProvider) Start(context.Context, *app.App, *environment.Environment) (*phase.Start, error) {
	return phase.NewStart("npm start"), nil
}

func (f *fakeProvider) EnvironmentVariables(context.Context, *app.App, *environment.Environment) (map[string]string, error) {
	return map[string]string{"NODE_ENV": "production"}, nil
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	a, err := app.New(t.TempDir())
	require.NoError(t, err)
	return a
}

func TestGenerateUsesProviderDefaultsWhenNoOverrides(t *testing.T) {
	a := newTestApp(t)
	env := environment.New(nil)
	registry := providers.NewRegistry().Register(&fakeProvider{detect: true})

	p, provider, err := plan.Generate(context.Background(), a, env, registry, plan.GeneratePlanOptions{}, nil)
	require.NoError(t, err)
	require.Equal(t, "fake", provider.Name())
	require.Equal(t, "npm install", p.Install.Cmd)
	require.Equal(t, "npm start", p.Start.Cmd)
	require.Equal(t, "production", p.Variables["NODE_ENV"])
}

func TestGenerateNoProviderDetected(t *testing.T) {
	a := newTestApp(t)
	env := environment.New(nil)
	registry := providers.NewRegistry().Register(&fakeProvider{detect: false})

	p, provider, err := plan.Generate(context.Background(), a, env, registry, plan.GeneratePlanOptions{}, nil)
	require.NoError(t, err)
	require.Nil(t, provider)
	require.Nil(t, p.Install)
}

func TestGenerateGlobalOptionAdditionsExtendSetup(t *testing.T) {
	a := newTestApp(t)
	env := environment.New(nil)
	registry := providers.NewRegistry().Register(&fakeProvider{detect: true})

	opts := plan.GeneratePlanOptions{
		CustomLibs:    []string{"libuuid"},
		CustomAptPkgs: []string{"ca-certificates"},
		CustomPkgs:    []pkgref.Pkg{pkgref.New("yarn")},
	}

	p, _, err := plan.Generate(context.Background(), a, env, registry, opts, nil)
	require.NoError(t, err)
	require.Len(t, p.Setup.Pkgs, 2)
	require.Equal(t, []string{"libuuid"}, p.Setup.Libs)
	require.Equal(t, []string{"ca-certificates"}, p.Setup.AptPkgs)
}

func TestGenerateCLIOverridesWinOverProviderDefaults(t *testing.T) {
	a := newTestApp(t)
	env := environment.New(nil)
	registry := providers.NewRegistry().Register(&fakeProvider{detect: true})

	opts := plan.GeneratePlanOptions{
		CustomInstallCmd: []string{"yarn install --frozen-lockfile"},
		CustomBuildCmd:   []string{"yarn build", "yarn prune"},
		CustomStartCmd:   "yarn start",
	}

	p, _, err := plan.Generate(context.Background(), a, env, registry, opts, nil)
	require.NoError(t, err)
	require.Equal(t, "yarn install --frozen-lockfile", p.Install.Cmd)
	require.Equal(t, "yarn build && yarn prune", p.Build.Cmd)
	require.Equal(t, "yarn start", p.Start.Cmd)
}

func TestGenerateEnvironmentOverrideWinsOverEverything(t *testing.T) {
	a := newTestApp(t)
	env := environment.New(map[string]string{"NIXPACKS_START_CMD": "node server.js"})
	registry := providers.NewRegistry().Register(&fakeProvider{detect: true})

	reporter := &plan.CollectingReporter{}
	opts := plan.GeneratePlanOptions{CustomStartCmd: "yarn start"}

	p, _, err := plan.Generate(context.Background(), a, env, registry, opts, reporter)
	require.NoError(t, err)
	require.Equal(t, "node server.js", p.Start.Cmd)
	require.NotEmpty(t, reporter.Notices)
}

func TestGenerateRejectsInvalidCustomPkg(t *testing.T) {
	a := newTestApp(t)
	env := environment.New(nil)
	registry := providers.NewRegistry().Register(&fakeProvider{detect: true})

	opts := plan.GeneratePlanOptions{CustomPkgs: []pkgref.Pkg{{Name: ""}}}
	_, _, err := plan.Generate(context.Background(), a, env, registry, opts, nil)
	require.Error(t, err)
}

func TestGeneratePinPkgsSetsArchive(t *testing.T) {
	a := newTestApp(t)
	env := environment.New(map[string]string{"NIXPACKS_NIXPKGS_ARCHIVE": "abc123"})
	registry := providers.NewRegistry().Register(&fakeProvider{detect: true})

	p, _, err := plan.Generate(context.Background(), a, env, registry, plan.GeneratePlanOptions{PinPkgs: true}, nil)
	require.NoError(t, err)
	require.Equal(t, "abc123", p.Setup.Archive)
}

func TestGeneratePlanFileReplacesProviderSetupPkgs(t *testing.T) {
	a := newTestApp(t)
	env := environment.New(nil)
	registry := providers.NewRegistry().Register(&fakeProvider{detect: true})

	filePlan := plan.New()
	filePlan.Setup = phase.NewSetup(pkgref.New("nodejs-14_x"))

	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, plan.Save(filePlan, path))

	opts := plan.GeneratePlanOptions{PlanPath: path}
	p, _, err := plan.Generate(context.Background(), a, env, registry, opts, nil)
	require.NoError(t, err)

	require.Len(t, p.Setup.Pkgs, 1)
	require.Equal(t, "nodejs-14_x", p.Setup.Pkgs[0].Name)
}

func TestGeneratePlanFileWithNoMatchingProviderEqualsFile(t *testing.T) {
	a := newTestApp(t)
	env := environment.New(nil)
	registry := providers.NewRegistry().Register(&fakeProvider{detect: false})

	filePlan := plan.New()
	filePlan.Setup = phase.NewSetup(pkgref.New("nodejs-14_x"))
	filePlan.Install = phase.NewInstall("npm ci")
	filePlan.Start = phase.NewStart("node index.js")

	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, plan.Save(filePlan, path))

	opts := plan.GeneratePlanOptions{PlanPath: path}
	p, provider, err := plan.Generate(context.Background(), a, env, registry, opts, nil)
	require.NoError(t, err)
	require.Nil(t, provider)

	require.Equal(t, []pkgref.Pkg{pkgref.New("nodejs-14_x")}, p.Setup.Pkgs)
	require.Equal(t, "npm ci", p.Install.Cmd)
	require.Equal(t, "node index.js", p.Start.Cmd)
}
