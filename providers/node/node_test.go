package node_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dublyo/buildplan/pkg/app"
	"github.com/dublyo/buildplan/pkg/environment"
	"github.com/dublyo/buildplan/providers/node"
)

func newApp(t *testing.T, packageJSON string) *app.App {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(packageJSON), 0o644))
	a, err := app.New(root)
	require.NoError(t, err)
	return a
}

func setupPkgNames(t *testing.T, a *app.App, env *environment.Environment) []string {
	t.Helper()
	s, err := node.New().Setup(context.Background(), a, env)
	require.NoError(t, err)
	names := make([]string, len(s.Pkgs))
	for i, p := range s.Pkgs {
		names[i] = p.Name
	}
	return names
}

func TestDetect(t *testing.T) {
	a := newApp(t, `{"name": "app"}`)
	ok, err := node.New().Detect(context.Background(), a, environment.New(nil))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestNoEngines(t *testing.T) {
	a := newApp(t, `{"name": "app"}`)
	names := setupPkgNames(t, a, environment.New(nil))
	require.Equal(t, []string{"nodejs"}, names)
}

func TestStarEngine(t *testing.T) {
	a := newApp(t, `{"engines": {"node": "*"}}`)
	names := setupPkgNames(t, a, environment.New(nil))
	require.Equal(t, []string{"nodejs"}, names)
}

func TestSimpleEngine(t *testing.T) {
	a := newApp(t, `{"engines": {"node": "14"}}`)
	names := setupPkgNames(t, a, environment.New(nil))
	require.Equal(t, []string{"nodejs-14_x"}, names)
}

func TestSimpleEngineX(t *testing.T) {
	a := newApp(t, `{"engines": {"node": "12.x"}}`)
	require.Equal(t, []string{"nodejs-12_x"}, setupPkgNames(t, a, environment.New(nil)))

	a2 := newApp(t, `{"engines": {"node": "14.X"}}`)
	require.Equal(t, []string{"nodejs-14_x"}, setupPkgNames(t, a2, environment.New(nil)))
}

func TestEngineRange(t *testing.T) {
	a := newApp(t, `{"engines": {"node": ">=14.10.3 <16"}}`)
	names := setupPkgNames(t, a, environment.New(nil))
	require.Equal(t, []string{"nodejs-14_x"}, names)
}

func TestVersionFromEnvironmentVariable(t *testing.T) {
	a := newApp(t, `{"name": "app"}`)
	env := environment.New(map[string]string{"NIXPACKS_NODE_VERSION": "14"})
	names := setupPkgNames(t, a, env)
	require.Equal(t, []string{"nodejs-14_x"}, names)
}

func TestEngineInvalidVersionDefaultsToLTS(t *testing.T) {
	a := newApp(t, `{"engines": {"node": "15"}}`)
	names := setupPkgNames(t, a, environment.New(nil))
	require.Equal(t, []string{"nodejs"}, names)
}

func TestPackageManagerDetectionAndOverrides(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(`{"engines": {"node": "14"}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "yarn.lock"), []byte(""), 0o644))
	a, err := app.New(root)
	require.NoError(t, err)

	s, err := node.New().Setup(context.Background(), a, environment.New(nil))
	require.NoError(t, err)
	require.Len(t, s.Pkgs, 2)
	require.Equal(t, "yarn", s.Pkgs[1].Name)
	require.Equal(t, "nodejs-14_x", s.Pkgs[1].Overrides["nodejs"])

	install, err := node.New().Install(context.Background(), a, environment.New(nil))
	require.NoError(t, err)
	require.Equal(t, "yarn install --frozen-lockfile", install.Cmd)
}

func TestBuildOnlyWhenScriptPresent(t *testing.T) {
	a := newApp(t, `{"scripts": {"build": "tsc"}}`)
	build, err := node.New().Build(context.Background(), a, environment.New(nil))
	require.NoError(t, err)
	require.Equal(t, "npm run build", build.Cmd)

	a2 := newApp(t, `{"name": "app"}`)
	build2, err := node.New().Build(context.Background(), a2, environment.New(nil))
	require.NoError(t, err)
	require.Nil(t, build2)
}

func TestStartPrefersScriptThenMainThenIndex(t *testing.T) {
	a := newApp(t, `{"scripts": {"start": "node server.js"}}`)
	start, err := node.New().Start(context.Background(), a, environment.New(nil))
	require.NoError(t, err)
	require.Equal(t, "npm run start", start.Cmd)

	a2 := newApp(t, `{"main": "server.js"}`)
	require.NoError(t, os.WriteFile(filepath.Join(a2.Root(), "server.js"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(a2.Root(), "index.js"), []byte(""), 0o644))
	start2, err := node.New().Start(context.Background(), a2, environment.New(nil))
	require.NoError(t, err)
	require.Equal(t, "node server.js", start2.Cmd)

	a3 := newApp(t, `{"name": "app"}`)
	require.NoError(t, os.WriteFile(filepath.Join(a3.Root(), "index.js"), []byte(""), 0o644))
	start3, err := node.New().Start(context.Background(), a3, environment.New(nil))
	require.NoError(t, err)
	require.Equal(t, "node index.js", start3.Cmd)
}
