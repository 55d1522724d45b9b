package rust_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dublyo/buildplan/pkg/app"
	"github.com/dublyo/buildplan/pkg/environment"
	"github.com/dublyo/buildplan/providers/rust"
)

func writeFile(t *testing.T, root, relpath, content string) {
	t.Helper()
	full := filepath.Join(root, relpath)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestDetectByCargoToml(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Cargo.toml", "[package]\nname = \"demo\"\n")
	a, err := app.New(root)
	require.NoError(t, err)

	ok, err := rust.New().Detect(context.Background(), a, environment.New(nil))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestStartUsesPackageName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Cargo.toml", "[package]\nname = \"demo-server\"\nedition = \"2021\"\n\n[dependencies]\naxum = \"0.7\"\n")
	a, err := app.New(root)
	require.NoError(t, err)

	start, err := rust.New().Start(context.Background(), a, environment.New(nil))
	require.NoError(t, err)
	require.Equal(t, "./target/release/demo-server", start.Cmd)

	vars, err := rust.New().EnvironmentVariables(context.Background(), a, environment.New(nil))
	require.NoError(t, err)
	require.Equal(t, "axum", vars["RUST_FRAMEWORK"])
}
