package phase_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dublyo/buildplan/pkg/phase"
	"github.com/dublyo/buildplan/pkg/pkgref"
)

func TestSetupPreservesOrderAndDedups(t *testing.T) {
	s := phase.NewSetup(pkgref.New("nodejs")).
		AddPkgs(pkgref.New("yarn"), pkgref.New("nodejs")).
		AddLibraries("libuuid", "libGL").
		Dedup()

	require.Len(t, s.Pkgs, 2)
	require.Equal(t, "nodejs", s.Pkgs[0].Name)
	require.Equal(t, "yarn", s.Pkgs[1].Name)
	require.Equal(t, []string{"libuuid", "libGL"}, s.Libs)
}

func TestInstallBuildStartConstructors(t *testing.T) {
	install := phase.NewInstall("npm ci").AddCacheDirectories("/root/.npm")
	require.Equal(t, "npm ci", install.Cmd)
	require.Equal(t, []string{"/root/.npm"}, install.CacheDirectories)

	build := phase.NewBuild("npm run build")
	require.Equal(t, "npm run build", build.Cmd)

	start := phase.NewStart("node index.js").WithRunImage("debian:bookworm-slim")
	require.Equal(t, "node index.js", start.Cmd)
	require.Equal(t, "debian:bookworm-slim", start.RunImage)
}
