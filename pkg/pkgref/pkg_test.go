package pkgref_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dublyo/buildplan/pkg/pkgref"
)

func TestSetOverrideIsNonDestructive(t *testing.T) {
	base := pkgref.New("nodePackages.pnpm")
	overridden := base.SetOverride("nodejs", "nodejs-18_x")

	require.Empty(t, base.Overrides)
	require.Equal(t, "nodejs-18_x", overridden.Overrides["nodejs"])

	again := overridden.SetOverride("nodejs", "nodejs-20_x")
	require.Equal(t, "nodejs-18_x", overridden.Overrides["nodejs"], "original override map must not mutate")
	require.Equal(t, "nodejs-20_x", again.Overrides["nodejs"])
}

func TestEqual(t *testing.T) {
	a := pkgref.New("yarn").SetOverride("nodejs", "nodejs-18_x")
	b := pkgref.New("yarn").SetOverride("nodejs", "nodejs-18_x")
	c := pkgref.New("yarn")

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestStringCanonicalForm(t *testing.T) {
	require.Equal(t, "nodejs", pkgref.New("nodejs").String())

	a := pkgref.New("yarn").SetOverride("nodejs", "nodejs-18_x").SetOverride("z", "1")
	require.Equal(t, "yarn{nodejs=nodejs-18_x,z=1}", a.String())
}

func TestDedup(t *testing.T) {
	pkgs := []pkgref.Pkg{
		pkgref.New("nodejs"),
		pkgref.New("yarn"),
		pkgref.New("nodejs"),
		pkgref.New("yarn").SetOverride("nodejs", "nodejs-18_x"),
	}

	deduped := pkgref.Dedup(pkgs)
	require.Len(t, deduped, 3)
	require.Equal(t, "nodejs", deduped[0].Name)
	require.Equal(t, "yarn", deduped[1].Name)
	require.Equal(t, "yarn{nodejs=nodejs-18_x}", deduped[2].String())
}
