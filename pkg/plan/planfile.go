package plan

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	nperrors "github.com/dublyo/buildplan/internal/errors"
)

// Load reads a BuildPlan from path, dispatching on its extension. Files
// without a recognized extension are parsed as JSON.
func Load(path string) (*BuildPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nperrors.IO("read plan file", path, err)
	}

	p := New()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, p); err != nil {
			return nil, nperrors.Parse(nperrors.ErrPlanFileInvalid, path, err)
		}
	default:
		if err := json.Unmarshal(data, p); err != nil {
			return nil, nperrors.Parse(nperrors.ErrPlanFileInvalid, path, err)
		}
	}
	return p, nil
}

// Save writes p to path as indented JSON, or YAML when the path ends in
// .yaml/.yml.
func Save(p *BuildPlan, path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(p)
	default:
		data, err = json.MarshalIndent(p, "", "  ")
	}
	if err != nil {
		return nperrors.Parse(nperrors.ErrPlanFileInvalid, path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nperrors.IO("write plan file", path, err)
	}
	return nil
}

// Marshal renders p as indented JSON, the default output format of `plan`.
func Marshal(p *BuildPlan) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, nperrors.Parse(nperrors.ErrPlanFileInvalid, "<memory>", err)
	}
	return data, nil
}
