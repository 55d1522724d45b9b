// Package app provides a read-only view over an application's source tree.
// Copyright (c) 2026 Dublyo. All rights reserved.
// Licensed under the MIT License.
package app

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"

	nperrors "github.com/dublyo/buildplan/internal/errors"
)

// ignoredDirs are dropped from FindFiles results. None of the providers
// need to see inside these. The glob walk itself still descends into them;
// only the matches under them are discarded.
var ignoredDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	"vendor":       {},
	"target":       {},
}

// App is an immutable, read-only view of an application's source directory.
// Every path it returns is relative to the root. App keeps no cached file
// list: IncludesFile, FindFiles and the read methods query the filesystem
// at the time of each call.
type App struct {
	root string
	fsys fs.FS
}

// New builds an App rooted at path. path must exist and be a directory.
func New(path string) (*App, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nperrors.ErrPathNotFound
		}
		return nil, nperrors.ErrAccessDenied
	}
	if !info.IsDir() {
		return nil, nperrors.ErrNotADirectory
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	return &App{root: abs, fsys: os.DirFS(abs)}, nil
}

// Root returns the absolute source root.
func (a *App) Root() string { return a.root }

// IncludesFile reports whether relpath exists and is a regular file.
func (a *App) IncludesFile(relpath string) bool {
	info, err := fs.Stat(a.fsys, toFSPath(relpath))
	return err == nil && !info.IsDir()
}

// IncludesDir reports whether relpath exists and is a directory.
func (a *App) IncludesDir(relpath string) bool {
	info, err := fs.Stat(a.fsys, toFSPath(relpath))
	return err == nil && info.IsDir()
}

// FindFiles returns the regular files matching glob, relative to the root,
// sorted lexicographically. glob supports "**" for recursive matching.
func (a *App) FindFiles(glob string) ([]string, error) {
	matches, err := doublestar.Glob(a.fsys, glob)
	if err != nil {
		return nil, nperrors.Parse(nperrors.ErrParseJSON, glob, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if isIgnored(m) {
			continue
		}
		info, err := fs.Stat(a.fsys, m)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}

// FindMatch reports whether any file matching glob contains a line matching
// re. File ordering does not affect the boolean result.
func (a *App) FindMatch(re *regexp.Regexp, glob string) (bool, error) {
	files, err := a.FindFiles(glob)
	if err != nil {
		return false, err
	}

	for _, f := range files {
		content, err := a.ReadFile(f)
		if err != nil {
			continue
		}
		if re.MatchString(content) {
			return true, nil
		}
	}
	return false, nil
}

// ReadFile reads relpath relative to the root and returns it as UTF-8 text.
func (a *App) ReadFile(relpath string) (string, error) {
	data, err := fs.ReadFile(a.fsys, toFSPath(relpath))
	if err != nil {
		return "", nperrors.IO("read", relpath, err)
	}
	if !utf8.Valid(data) {
		return "", nperrors.IO("read", relpath, errNotUTF8)
	}
	return string(data), nil
}

var errNotUTF8 = notUTF8Error{}

type notUTF8Error struct{}

func (notUTF8Error) Error() string { return "file is not valid UTF-8" }

// ReadJSON reads relpath and unmarshals it into a value of type T. Missing
// optional fields in the schema are permitted; a malformed document or an
// unreadable file is reported as a ParseError/IoError respectively.
func ReadJSON[T any](a *App, relpath string) (T, error) {
	var out T
	data, err := fs.ReadFile(a.fsys, toFSPath(relpath))
	if err != nil {
		return out, nperrors.IO("read", relpath, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, nperrors.Parse(nperrors.ErrParseJSON, relpath, err)
	}
	return out, nil
}

// ReadTOML reads relpath and unmarshals it into a value of type T.
func ReadTOML[T any](a *App, relpath string) (T, error) {
	var out T
	data, err := fs.ReadFile(a.fsys, toFSPath(relpath))
	if err != nil {
		return out, nperrors.IO("read", relpath, err)
	}
	if err := toml.Unmarshal(data, &out); err != nil {
		return out, nperrors.Parse(nperrors.ErrParseTOML, relpath, err)
	}
	return out, nil
}

// StripSourcePath returns the suffix of abs relative to the root.
func (a *App) StripSourcePath(abs string) (string, error) {
	rel, err := filepath.Rel(a.root, abs)
	if err != nil {
		return "", nperrors.ErrOutsideRoot
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", nperrors.ErrOutsideRoot
	}
	return filepath.ToSlash(rel), nil
}

func isIgnored(relpath string) bool {
	for _, part := range strings.Split(relpath, "/") {
		if _, ok := ignoredDirs[part]; ok {
			return true
		}
	}
	return false
}

// toFSPath adapts a caller-supplied relative path to the slash-separated
// form io/fs requires, mapping the empty path to "." (the root itself).
func toFSPath(relpath string) string {
	p := filepath.ToSlash(relpath)
	if p == "" {
		return "."
	}
	return p
}
