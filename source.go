package typemod

import (
	"errors"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// DefaultExtensions are the file extensions recognized as declaration files.
var DefaultExtensions = []string{".tmod", ".yaml", ".yml"}

// FindResult is a located unit file.
type FindResult struct {
	Reader io.ReadCloser
	Path   string // for diagnostics
}

// Source finds unit files by unit name. A file's unit name is its base
// name without extension.
type Source interface {
	// Find locates a unit file by name.
	// Returns fs.ErrNotExist if not found.
	Find(name string) (FindResult, error)

	// ListUnits returns the names of all units known to this source, sorted.
	ListUnits() ([]string, error)
}

// SourceOption customizes Dir, DirTree and FS sources.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	extensions []string
}

func defaultSourceConfig() sourceConfig {
	return sourceConfig{
		extensions: DefaultExtensions,
	}
}

// WithExtensions replaces the recognized declaration file extensions.
// Matching is case-insensitive.
func WithExtensions(exts ...string) SourceOption {
	return func(c *sourceConfig) {
		c.extensions = exts
	}
}

type dirSource struct {
	path   string
	config sourceConfig
}

// Dir returns a Source over the unit files directly inside path.
// Subdirectories are ignored and nothing is read until Find is called.
func Dir(path string, opts ...SourceOption) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}
	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &dirSource{path: path, config: cfg}, nil
}

// MustDir calls Dir and panics if it fails.
func MustDir(path string, opts ...SourceOption) Source {
	src, err := Dir(path, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

func (s *dirSource) Find(name string) (FindResult, error) {
	for _, ext := range s.config.extensions {
		fullPath := filepath.Join(s.path, name+ext)
		f, err := os.Open(fullPath)
		if err == nil {
			return FindResult{Reader: f, Path: fullPath}, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return FindResult{Path: fullPath}, err
		}
	}
	return FindResult{}, fs.ErrNotExist
}

func (s *dirSource) ListUnits() ([]string, error) {
	extSet := makeExtensionSet(s.config.extensions)
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !hasValidExtension(entry.Name(), extSet) {
			continue
		}
		names = append(names, unitNameFromPath(entry.Name()))
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

type treeSource struct {
	index map[string]string // unit name -> file path
}

// DirTree returns a Source over every unit file below root. The tree is
// walked once, up front; when two files share a unit name the first in
// lexical walk order is kept.
func DirTree(root string, opts ...SourceOption) (Source, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: root, Err: os.ErrInvalid}
	}

	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	index, err := buildIndex(os.DirFS(root), cfg.extensions)
	if err != nil {
		return nil, err
	}
	for name, rel := range index {
		index[name] = filepath.Join(root, filepath.FromSlash(rel))
	}
	return &treeSource{index: index}, nil
}

// MustDirTree calls DirTree and panics if it fails.
func MustDirTree(root string, opts ...SourceOption) Source {
	src, err := DirTree(root, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

func (s *treeSource) Find(name string) (FindResult, error) {
	path, ok := s.index[name]
	if !ok {
		return FindResult{}, fs.ErrNotExist
	}
	f, err := os.Open(path)
	if err != nil {
		return FindResult{Path: path}, err
	}
	return FindResult{Reader: f, Path: path}, nil
}

func (s *treeSource) ListUnits() ([]string, error) {
	return sortedKeys(s.index), nil
}

type fsSource struct {
	name   string
	fsys   fs.FS
	config sourceConfig

	once  sync.Once
	index map[string]string
	err   error
}

// FS returns a Source over an fs.FS such as an embed.FS. Reported paths
// take the form "name:path". The filesystem is indexed on first use.
func FS(name string, fsys fs.FS, opts ...SourceOption) Source {
	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &fsSource{
		name:   name,
		fsys:   fsys,
		config: cfg,
	}
}

func (s *fsSource) load() error {
	s.once.Do(func() {
		s.index, s.err = buildIndex(s.fsys, s.config.extensions)
	})
	return s.err
}

func (s *fsSource) Find(name string) (FindResult, error) {
	if err := s.load(); err != nil {
		return FindResult{}, err
	}
	path, ok := s.index[name]
	if !ok {
		return FindResult{}, fs.ErrNotExist
	}
	f, err := s.fsys.Open(path)
	if err != nil {
		return FindResult{Path: s.name + ":" + path}, err
	}
	return FindResult{Reader: f, Path: s.name + ":" + path}, nil
}

func (s *fsSource) ListUnits() ([]string, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return sortedKeys(s.index), nil
}

type multiSource struct {
	sources []Source
}

// Multi returns a Source that consults sources in order. Find returns the
// first hit; ListUnits merges and deduplicates.
func Multi(sources ...Source) Source {
	return &multiSource{sources: sources}
}

func (s *multiSource) Find(name string) (FindResult, error) {
	for _, src := range s.sources {
		r, err := src.Find(name)
		if err == nil {
			return r, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return r, err
		}
	}
	return FindResult{}, fs.ErrNotExist
}

func (s *multiSource) ListUnits() ([]string, error) {
	var names []string
	for _, src := range s.sources {
		n, err := src.ListUnits()
		if err != nil {
			return nil, err
		}
		names = append(names, n...)
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

func buildIndex(fsys fs.FS, extensions []string) (map[string]string, error) {
	extSet := makeExtensionSet(extensions)
	index := make(map[string]string)

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !hasValidExtension(path, extSet) {
			return nil
		}
		name := unitNameFromPath(path)
		if _, exists := index[name]; !exists {
			index[name] = path
		}
		return nil
	})
	return index, err
}

func makeExtensionSet(extensions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

func hasValidExtension(path string, extSet map[string]struct{}) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := extSet[ext]
	return ok
}

func unitNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
