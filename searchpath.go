package typemod

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/golangsnmp/typemod/internal/types"
)

// PathEnv is the environment variable holding the unit search path.
// A value starting with "+" appends to the configured path, "-" prepends,
// anything else replaces it. Directories are separated by ":".
const PathEnv = "TYPEMOD_PATH"

// WithSystemPaths enables automatic discovery of unit search paths from
// the typemod config files, TYPEMOD_PATH and the default directories.
// Discovered directories are searched after any explicit source, and are
// enough on their own when no source is given.
func WithSystemPaths() LoadOption {
	return func(c *loadConfig) { c.systemPaths = true }
}

type pathOp int

const (
	pathReplace pathOp = iota
	pathAppend
	pathPrepend
)

// SystemPaths returns the discovered unit directories that exist, in
// search order.
func SystemPaths(logger *slog.Logger) []string {
	return discoverSystemPaths(types.Logger{L: logger})
}

// SystemSources returns a Dir source for every discovered unit directory.
func SystemSources(logger *slog.Logger) []Source {
	return discoverSystemSources(types.Logger{L: logger})
}

func discoverSystemSources(logger types.Logger) []Source {
	dirs := discoverSystemPaths(logger)
	var sources []Source
	for _, d := range dirs {
		if src, err := Dir(d); err == nil {
			sources = append(sources, src)
		}
	}
	logger.Log(slog.LevelDebug, "system paths discovered", slog.Int("dirs", len(sources)))
	return sources
}

// discoverSystemPaths returns unit directories from the config files and
// environment, deduplicated and filtered to directories that exist.
func discoverSystemPaths(logger types.Logger) []string {
	paths := defaultPaths()
	for _, cf := range configFiles() {
		paths = applyConfigFile(cf, paths, logger)
	}
	if v := os.Getenv(PathEnv); v != "" {
		paths = applyEnv(v, paths)
	}
	return filterExistingDirs(dedup(paths))
}

func defaultPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".typemod", "units"))
	}
	paths = append(paths,
		"/usr/share/typemod/units",
		"/usr/local/share/typemod/units",
	)
	return paths
}

func configFiles() []string {
	files := []string{"/etc/typemod.conf"}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, ".typemodrc"))
	}
	return files
}

// parseConfigLine parses a single config line for unitdirs directives.
// Supports both "unitdirs +/path" (prefix on value) and "+unitdirs /path"
// (prefix on directive).
func parseConfigLine(line string) (pathOp, []string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' {
		return 0, nil, false
	}

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, nil, false
	}

	directive := fields[0]
	value := fields[1]

	switch directive {
	case "unitdirs":
		if rest, ok := strings.CutPrefix(value, "+"); ok {
			return pathAppend, splitPaths(rest), true
		}
		if rest, ok := strings.CutPrefix(value, "-"); ok {
			return pathPrepend, splitPaths(rest), true
		}
		return pathReplace, splitPaths(value), true
	case "+unitdirs":
		return pathAppend, splitPaths(value), true
	case "-unitdirs":
		return pathPrepend, splitPaths(value), true
	default:
		return 0, nil, false
	}
}

func applyEnv(value string, current []string) []string {
	if rest, ok := strings.CutPrefix(value, "+"); ok {
		return applyOp(pathAppend, splitPaths(rest), current)
	}
	if rest, ok := strings.CutPrefix(value, "-"); ok {
		return applyOp(pathPrepend, splitPaths(rest), current)
	}
	return splitPaths(value)
}

func applyOp(op pathOp, dirs, current []string) []string {
	switch op {
	case pathAppend:
		return append(current, dirs...)
	case pathPrepend:
		return append(dirs, current...)
	default:
		return dirs
	}
}

// applyConfigFile folds the unitdirs directives of one config file into
// current. A missing file leaves current unchanged.
func applyConfigFile(path string, current []string, logger types.Logger) []string {
	f, err := os.Open(path)
	if err != nil {
		return current
	}
	defer f.Close() //nolint:errcheck // best-effort config file read

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		op, dirs, ok := parseConfigLine(scanner.Text())
		if !ok {
			continue
		}
		current = applyOp(op, dirs, current)
	}
	if err := scanner.Err(); err != nil {
		logger.Log(slog.LevelDebug, "error reading config file", slog.String("path", path), slog.Any("error", err))
	}
	return current
}

func splitPaths(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, p := range strings.Split(s, ":") {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func dedup(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	var result []string
	for _, p := range paths {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			result = append(result, p)
		}
	}
	return result
}

func filterExistingDirs(paths []string) []string {
	var result []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err == nil && info.IsDir() {
			result = append(result, p)
		}
	}
	return result
}
