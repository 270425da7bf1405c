// Package scanner finds section files in a directory based on their extensions.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/leonardomso/lessonblocks/internal/section"
)

// FindFiles walks a directory and returns all files matching the given extensions.
// Extensions should include the leading dot (e.g., ".md", ".json").
// It skips hidden directories (starting with .) like .git. When root is a
// regular file it is returned as is, provided its extension matches.
func FindFiles(root string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		return nil, nil
	}

	// Normalize extensions to lowercase
	normalizedExts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		normalizedExts[strings.ToLower(ext)] = true
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if normalizedExts[strings.ToLower(filepath.Ext(root))] {
			return []string{root}, nil
		}
		return nil, nil
	}

	var files []string

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip hidden directories (like .git, .github, etc.)
		if d.IsDir() && strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}

		if !d.IsDir() {
			ext := strings.ToLower(filepath.Ext(d.Name()))
			if normalizedExts[ext] {
				files = append(files, path)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// FindFilesByTypes walks a directory and returns all files matching the given type names.
// Type names are without the leading dot (e.g., "md", "json", "yaml") and
// expand to every extension their loader handles, so "yaml" also finds .yml.
func FindFilesByTypes(root string, types []string) ([]string, error) {
	return findFilesByTypes(nil, root, types)
}

func findFilesByTypes(reg *section.Registry, root string, types []string) ([]string, error) {
	if len(types) == 0 {
		return nil, nil
	}

	var (
		extensions []string
		err        error
	)
	if reg != nil {
		extensions, err = reg.ExtensionsForTypes(types)
	} else {
		extensions, err = section.ExtensionsForTypes(types)
	}
	if err != nil {
		return nil, err
	}

	return FindFiles(root, extensions)
}

// ScanOptions holds options for scanning files with filtering.
type ScanOptions struct {
	// Root is the directory (or single file) to scan.
	Root string

	// Types are the file types to include (e.g., "md", "json", "yaml").
	// Empty means every type the registry supports.
	Types []string

	// Include patterns (glob) - if set, only matching files are included.
	Include []string

	// Exclude patterns (glob) - matching files are excluded.
	Exclude []string

	// Registry resolves types to extensions. Nil uses the default section registry.
	Registry *section.Registry
}

// FindFilesWithOptions scans for files with include/exclude filtering.
func FindFilesWithOptions(opts ScanOptions) ([]string, error) {
	types := opts.Types
	if len(types) == 0 {
		if opts.Registry != nil {
			types = opts.Registry.SupportedTypes()
		} else {
			types = section.SupportedFileTypes()
		}
	}

	files, err := findFilesByTypes(opts.Registry, opts.Root, types)
	if err != nil {
		return nil, err
	}

	if len(opts.Include) > 0 {
		files, err = filterByGlobPatterns(files, opts.Root, opts.Include, true)
		if err != nil {
			return nil, err
		}
	}

	if len(opts.Exclude) > 0 {
		files, err = filterByGlobPatterns(files, opts.Root, opts.Exclude, false)
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// CompilePatterns compiles glob patterns with '/' as the path separator,
// so "*" stays inside one directory and "**" crosses directories.
func CompilePatterns(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", p, err)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

// filterByGlobPatterns filters files by glob patterns.
// If include=true, keeps only files matching any pattern.
// If include=false, removes files matching any pattern.
func filterByGlobPatterns(files []string, root string, patterns []string, include bool) ([]string, error) {
	if len(patterns) == 0 {
		return files, nil
	}

	compiled, err := CompilePatterns(patterns)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(files))
	for _, f := range files {
		// Match against the path relative to root, with forward slashes
		relPath, err := filepath.Rel(root, f)
		if err != nil || relPath == "." {
			relPath = filepath.Base(f)
		}
		relPath = filepath.ToSlash(relPath)

		if MatchesAny(relPath, compiled) == include {
			result = append(result, f)
		}
	}

	return result, nil
}

// MatchesAny checks if a path matches any of the compiled glob patterns.
func MatchesAny(path string, patterns []glob.Glob) bool {
	for _, g := range patterns {
		if g.Match(path) {
			return true
		}
	}
	return false
}
