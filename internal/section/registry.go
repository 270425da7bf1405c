package section

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Loader decodes a section file. Each implementation handles one family of
// file extensions (markdown, JSON, YAML, TOML).
type Loader interface {
	// Extensions returns the file extensions this loader handles, with the leading dot.
	Extensions() []string

	// Load decodes content into sections. Malformed containers return an error;
	// the section text itself is never validated.
	Load(filename string, content []byte) ([]Section, error)
}

// Registry maps file extensions to loaders. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]Loader // extension -> loader
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		loaders: map[string]Loader{},
	}
}

// Register adds a loader for all of its extensions, replacing earlier ones.
func (r *Registry) Register(l Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range l.Extensions() {
		r.loaders[normalizeExtension(ext)] = l
	}
}

// Get returns the loader for an extension.
func (r *Registry) Get(ext string) (Loader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.loaders[normalizeExtension(ext)]
	return l, ok
}

// GetForFile returns the loader for a file name based on its extension.
func (r *Registry) GetForFile(filename string) (Loader, bool) {
	ext := filepath.Ext(filename)
	if ext == "" {
		return nil, false
	}
	return r.Get(ext)
}

// SupportedTypes returns the sorted type names (extensions without the dot).
func (r *Registry) SupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.loaders))
	for ext := range r.loaders {
		result = append(result, strings.TrimPrefix(ext, "."))
	}

	sort.Strings(result)
	return result
}

// ExtensionsForTypes maps type names to extensions. Types that share a loader
// pull in all of that loader's extensions, so "yaml" also yields ".yml".
func (r *Registry) ExtensionsForTypes(types []string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]struct{}{}
	extensions := make([]string, 0, len(types))
	for _, typeName := range types {
		l, ok := r.loaders[normalizeExtension(typeName)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupported, typeName)
		}
		for _, ext := range l.Extensions() {
			ext = normalizeExtension(ext)
			if _, dup := seen[ext]; dup {
				continue
			}
			seen[ext] = struct{}{}
			extensions = append(extensions, ext)
		}
	}
	return extensions, nil
}

// normalizeExtension lowercases ext and ensures a leading dot.
func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry the loader subpackages register with.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// RegisterLoader adds a loader to the default registry.
func RegisterLoader(l Loader) {
	defaultRegistry.Register(l)
}

// SupportedFileTypes returns the type names known to the default registry.
func SupportedFileTypes() []string {
	return defaultRegistry.SupportedTypes()
}

// ExtensionsForTypes maps type names using the default registry.
func ExtensionsForTypes(types []string) ([]string, error) {
	return defaultRegistry.ExtensionsForTypes(types)
}
