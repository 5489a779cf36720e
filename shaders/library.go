package shaders

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/gogpu/prim2d"
	"github.com/gogpu/prim2d/internal/cache"
)

//go:embed *.wgsl
var embedded embed.FS

var (
	// ErrNotFound is returned for a source name the library does not know.
	ErrNotFound = errors.New("shaders: source not found")

	// ErrIncludeCycle is returned when sources include each other.
	ErrIncludeCycle = errors.New("shaders: include cycle")

	// ErrBadDirective is returned for a malformed #include line.
	ErrBadDirective = errors.New("shaders: malformed #include directive")
)

const includeDirective = "#include"

// compiledLimit bounds the compiled outputs a library keeps.
const compiledLimit = 64

// Library is a registry of named WGSL sources with include resolution.
// It is safe for concurrent use.
type Library struct {
	mu       sync.RWMutex
	sources  map[string]string
	resolved map[string]string
	compiled *cache.Cache[compileKey, Output]
	gen      uint64 // bumped whenever sources change
}

// NewLibrary returns a library preloaded with the embedded program sources.
func NewLibrary() *Library {
	l := newLibrary(nil)
	if err := l.LoadFS(embedded, "."); err != nil {
		// The embedded tree is fixed at build time.
		panic(err)
	}
	return l
}

// newLibrary returns a library holding a copy of sources and nothing else.
func newLibrary(sources map[string]string) *Library {
	l := &Library{
		sources:  make(map[string]string, len(sources)),
		resolved: make(map[string]string),
		compiled: cache.New[compileKey, Output](compiledLimit),
	}
	for name, src := range sources {
		l.sources[name] = src
	}
	return l
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
)

// Default returns the shared library of embedded sources.
func Default() *Library {
	defaultOnce.Do(func() { defaultLib = NewLibrary() })
	return defaultLib
}

// Register adds or replaces a source. Cached resolutions are dropped.
func (l *Library) Register(name, source string) {
	l.mu.Lock()
	l.sources[name] = source
	l.bump()
	l.mu.Unlock()
	l.compiled.Clear()
}

// LoadFS registers every *.wgsl file in dir of fsys under its base name,
// replacing existing sources of the same name.
func (l *Library) LoadFS(fsys fs.FS, dir string) error {
	matches, err := fs.Glob(fsys, path.Join(dir, "*.wgsl"))
	if err != nil {
		return fmt.Errorf("shaders: glob %s: %w", dir, err)
	}
	loaded := make(map[string]string, len(matches))
	for _, m := range matches {
		data, err := fs.ReadFile(fsys, m)
		if err != nil {
			return fmt.Errorf("shaders: read %s: %w", m, err)
		}
		loaded[path.Base(m)] = string(data)
	}

	l.mu.Lock()
	for name, src := range loaded {
		l.sources[name] = src
	}
	l.bump()
	l.mu.Unlock()
	l.compiled.Clear()
	prim2d.Logger().Debug("shaders: loaded sources", "dir", dir, "count", len(loaded))
	return nil
}

// Invalidate drops every cached resolution. The next Source call
// re-resolves includes against the current sources.
func (l *Library) Invalidate() {
	l.mu.Lock()
	l.bump()
	l.mu.Unlock()
	l.compiled.Clear()
}

// bump drops resolutions and starts a new source generation. Caller must
// hold l.mu and clear l.compiled only after releasing it: Compile holds the
// cache lock while it reads sources.
func (l *Library) bump() {
	clear(l.resolved)
	l.gen++
}

// Names returns the registered source names, sorted.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.sources))
	for name := range l.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Raw returns a source as registered, without include resolution.
func (l *Library) Raw(name string) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	src, ok := l.sources[name]
	if !ok {
		return "", fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return src, nil
}

// Source returns name with every #include expanded. An included file is
// expanded at most once; later includes of the same file are dropped.
func (l *Library) Source(name string) (string, error) {
	l.mu.RLock()
	src, ok := l.resolved[name]
	l.mu.RUnlock()
	if ok {
		return src, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if src, ok := l.resolved[name]; ok {
		return src, nil
	}
	r := resolver{sources: l.sources, seen: make(map[string]bool)}
	var b strings.Builder
	if err := r.expand(&b, name, nil); err != nil {
		return "", err
	}
	src = b.String()
	l.resolved[name] = src
	prim2d.Logger().Debug("shaders: resolved source", "name", name, "bytes", len(src))
	return src, nil
}

type resolver struct {
	sources map[string]string
	seen    map[string]bool
}

func (r *resolver) expand(b *strings.Builder, name string, stack []string) error {
	if err := checkCycle(stack, name); err != nil {
		return err
	}
	src, ok := r.sources[name]
	if !ok {
		if len(stack) > 0 {
			return fmt.Errorf("%q included from %q: %w", name, stack[len(stack)-1], ErrNotFound)
		}
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	r.seen[name] = true
	stack = append(stack, name)

	for lineNo, line := range strings.SplitAfter(src, "\n") {
		inc, ok, err := parseInclude(line)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", name, lineNo+1, err)
		}
		if !ok {
			b.WriteString(line)
			continue
		}
		if r.seen[inc] {
			if err := checkCycle(stack, inc); err != nil {
				return err
			}
			continue
		}
		if err := r.expand(b, inc, stack); err != nil {
			return err
		}
		if !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
	}
	return nil
}

func checkCycle(stack []string, name string) error {
	for _, s := range stack {
		if s == name {
			return fmt.Errorf("%s -> %s: %w", strings.Join(stack, " -> "), name, ErrIncludeCycle)
		}
	}
	return nil
}

// parseInclude recognizes `#include <name>` and `#include "name"`.
func parseInclude(line string) (string, bool, error) {
	t := strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(t, includeDirective)
	if !ok {
		return "", false, nil
	}
	rest = strings.TrimSpace(rest)
	if len(rest) < 3 {
		return "", false, fmt.Errorf("%q: %w", t, ErrBadDirective)
	}
	open, last := rest[0], rest[len(rest)-1]
	if !(open == '<' && last == '>') && !(open == '"' && last == '"') {
		return "", false, fmt.Errorf("%q: %w", t, ErrBadDirective)
	}
	return rest[1 : len(rest)-1], true, nil
}
