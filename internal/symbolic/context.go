package symbolic

import (
	"regexp"
	"sort"
	"sync"
)

// builtinFuncs are the function names the parser recognizes. sqrt parses
// into a half power rather than a Call node.
var builtinFuncs = map[string]struct{}{
	"sin": {}, "cos": {}, "tan": {},
	"asin": {}, "acos": {}, "atan": {},
	"sinh": {}, "cosh": {}, "tanh": {},
	"exp": {}, "log": {}, "ln": {}, "sqrt": {}, "abs": {},
}

// IsBuiltinFunc reports whether name is a recognized function name.
func IsBuiltinFunc(name string) bool {
	_, ok := builtinFuncs[name]
	return ok
}

// Context is a per-engine symbol registry. Identifiers are registered
// before parsing so multi-letter names stay whole, and equal names resolve
// to one identity within the engine. A Context is safe for concurrent use.
type Context struct {
	mu   sync.RWMutex
	syms map[string]Sym
}

// NewContext creates an empty symbol registry.
func NewContext() *Context {
	return &Context{syms: make(map[string]Sym)}
}

// Symbol returns the registered symbol for name, registering it on first use.
func (c *Context) Symbol(name string) Sym {
	c.mu.RLock()
	s, ok := c.syms[name]
	c.mu.RUnlock()
	if ok {
		return s
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok = c.syms[name]; ok {
		return s
	}
	s = Sym{Name: name}
	c.syms[name] = s

	return s
}

// Register pre-registers identifier names ahead of parsing.
func (c *Context) Register(names ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range names {
		if _, ok := c.syms[name]; !ok {
			c.syms[name] = Sym{Name: name}
		}
	}
}

// Names returns the sorted registered symbol names.
func (c *Context) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.syms))
	for name := range c.syms {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

var identPattern = regexp.MustCompile(`[A-Za-z_]\w*`)

// ScanIdentifiers extracts the distinct identifiers from algebraic text,
// excluding function names and pi. This is also the degraded path used when
// an equation fails to parse.
func ScanIdentifiers(s string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, m := range identPattern.FindAllString(s, -1) {
		if IsBuiltinFunc(m) || m == "pi" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	sort.Strings(out)

	return out
}
