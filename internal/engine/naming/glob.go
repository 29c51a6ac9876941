package naming

import (
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// globCache memoizes compiled name patterns. It is the only mutable state of a
// Resolver and is safe for concurrent use.
type globCache struct {
	compiled sync.Map // pattern -> glob.Glob (nil when the pattern is invalid)
}

// match reports whether name matches pattern in gobwas/glob syntax: `*` and
// `?` match any run of characters and any single character, `[a-z]` and
// `[!a-z]` match character classes, and `{a,b}` matches either alternative
// (unlike fnmatch, where braces are literal). Namespace separators in the
// pattern are literal, so `App\*Factory` works as written. Invalid patterns
// match nothing.
func (c *globCache) match(pattern, name string) bool {
	if g, ok := c.compiled.Load(pattern); ok {
		return g != nil && g.(glob.Glob).Match(name)
	}

	g, err := glob.Compile(strings.ReplaceAll(pattern, `\`, `\\`))
	if err != nil {
		c.compiled.Store(pattern, nil)
		return false
	}
	c.compiled.Store(pattern, g)
	return g.Match(name)
}
