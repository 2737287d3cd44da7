// Package highlight classifies source code into semantic highlight classes
// (keyword, string, comment, ...) using chroma lexers and styles.
package highlight

import (
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Catalog bundles the lexer registry and the selected style. Once built it
// is read-only, so any number of concurrent renders can share it without
// locking.
type Catalog struct {
	style  *chroma.Style
	lexers sync.Map // token -> chroma.Lexer
}

var (
	catalogOnce sync.Once
	catalog     *Catalog

	themeMu         sync.Mutex
	themePreference = []string{"dracula", "monokai", "github"}
)

// SetThemePreference replaces the style preference order used when the
// shared catalog is built. Calls made after the first SharedCatalog call
// have no effect.
func SetThemePreference(names ...string) {
	themeMu.Lock()
	defer themeMu.Unlock()
	themePreference = append([]string(nil), names...)
}

// SharedCatalog returns the process-wide catalog, building it on first
// use. Later calls return the same instance.
func SharedCatalog() *Catalog {
	catalogOnce.Do(func() {
		themeMu.Lock()
		pref := themePreference
		themeMu.Unlock()
		catalog = NewCatalog(pref...)
	})
	return catalog
}

// NewCatalog builds a catalog around the first style found in the given
// preference order, falling back to the first registered style, then to
// the chroma fallback style.
func NewCatalog(preference ...string) *Catalog {
	return &Catalog{style: pickStyle(preference)}
}

func pickStyle(preference []string) *chroma.Style {
	for _, name := range preference {
		if s, ok := styles.Registry[name]; ok {
			return s
		}
	}
	if names := styles.Names(); len(names) > 0 {
		return styles.Get(names[0])
	}
	return styles.Fallback
}

// Style returns the selected highlight style.
func (c *Catalog) Style() *chroma.Style { return c.style }

// Lexer returns the coalesced lexer registered for token, falling back to
// the plain-text lexer when nothing matches. Lexers are cached per token.
func (c *Catalog) Lexer(token string) chroma.Lexer {
	if v, ok := c.lexers.Load(token); ok {
		return v.(chroma.Lexer)
	}
	lexer := lexers.Get(token)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	v, _ := c.lexers.LoadOrStore(token, lexer)
	return v.(chroma.Lexer)
}

// StyleNames lists every registered style name, sorted.
func StyleNames() []string { return styles.Names() }

// LanguageNames lists every registered lexer name, sorted.
func LanguageNames() []string { return lexers.Names(false) }
