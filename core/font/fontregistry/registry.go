package fontregistry

import (
	"sort"
	"sync"

	"github.com/npillmayer/nameplate/core"
	"github.com/npillmayer/nameplate/core/font"
	"github.com/npillmayer/nameplate/core/font/sfntfont"
	"github.com/npillmayer/nameplate/core/font/svgfont"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/gofont/goregular"
)

// Registry is a type for holding glyph tables of loaded fonts.
type Registry struct {
	sync.Mutex
	tables map[string]*font.Table
}

var globalFontRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton to hold glyph tables.
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalFontRegistry = NewRegistry()
	})
	return globalFontRegistry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	fr := &Registry{
		tables: make(map[string]*font.Table),
	}
	return fr
}

// Parse reads font bytes into a glyph table. The container format is
// sniffed from the data: TrueType and OpenType fonts are converted with
// package sfntfont, everything else is taken to be an SVG font.
func Parse(data []byte) (*font.Table, error) {
	switch font.Sniff(data) {
	case font.SFNT:
		return sfntfont.Parse(data)
	case font.SVGFont:
		return svgfont.Parse(data)
	}
	return nil, core.ParseError("font description is empty")
}

// Load returns the glyph table for a font asset. If the asset has been
// loaded before, the cached table is returned and data is not looked at.
// Otherwise data is parsed and the resulting table stored under key.
// Parse failures are not cached.
func (fr *Registry) Load(key string, data []byte) (*font.Table, error) {
	if t, ok := fr.Table(key); ok {
		tracer().Debugf("registry found font %s", key)
		return t, nil
	}
	t, err := Parse(data)
	if err != nil {
		return nil, err
	}
	fr.StoreFont(key, t)
	return fr.mustTable(key), nil
}

// StoreFont pushes a table into the registry if it isn't contained yet.
//
// If key is already associated with a table, that table will not be overridden.
func (fr *Registry) StoreFont(key string, t *font.Table) {
	if t == nil {
		tracer().Errorf("registry cannot store null font")
		return
	}
	fr.Lock()
	defer fr.Unlock()
	if _, ok := fr.tables[key]; !ok {
		tracer().Debugf("registry stores font %s as %s", t.Name, key)
		fr.tables[key] = t
	}
}

// Table returns the table stored under key, if any.
func (fr *Registry) Table(key string) (*font.Table, bool) {
	fr.Lock()
	defer fr.Unlock()
	t, ok := fr.tables[key]
	return t, ok
}

func (fr *Registry) mustTable(key string) *font.Table {
	t, _ := fr.Table(key)
	return t
}

// TableOrFallback returns the table stored under key. If no such table
// exists, TableOrFallback returns the fallback font's table, together with
// an error message.
func (fr *Registry) TableOrFallback(key string) (*font.Table, error) {
	if t, ok := fr.Table(key); ok {
		return t, nil
	}
	tracer().Infof("registry does not contain font %s", key)
	return FallbackFont(), core.Error(core.EMISSING, "font %s not found in registry", key)
}

// Keys returns the keys of all stored tables, sorted.
func (fr *Registry) Keys() []string {
	fr.Lock()
	defer fr.Unlock()
	keys := make([]string, 0, len(fr.tables))
	for k := range fr.tables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LogFontList is a helper function to dump the list of known fonts in a
// registry to the trace-file (log-level Info).
func (fr *Registry) LogFontList() {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	tracer().Infof("--- registered fonts ---")
	for _, k := range fr.Keys() {
		tracer().Infof("font [%s] = %v", k, fr.mustTable(k))
	}
	tracer().Infof("------------------------")
	tracer().SetTraceLevel(level)
}

// --- Fallback font ---------------------------------------------------------

// FallbackFont returns a font to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFont() *font.Table {
	fallbackFontLoading.Do(func() {
		var err error
		fallbackFont, err = sfntfont.Parse(goregular.TTF)
		if err != nil {
			panic("cannot load default font") // this cannot happen
		}
	})
	return fallbackFont
}

var fallbackFontLoading sync.Once

var fallbackFont *font.Table
