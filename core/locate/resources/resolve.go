package resources

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/npillmayer/nameplate/core"
	"github.com/npillmayer/nameplate/core/font"
	"github.com/npillmayer/nameplate/core/font/fontregistry"
)

// Kind classifies assets.
type Kind int

// Kinds of assets
const (
	UnknownAsset Kind = iota
	FontAsset
	DrawingAsset
)

func (k Kind) String() string {
	switch k {
	case FontAsset:
		return "font"
	case DrawingAsset:
		return "drawing"
	}
	return "asset"
}

// KindOf guesses the kind of an asset from its path. TrueType and OpenType
// files are fonts, SVG files are fonts if they live below a folder named
// after fonts, drawings otherwise.
func KindOf(p string) Kind {
	switch strings.ToLower(path.Ext(p)) {
	case ".ttf", ".otf", ".ttc":
		return FontAsset
	case ".svg":
		dir := strings.ToLower(path.Dir(p))
		if strings.Contains(dir, "font") {
			return FontAsset
		}
		return DrawingAsset
	}
	return UnknownAsset
}

// NotFound returns an application error for a missing resource.
func NotFound(res string, kind Kind) error {
	e := fmt.Errorf("resource missing: %v", res)
	var s string
	switch kind {
	case FontAsset:
		s = fmt.Sprintf("font not found: %s", res)
	case DrawingAsset:
		s = fmt.Sprintf("drawing not found: %s", res)
	default:
		s = fmt.Sprintf("resource not found: %s", res)
	}
	return core.WrapError(e, core.EMISSING, s)
}

// IsNotFound is a predicate to check if err signals a missing resource.
func IsNotFound(err error) bool {
	return core.Code(err) == core.EMISSING || errors.Is(err, fs.ErrNotExist)
}

// Resolver is the interface for asset sources: given a path, give me bytes.
type Resolver interface {
	Resolve(ctx context.Context, path string) ([]byte, error)
}

// ResolverFunc is an adapter to use ordinary functions as resolvers.
type ResolverFunc func(ctx context.Context, path string) ([]byte, error)

// Resolve calls f(ctx, path).
func (f ResolverFunc) Resolve(ctx context.Context, path string) ([]byte, error) {
	return f(ctx, path)
}

// cleanPath normalizes an asset path to a slash-separated relative path
// which cannot escape its root.
func cleanPath(p string) (string, bool) {
	p = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(p, "\\", "/")), "/")
	if p == "" || !fs.ValidPath(p) {
		return "", false
	}
	return p, true
}

// --- File systems ----------------------------------------------------------

//go:embed packaged
var packaged embed.FS

// FSResolver resolves assets from a file system.
type FSResolver struct {
	name string
	fsys fs.FS
}

// FS creates a resolver for assets in a file system. name is used for
// tracing only.
func FS(name string, fsys fs.FS) *FSResolver {
	return &FSResolver{name: name, fsys: fsys}
}

// Dir creates a resolver for assets located below a local directory.
func Dir(root string) *FSResolver {
	return FS(root, os.DirFS(root))
}

// Packaged creates a resolver for the sample assets which are packaged
// with the application, i.e. folders 'fonts' and 'drawings'.
func Packaged() *FSResolver {
	sub, err := fs.Sub(packaged, "packaged")
	if err != nil {
		panic(err) // cannot happen, folder is embedded
	}
	return FS("packaged", sub)
}

// Resolve reads the asset at p.
func (r *FSResolver) Resolve(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, ok := cleanPath(p)
	if !ok {
		return nil, core.Error(core.EINVALID, "invalid asset path: %q", p)
	}
	data, err := fs.ReadFile(r.fsys, clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NotFound(p, KindOf(clean))
		}
		return nil, core.WrapError(err, core.EINVALID, "cannot read asset %s", p)
	}
	tracer().Debugf("resolved %s from %s (%d bytes)", clean, r.name, len(data))
	return data, nil
}

// Catalog indexes all assets of the file system.
func (r *FSResolver) Catalog() (*Catalog, error) {
	return CatalogFromFS(r.fsys)
}

func (r *FSResolver) String() string {
	return "fs:" + r.name
}

// --- Chain -----------------------------------------------------------------

// Chain is a sequence of resolvers, tried in order. The first successful
// resolver wins.
type Chain []Resolver

// Resolve asks every resolver of the chain for p, until one succeeds.
// If no resolver succeeds, the error of the last resolver which did not
// report a missing asset is returned, or a not-found error otherwise.
func (c Chain) Resolve(ctx context.Context, p string) ([]byte, error) {
	var lasterr error
	for _, r := range c {
		data, err := r.Resolve(ctx, p)
		if err == nil {
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		tracer().Debugf("%v cannot resolve %s: %v", r, p, err)
		if !IsNotFound(err) {
			lasterr = err
		}
	}
	if lasterr != nil {
		return nil, lasterr
	}
	return nil, NotFound(p, KindOf(p))
}

// --- Promises --------------------------------------------------------------

// AssetPromise is the handle for an asset being fetched.
type AssetPromise interface {
	Path() string
	Await(ctx context.Context) ([]byte, error)
}

type assetLoader struct {
	path string
	done chan struct{}
	data []byte
	err  error
}

func (loader *assetLoader) Path() string {
	return loader.path
}

// Await blocks until the asset is loaded or ctx is done. It may be called
// more than once.
func (loader *assetLoader) Await(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-loader.done:
		return loader.data, loader.err
	}
}

// ResolveAsset starts fetching an asset from r in the background and
// returns a promise for it.
func ResolveAsset(ctx context.Context, r Resolver, p string, kind Kind) AssetPromise {
	loader := &assetLoader{path: p, done: make(chan struct{})}
	go func() {
		defer close(loader.done)
		if p == "" {
			loader.err = NotFound("(no path)", kind)
			return
		}
		loader.data, loader.err = r.Resolve(ctx, p)
		if loader.err != nil && IsNotFound(loader.err) && core.Code(loader.err) != core.EMISSING {
			loader.err = NotFound(p, kind)
		}
	}()
	return loader
}

// GlyphTablePromise is the handle for a font being fetched and parsed.
type GlyphTablePromise interface {
	Path() string
	Await(ctx context.Context) (*font.Table, error)
}

type fontLoader struct {
	path  string
	done  chan struct{}
	table *font.Table
	err   error
}

func (loader *fontLoader) Path() string {
	return loader.path
}

func (loader *fontLoader) Await(ctx context.Context) (*font.Table, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-loader.done:
		return loader.table, loader.err
	}
}

// ResolveGlyphTable resolves a font asset to a glyph table. If the registry
// already holds a table for p, it is used without fetching the asset again.
// Otherwise the asset is fetched from r, parsed and stored in the registry.
func ResolveGlyphTable(ctx context.Context, r Resolver, reg *fontregistry.Registry,
	p string) GlyphTablePromise {
	//
	loader := &fontLoader{path: p, done: make(chan struct{})}
	go func() {
		defer close(loader.done)
		if t, ok := reg.Table(p); ok {
			tracer().Debugf("font %s already loaded", p)
			loader.table = t
			return
		}
		data, err := ResolveAsset(ctx, r, p, FontAsset).Await(ctx)
		if err != nil {
			loader.err = err
			return
		}
		loader.table, loader.err = reg.Load(p, data)
	}()
	return loader
}
