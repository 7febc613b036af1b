package resources

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/npillmayer/nameplate/core"
	"github.com/npillmayer/nameplate/core/font/fontregistry"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackagedAssets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.resources")
	defer teardown()
	//
	ctx := context.Background()
	data, err := Packaged().Resolve(ctx, "fonts/plate-sans.svg")
	require.NoError(t, err)
	assert.Contains(t, string(data), "<font ")
	_, err = Packaged().Resolve(ctx, "/drawings/laurel-frame.svg")
	assert.NoError(t, err, "leading slash should be ignored")
	_, err = Packaged().Resolve(ctx, "drawings/none.svg")
	assert.True(t, IsNotFound(err))
	assert.Equal(t, core.EMISSING, core.Code(err))
}

func TestDirCannotEscape(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.resources")
	defer teardown()
	//
	root := t.TempDir()
	sub := filepath.Join(root, "assets")
	require.NoError(t, os.MkdirAll(sub, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.svg"), []byte("<svg/>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.svg"), []byte("<svg/>"), 0644))
	r := Dir(sub)
	data, err := r.Resolve(context.Background(), "a.svg")
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))
	_, err = r.Resolve(context.Background(), "../secret.svg")
	assert.Error(t, err)
	_, err = r.Resolve(context.Background(), "")
	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.resources")
	defer teardown()
	//
	var calls int32
	counting := ResolverFunc(func(ctx context.Context, p string) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("remote:" + p), nil
	})
	c := Chain{Packaged(), counting}
	data, err := c.Resolve(context.Background(), "drawings/plain-border.svg")
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	data, err = c.Resolve(context.Background(), "other.svg")
	require.NoError(t, err)
	assert.Equal(t, "remote:other.svg", string(data))
	//
	_, err = Chain{Packaged(), SystemFonts{}}.Resolve(context.Background(), "no-such-font-xyz.ttf")
	assert.True(t, IsNotFound(err))
	broken := ResolverFunc(func(ctx context.Context, p string) ([]byte, error) {
		return nil, core.Error(core.ECONNECTION, "offline")
	})
	_, err = Chain{broken, Packaged()}.Resolve(context.Background(), "nothing.svg")
	assert.Equal(t, core.ECONNECTION, core.Code(err), "real failures take precedence over not-found")
}

func TestAssetPromise(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.resources")
	defer teardown()
	//
	ctx := context.Background()
	drawing := ResolveAsset(ctx, Packaged(), "drawings/laurel-frame.svg", DrawingAsset)
	fnt := ResolveAsset(ctx, Packaged(), "fonts/plate-sans.svg", FontAsset)
	d1, err := drawing.Await(ctx)
	require.NoError(t, err)
	d2, err := drawing.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, d1, d2, "promise may be awaited repeatedly")
	_, err = fnt.Await(ctx)
	assert.NoError(t, err)
	//
	_, err = ResolveAsset(ctx, Packaged(), "", FontAsset).Await(ctx)
	assert.True(t, IsNotFound(err))
}

func TestPromiseCancellation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.resources")
	defer teardown()
	//
	block := make(chan struct{})
	defer close(block)
	slow := ResolverFunc(func(ctx context.Context, p string) ([]byte, error) {
		<-block
		return nil, nil
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := ResolveAsset(context.Background(), slow, "x.svg", DrawingAsset).Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResolveGlyphTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.resources")
	defer teardown()
	//
	ctx := context.Background()
	reg := fontregistry.NewRegistry()
	table, err := ResolveGlyphTable(ctx, Packaged(), reg, "fonts/plate-sans.svg").Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Plate Sans", table.Name)
	assert.Equal(t, 44, table.Len())
	_, ok := table.Glyph(' ')
	assert.False(t, ok, "space has no outline")
	// second resolve is served by the registry
	failing := ResolverFunc(func(ctx context.Context, p string) ([]byte, error) {
		return nil, core.Error(core.ECONNECTION, "must not be called")
	})
	again, err := ResolveGlyphTable(ctx, failing, reg, "fonts/plate-sans.svg").Await(ctx)
	require.NoError(t, err)
	assert.Same(t, table, again)
	//
	_, err = ResolveGlyphTable(ctx, Packaged(), reg, "drawings/plain-border.svg").Await(ctx)
	assert.ErrorIs(t, err, core.ErrParse)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, FontAsset, KindOf("fonts/a.svg"))
	assert.Equal(t, FontAsset, KindOf("x/DejaVuSans.TTF"))
	assert.Equal(t, DrawingAsset, KindOf("drawings/a.svg"))
	assert.Equal(t, UnknownAsset, KindOf("readme.md"))
}

func TestCatalog(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.resources")
	defer teardown()
	//
	c, err := Packaged().Catalog()
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"drawings/laurel-frame.svg", "drawings/plain-border.svg"},
		c.Search("drawings/"))
	assert.Equal(t, []string{"fonts/plate-sans.svg"}, c.SearchKind("", FontAsset))
	kind, ok := c.Lookup("drawings/laurel-frame.svg")
	assert.True(t, ok)
	assert.Equal(t, DrawingAsset, kind)
	c.Add("drawings/laurel-frame.svg", DrawingAsset)
	assert.Equal(t, 3, c.Len())
	assert.Len(t, c.Search("x"), 0)
}
