package render

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/npillmayer/nameplate/core"
	"github.com/npillmayer/nameplate/core/font/fontregistry"
	"github.com/npillmayer/nameplate/core/locate/resources"
	"github.com/npillmayer/nameplate/core/parameters"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	plateSans = "fonts/plate-sans.svg"
	laurel    = "drawings/laurel-frame.svg"
)

func testPipeline(r resources.Resolver) *Pipeline {
	if r == nil {
		r = resources.Packaged()
	}
	return NewPipeline(r, fontregistry.NewRegistry(), parameters.DefaultPolicy())
}

func plate(msg string) parameters.Render {
	return parameters.Render{
		DrawingPath: laurel,
		FontPath:    plateSans,
		Message:     msg,
		FontSize:    20,
	}
}

func TestRenderComplete(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.render")
	defer teardown()
	//
	res, err := testPipeline(nil).Render(context.Background(), plate("NAME"))
	require.NoError(t, err)
	assert.Empty(t, res.Advisories)
	assert.True(t, res.Scene.HasDrawing())
	assert.True(t, res.Scene.HasText())
	require.NotNil(t, res.Glyphs)
	assert.Equal(t, "Plate Sans", res.Glyphs.Name)
	assert.Len(t, res.Scene.Layout().Glyphs, 4)
}

func TestRenderDegradesGracefully(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.render")
	defer teardown()
	//
	assets := resources.Chain{
		resources.FS("test", fstest.MapFS{
			"broken.svg":        {Data: []byte(`<svg><g></svg>`)},
			"fonts/drawing.svg": {Data: []byte(`<svg xmlns="http://www.w3.org/2000/svg"><rect/></svg>`)},
		}),
		resources.Packaged(),
	}
	p := testPipeline(assets)
	ctx := context.Background()
	//
	params := plate("NAME")
	params.DrawingPath = "drawings/missing.svg"
	res, err := p.Render(ctx, params)
	require.NoError(t, err)
	assert.False(t, res.Scene.HasDrawing())
	assert.True(t, res.Scene.HasText())
	require.Len(t, res.Advisories, 1)
	assert.Equal(t, DrawingContribution, res.Advisories[0].Contribution)
	assert.True(t, res.Advisories[0].Omitted())
	assert.True(t, resources.IsNotFound(res.Advisories[0].Err))
	//
	params.DrawingPath = "broken.svg"
	res, err = p.Render(ctx, params)
	require.NoError(t, err)
	assert.False(t, res.Scene.HasDrawing())
	require.Len(t, res.Advisories, 1)
	assert.True(t, errors.Is(res.Advisories[0].Err, core.ErrDrawingLoad))
	//
	params = plate("NAME")
	params.FontPath = "fonts/drawing.svg"
	res, err = p.Render(ctx, params)
	require.NoError(t, err)
	assert.True(t, res.Scene.HasDrawing())
	assert.False(t, res.Scene.HasText())
	require.Len(t, res.Advisories, 1)
	assert.Equal(t, TextContribution, res.Advisories[0].Contribution)
	assert.True(t, errors.Is(res.Advisories[0].Err, core.ErrParse))
	//
	params = plate("NAME")
	params.FontSize = 0
	res, err = p.Render(ctx, params)
	require.NoError(t, err)
	assert.False(t, res.Scene.HasText())
	require.Len(t, res.Advisories, 1)
	assert.Equal(t, core.EINVALID, core.Code(res.Advisories[0].Err))
}

func TestRenderWithoutText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.render")
	defer teardown()
	//
	p := testPipeline(nil)
	for _, params := range []parameters.Render{
		{DrawingPath: laurel, FontPath: plateSans, Message: "  ", FontSize: 20},
		{DrawingPath: laurel, Message: "NAME", FontSize: 20},
		{DrawingPath: laurel, FontPath: plateSans, Message: "\u4e2d\u6587", FontSize: 20},
	} {
		res, err := p.Render(context.Background(), params)
		require.NoError(t, err)
		assert.True(t, res.Scene.HasDrawing())
		assert.False(t, res.Scene.HasText(), "message %q", params.Message)
		assert.Empty(t, res.Advisories)
	}
	res, err := p.Render(context.Background(), parameters.Render{})
	require.NoError(t, err)
	assert.False(t, res.Scene.HasDrawing())
	assert.False(t, res.Scene.HasText())
}

func TestRenderAnomalyIsAdvisory(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.render")
	defer teardown()
	//
	params := plate("-")
	params.DrawingPath = ""
	res, err := testPipeline(nil).Render(context.Background(), params)
	require.NoError(t, err)
	assert.True(t, res.Scene.HasText())
	require.Len(t, res.Advisories, 1)
	assert.False(t, res.Advisories[0].Omitted())
	assert.True(t, core.IsAdvisory(res.Advisories[0].Err))
}

func TestRenderCancelled(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.render")
	defer teardown()
	//
	blocking := resources.ResolverFunc(func(ctx context.Context, p string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := testPipeline(blocking).Render(ctx, plate("NAME"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// --- Renderer --------------------------------------------------------------

type recorder struct {
	mu      sync.Mutex
	results []*Result
}

func (r *recorder) Commit(res *Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var msgs []string
	for _, res := range r.results {
		msgs = append(msgs, res.Params.Message)
	}
	return msgs
}

func TestStaleRenderDiscarded(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.render")
	defer teardown()
	//
	release := make(chan struct{})
	slow := resources.ResolverFunc(func(ctx context.Context, p string) ([]byte, error) {
		if p == "slow.svg" {
			<-release
		}
		return resources.Packaged().Resolve(ctx, p)
	})
	sink := &recorder{}
	r := NewRenderer(testPipeline(resources.Chain{slow}), sink)
	ctx := context.Background()
	//
	first := plate("OLD")
	first.DrawingPath = "slow.svg"
	g1 := r.Request(ctx, first)
	g2 := r.Request(ctx, plate("NEW"))
	assert.Less(t, g1, g2)
	require.Eventually(t, func() bool { return r.Committed() == g2 }, 2*time.Second, 5*time.Millisecond)
	close(release)
	r.Wait()
	assert.Equal(t, []string{"NEW"}, sink.messages())
	assert.Equal(t, g2, r.Latest())
}

func TestRenderNowCommits(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.render")
	defer teardown()
	//
	sink := &recorder{}
	r := NewRenderer(testPipeline(nil), sink)
	res, committed, err := r.RenderNow(context.Background(), plate("ONE"))
	require.NoError(t, err)
	assert.True(t, committed)
	assert.Equal(t, uint64(1), res.Generation)
	_, committed, err = r.RenderNow(context.Background(), plate("TWO"))
	require.NoError(t, err)
	assert.True(t, committed)
	assert.Equal(t, []string{"ONE", "TWO"}, sink.messages())
}

// --- Debouncer -------------------------------------------------------------

type fired struct {
	mu     sync.Mutex
	params []parameters.Render
}

func (f *fired) fire(p parameters.Render) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = append(f.params, p)
}

func (f *fired) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.params)
}

func (f *fired) last() parameters.Render {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.params[len(f.params)-1]
}

func TestDebounceCollapsesBurst(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.render")
	defer teardown()
	//
	f := &fired{}
	quiet := 30 * time.Millisecond
	d := NewDebouncer(quiet, f.fire)
	for _, msg := range []string{"N", "NA", "NAM", "NAME"} {
		d.Push(plate(msg))
	}
	require.Eventually(t, func() bool { return f.count() > 0 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(3 * quiet)
	assert.Equal(t, 1, f.count())
	assert.Equal(t, "NAME", f.last().Message)
}

func TestDebounceFlushAndStop(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.render")
	defer teardown()
	//
	f := &fired{}
	d := NewDebouncer(time.Hour, f.fire)
	d.Push(plate("NOW"))
	d.Flush()
	require.Equal(t, 1, f.count())
	assert.Equal(t, "NOW", f.last().Message)
	d.Flush()
	assert.Equal(t, 1, f.count(), "nothing pending")
	d.Push(plate("LATER"))
	d.Stop()
	d.Push(plate("NEVER"))
	d.Flush()
	assert.Equal(t, 1, f.count())
	//
	immediate := NewDebouncer(0, f.fire)
	immediate.Push(plate("AGAIN"))
	assert.Equal(t, 2, f.count())
}

func TestDebouncedRenderer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.render")
	defer teardown()
	//
	sink := &recorder{}
	r := NewRenderer(testPipeline(nil), sink)
	d := NewDebouncer(20*time.Millisecond, func(p parameters.Render) {
		r.Request(context.Background(), p)
	})
	for _, msg := range []string{"A", "AB", "ABC"} {
		d.Push(plate(msg))
	}
	require.Eventually(t, func() bool { return r.Committed() > 0 }, 2*time.Second, 5*time.Millisecond)
	r.Wait()
	assert.Equal(t, []string{"ABC"}, sink.messages())
}
