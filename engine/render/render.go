/*
Package render runs the name plate pipeline.

A render pass takes render parameters and produces a new scene: the drawing
and the font are fetched concurrently, the drawing is sanitized, the message
is laid out with the font's glyph table and both contributions are placed on
a fresh canvas. Failing contributions are left out of the scene and reported
as advisories; a render pass itself only fails if its context is cancelled.

Interactive clients issue render requests through a Renderer, which commits
results to a sink in request order: a result is committed only if no newer
request has been issued in the meantime. A Debouncer coalesces bursts of
edits into a single request.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/npillmayer/nameplate/core"
	"github.com/npillmayer/nameplate/core/font"
	"github.com/npillmayer/nameplate/core/font/fontregistry"
	"github.com/npillmayer/nameplate/core/locate/resources"
	"github.com/npillmayer/nameplate/core/parameters"
	"github.com/npillmayer/nameplate/engine/glyphing"
	"github.com/npillmayer/nameplate/engine/sanitize"
	"github.com/npillmayer/nameplate/engine/scene"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'nameplate.render'
func tracer() tracing.Trace {
	return tracing.Select("nameplate.render")
}

// Contribution names a part of the scene.
type Contribution string

// Contributions of a scene.
const (
	DrawingContribution Contribution = "drawing"
	TextContribution    Contribution = "text"
)

// Advisory reports a contribution which has been left out of a scene, or
// which has been placed but is questionable.
type Advisory struct {
	Contribution Contribution
	Path         string // asset path, if any
	Err          error
}

func (a Advisory) String() string {
	if a.Path == "" {
		return fmt.Sprintf("%s: %s", a.Contribution, core.UserMessage(a.Err))
	}
	return fmt.Sprintf("%s %s: %s", a.Contribution, a.Path, core.UserMessage(a.Err))
}

// Omitted is true if the contribution is not part of the scene.
func (a Advisory) Omitted() bool {
	return !core.IsAdvisory(a.Err)
}

// Result is the outcome of a render pass.
type Result struct {
	Generation uint64            // request generation, 0 for direct calls
	Params     parameters.Render // parameters of the pass
	Scene      *scene.Scene
	Glyphs     *font.Table // glyph table used for the text, or nil
	Advisories []Advisory
}

// Pipeline holds everything a render pass needs besides its parameters.
type Pipeline struct {
	Resolver resources.Resolver
	Registry *fontregistry.Registry
	Policy   parameters.Policy
}

// NewPipeline creates a pipeline. If reg is nil, the global font registry
// is used.
func NewPipeline(r resources.Resolver, reg *fontregistry.Registry, policy parameters.Policy) *Pipeline {
	if reg == nil {
		reg = fontregistry.GlobalRegistry()
	}
	return &Pipeline{Resolver: r, Registry: reg, Policy: policy}
}

// Render builds a new scene from params. Errors of the contributions do not
// fail the pass, but are reported as advisories of the result. Render
// returns an error only if ctx is done before the scene is complete.
func (p *Pipeline) Render(ctx context.Context, params parameters.Render) (*Result, error) {
	res := &Result{Params: params, Scene: scene.New()}
	var drawing resources.AssetPromise
	var glyphs resources.GlyphTablePromise
	if params.WantsDrawing() {
		drawing = resources.ResolveAsset(ctx, p.Resolver, params.DrawingPath, resources.DrawingAsset)
	}
	wantsText := params.WantsText() && strings.TrimSpace(params.Message) != ""
	if wantsText {
		glyphs = resources.ResolveGlyphTable(ctx, p.Resolver, p.Registry, params.FontPath)
	}
	if drawing != nil {
		data, err := drawing.Await(ctx)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err == nil {
			err = p.placeDrawing(res.Scene, data)
		}
		if err != nil {
			res.advise(DrawingContribution, params.DrawingPath, err)
		}
	}
	if glyphs != nil {
		t, err := glyphs.Await(ctx)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err == nil {
			res.Glyphs = t
			err = p.placeText(res, t, params)
		}
		if err != nil {
			res.advise(TextContribution, params.FontPath, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tracer().Infof("rendered scene: drawing=%v, text=%v, %d advisories",
		res.Scene.HasDrawing(), res.Scene.HasText(), len(res.Advisories))
	return res, nil
}

func (p *Pipeline) placeDrawing(s *scene.Scene, data []byte) error {
	d, err := sanitize.Sanitize(data, p.Policy)
	if err != nil {
		return err
	}
	s.PlaceDrawing(d)
	return nil
}

func (p *Pipeline) placeText(res *Result, t *font.Table, params parameters.Render) error {
	if err := params.Validate(); err != nil {
		return err
	}
	r, err := glyphing.Layout(t, params.Message, glyphing.Params{
		FontSize:       params.FontSize,
		Kerning:        params.Kerning,
		Anchor:         p.Policy.Anchor,
		MissingAdvance: p.Policy.MissingAdvance,
	})
	if err != nil {
		return err
	}
	res.Scene.PlaceText(r)
	if len(r.Missing) > 0 {
		tracer().Infof("font %s has no glyphs for %q", t.Name, string(r.Missing))
	}
	if r.Anomaly != nil {
		res.advise(TextContribution, params.FontPath, r.Anomaly)
	}
	return nil
}

func (res *Result) advise(c Contribution, path string, err error) {
	a := Advisory{Contribution: c, Path: path, Err: err}
	if a.Omitted() {
		tracer().Errorf("omitting %s: %v", c, err)
	} else {
		tracer().Infof("advisory for %s: %v", c, err)
	}
	res.Advisories = append(res.Advisories, a)
}
