package render

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/npillmayer/nameplate/core/parameters"
)

// Sink receives committed render results.
type Sink interface {
	Commit(*Result)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(*Result)

// Commit calls f(res).
func (f SinkFunc) Commit(res *Result) {
	f(res)
}

// Renderer issues render passes and commits their results in request order.
//
// Every request is stamped with a generation number. Passes are not
// cancelled when a newer request arrives; instead, a finished pass commits
// to the sink only if its generation is still the latest one. Thus a slow
// pass can never overwrite the result of a newer request.
type Renderer struct {
	pipeline   *Pipeline
	sink       Sink
	generation atomic.Uint64 // latest issued request
	mu         sync.Mutex    // serializes commits
	committed  uint64        // latest committed generation
	inflight   sync.WaitGroup
}

// NewRenderer creates a renderer which commits the results of pipeline
// passes to sink.
func NewRenderer(pipeline *Pipeline, sink Sink) *Renderer {
	return &Renderer{pipeline: pipeline, sink: sink}
}

// Request starts a render pass for params in the background and returns its
// generation.
func (r *Renderer) Request(ctx context.Context, params parameters.Render) uint64 {
	gen := r.generation.Add(1)
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		r.run(ctx, gen, params)
	}()
	return gen
}

// RenderNow runs a render pass for params synchronously. It returns the
// result and whether it has been committed to the sink.
func (r *Renderer) RenderNow(ctx context.Context, params parameters.Render) (*Result, bool, error) {
	return r.run(ctx, r.generation.Add(1), params)
}

func (r *Renderer) run(ctx context.Context, gen uint64, params parameters.Render) (*Result, bool, error) {
	res, err := r.pipeline.Render(ctx, params)
	if err != nil {
		tracer().Infof("render #%d abandoned: %v", gen, err)
		return nil, false, err
	}
	res.Generation = gen
	return res, r.commit(res), nil
}

// commit hands res to the sink if it is the result of the latest request.
func (r *Renderer) commit(res *Result) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if latest := r.generation.Load(); res.Generation != latest || res.Generation <= r.committed {
		tracer().Debugf("discarding stale render #%d, latest is #%d", res.Generation, latest)
		return false
	}
	r.committed = res.Generation
	if r.sink != nil {
		r.sink.Commit(res)
	}
	tracer().Debugf("committed render #%d", res.Generation)
	return true
}

// Latest returns the generation of the latest request.
func (r *Renderer) Latest() uint64 {
	return r.generation.Load()
}

// Committed returns the generation of the latest committed result.
func (r *Renderer) Committed() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.committed
}

// Wait blocks until all background passes have finished.
func (r *Renderer) Wait() {
	r.inflight.Wait()
}
