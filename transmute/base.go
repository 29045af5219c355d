package transmute

import "sync"

// ContextHolder is implemented by transformer types that carry a context.
type ContextHolder interface {
	Context() any
	SetContext(ctx any)
}

// Base stores the context of a transformer instance. Embed it in the
// transformer type:
//
//	type WeatherMapper struct {
//		transmute.Base
//	}
type Base struct {
	mu  sync.RWMutex
	ctx any
}

// Context returns the current context.
func (b *Base) Context() any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.ctx
}

// SetContext replaces the context. Callables read it at call time, so the
// new value is visible to the next Map or Aggregate call.
func (b *Base) SetContext(ctx any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.ctx = ctx
}

var _ ContextHolder = (*Base)(nil)
