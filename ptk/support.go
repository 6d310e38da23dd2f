package ptk

import (
	"fmt"
	"io"
	"sync"
)

// WriteAsString writes this state as a single CSV-ish line (no trailing newline).
func (s *StateSpec) WriteAsString(out io.Writer, opts PrintOpts) {
	fmt.Fprintf(out, "N=%d,m=(%+d %+d),w=(%+d %+d),M=%.6f", s.Level, s.M1, s.M2, s.W1, s.W2, s.Mass)
	if opts.Mass2 {
		fmt.Fprintf(out, ",M2=%.6f", s.Mass2())
	}
	if opts.Charge {
		fmt.Fprintf(out, ",Q=%+.6f", s.Q)
	}
}

func NewCatalogContext() CatalogContext {
	ctx := &catalogContext{
		openCatalogs: make(map[Catalog]struct{}),
		closing:      make(chan struct{}),
		closed:       make(chan struct{}),
	}
	ctx.openCount.Add(1)
	go func() {
		<-ctx.closing
		ctx.openCount.Done()
		ctx.openCount.Wait()
		close(ctx.closed)
	}()
	return ctx
}

type catalogContext struct {
	mu           sync.Mutex
	closeOnce    sync.Once
	openCount    sync.WaitGroup
	openCatalogs map[Catalog]struct{}
	closing      chan struct{}
	closed       chan struct{}
}

func (ctx *catalogContext) AttachCatalog(cat Catalog) {
	ctx.openCount.Add(1)
	ctx.mu.Lock()
	ctx.openCatalogs[cat] = struct{}{}
	ctx.mu.Unlock()
}

func (ctx *catalogContext) DetachCatalog(cat Catalog) {
	ctx.mu.Lock()
	if _, exists := ctx.openCatalogs[cat]; exists {
		delete(ctx.openCatalogs, cat)
		ctx.openCount.Done()
	}
	ctx.mu.Unlock()
}

func (ctx *catalogContext) Done() <-chan struct{} {
	return ctx.closed
}

func (ctx *catalogContext) Close() {
	ctx.closeOnce.Do(func() {
		close(ctx.closing)

		ctx.mu.Lock()
		open := make([]Catalog, 0, len(ctx.openCatalogs))
		for cat := range ctx.openCatalogs {
			open = append(open, cat)
		}
		ctx.mu.Unlock()

		// Catalog.Close() calls back into DetachCatalog so it can't run under ctx.mu
		for _, cat := range open {
			go cat.Close()
		}
	})
}
