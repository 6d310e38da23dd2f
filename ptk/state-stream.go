package ptk

import (
	"fmt"
	"io"
	"strings"
)

// StateStream is a stage of a state pipeline.  Every stage preserves the order of the states passing through it.
type StateStream struct {
	Outlet chan StateSpec
}

func NewStateStream() *StateStream {
	stream := &StateStream{
		Outlet: make(chan StateSpec, 1),
	}
	return stream
}

// StreamStates emits the given states in order and then closes.
func StreamStates(states []StateSpec) *StateStream {
	next := NewStateStream()

	go func() {
		for _, s := range states {
			next.Outlet <- s
		}
		next.Close()
	}()

	return next
}

func (stream *StateStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

// PullAll drains this stream and returns the number of states drained.
func (stream *StateStream) PullAll() int {
	count := int(0)
	for range stream.Outlet {
		count++
	}
	return count
}

// Collect drains this stream into a slice.
func (stream *StateStream) Collect() []StateSpec {
	var states []StateSpec
	for s := range stream.Outlet {
		states = append(states, s)
	}
	return states
}

func (stream *StateStream) Print(
	out io.WriteCloser,
	opts PrintOpts) *StateStream {

	next := NewStateStream()

	go func() {
		buf := strings.Builder{}
		buf.Grow(128)

		count := 0
		for s := range stream.Outlet {
			if len(opts.Label) > 0 {
				buf.WriteString(opts.Label)
				buf.WriteByte(',')
			}

			count++
			fmt.Fprintf(&buf, "%06d,", count)
			s.WriteAsString(&buf, opts)
			buf.WriteByte('\n')
			out.Write([]byte(buf.String()))
			buf.Reset()
			next.Outlet <- s
		}
		out.Close()
		next.Close()
	}()

	return next
}

// AddTo offers each state to the given target and only passes on states that the target added.
func (stream *StateStream) AddTo(target StateAdder) *StateStream {
	next := NewStateStream()

	go func() {
		for s := range stream.Outlet {
			if target.TryAddState(s) {
				next.Outlet <- s
			}
		}
		next.Close()
	}()

	return next
}

func (stream *StateStream) Select(sel StateSelector) *StateStream {
	next := NewStateStream()

	go func() {
		for s := range stream.Outlet {
			if sel.SelectsState(&s) {
				next.Outlet <- s
			}
		}
		next.Close()
	}()

	return next
}

func SelectFromCatalog(cat Catalog, sel StateSelector) *StateStream {
	next := NewStateStream()

	onHit := make(chan StateSpec, 4)

	go func() {
		cat.Select(sel, onHit)
		close(onHit)
	}()

	go func() {
		for s := range onHit {
			next.Outlet <- s
		}
		next.Close()
	}()

	return next
}
