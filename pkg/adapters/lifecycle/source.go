// Package lifecycle exposes vault change events as a lifecycle.Source so a
// supervisor can drive report refreshes.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
)

type vaultSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource bridges a store event channel to lifecycle events. The output
// channel closes when events closes or the context passed to Start ends.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &vaultSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *vaultSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *vaultSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

// Changes narrows a lifecycle stream back to store events, dropping
// anything else a supervisor may have mixed in.
func Changes(ctx context.Context, in <-chan lifecycle.Event) <-chan core.Event {
	out := make(chan core.Event)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-in:
				if !ok {
					return nil
				}
				ce, ok := e.(core.Event)
				if !ok {
					continue
				}
				select {
				case out <- ce:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return out
}
