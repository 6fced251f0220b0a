// Copyright 2020 Ahmad Sameh(asmsh)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package promise

import (
	"context"
	"sync"
)

// All resolves to an ordered slice of results once every input in list has
// resolved (input order preserved), or rejects with the first rejection
// seen. An empty list resolves immediately with an empty slice.
func All(list []*Promise, opts ...Option) *Promise {
	if len(list) == 0 {
		return NewPromise(func(_ context.Context, d *Deferred) { d.Resolve([]any{}) }, opts...)
	}

	return NewPromise(func(_ context.Context, d *Deferred) {
		var mu sync.Mutex
		results := make([]any, len(list))
		finished := 0
		done := false

		for i, p := range list {
			i := i
			p.Then(
				func(_ context.Context, v any) any {
					mu.Lock()
					defer mu.Unlock()
					if done {
						return nil
					}
					results[i] = v
					finished++
					if finished == len(list) {
						done = true
						d.Resolve(results)
					}
					return nil
				},
				func(_ context.Context, v any) any {
					mu.Lock()
					defer mu.Unlock()
					if !done {
						done = true
						d.Reject(v)
					}
					return nil
				},
			)
		}
	}, opts...)
}

// Race settles with the first input in list to settle, taking that
// input's state and value, and records its index for RaceAndReject and
// RaceAndResolve.
func Race(list []*Promise, opts ...Option) (*Promise, *int) {
	winner := new(int)
	*winner = -1

	p := NewPromise(func(_ context.Context, d *Deferred) {
		var mu sync.Mutex
		done := false

		for i, ip := range list {
			i := i
			ip.Then(
				func(_ context.Context, v any) any {
					mu.Lock()
					defer mu.Unlock()
					if done {
						return nil
					}
					done = true
					*winner = i
					d.Resolve(v)
					return nil
				},
				func(_ context.Context, v any) any {
					mu.Lock()
					defer mu.Unlock()
					if done {
						return nil
					}
					done = true
					*winner = i
					d.Reject(v)
					return nil
				},
			)
		}
	}, opts...)

	return p, winner
}

// RaceAndReject races list, then rejects every loser once the race settles,
// matching the original's race+finally pattern. Rejecting an
// already-settled loser is a documented no-op (spec §8, Open Question 2
// resolved in SPEC_FULL.md §5).
func RaceAndReject(list []*Promise, opts ...Option) *Promise {
	p, winner := Race(list, opts...)
	p.Finally(func(context.Context, any) {
		for i, ip := range list {
			if i != *winner {
				ip.Reject(errRaceLoser)
			}
		}
	})
	return p
}

// RaceAndResolve races list, then resolves every loser with value once the
// race settles.
func RaceAndResolve(list []*Promise, value any, opts ...Option) *Promise {
	p, winner := Race(list, opts...)
	p.Finally(func(context.Context, any) {
		for i, ip := range list {
			if i != *winner {
				ip.Resolve(value)
			}
		}
	})
	return p
}

// DoWhile repeatedly invokes run with a fresh DeferLoop until the loop body
// calls DoBreak, at which point the outer Promise resolves with the break
// value. Any other rejection from run propagates unchanged.
//
// Unlike the original's recursive doWhile(...).then(...) { return
// doWhile(...) }, which grows one Go stack/callback frame per iteration,
// this walks its own trampoline loop (grounded on hayabusa-cloud-kont's
// evalFrames, see SPEC_FULL.md §3): each iteration creates one Promise and
// calls Then on it once from the loop, instead of nesting Then
// continuations.
func DoWhile(run func(ctx context.Context, l *DeferLoop), opts ...Option) *Promise {
	return NewPromise(func(_ context.Context, d *Deferred) {
		for {
			iter := NewPromise(func(ctx context.Context, id *Deferred) {
				run(ctx, &DeferLoop{d: id})
			}, opts...)

			result, broke, err := awaitOnce(iter)
			if broke != nil {
				d.Resolve(broke.value)
				return
			}
			if err != nil {
				d.Reject(err)
				return
			}
			_ = result
			// resolved without a break: loop again.
		}
	}, opts...)
}

// awaitOnce captures p's outcome. The engine never spawns its own thread
// (spec §5), so Then's callback always runs inline on the calling agent by
// the time Then returns; awaitOnce relies on exactly that to read back the
// outcome without any synchronization of its own.
func awaitOnce(p *Promise) (value any, broke *doBreakTag, err any) {
	var v any
	var tag *doBreakTag
	var rejected any
	var isRejected bool

	p.Then(
		func(_ context.Context, val any) any {
			v = val
			return val
		},
		func(_ context.Context, val any) any {
			if t, ok := val.(doBreakTag); ok {
				tag = &t
			} else {
				rejected = val
				isRejected = true
			}
			return val
		},
	)
	if tag != nil {
		return nil, tag, nil
	}
	if isRejected {
		return nil, nil, rejected
	}
	return v, nil, nil
}

// Finally runs onFinally on both outcomes, preserving the original
// settlement's value and state, swallowing only a type-mismatch error
// raised while binding onFinally's argument.
func (p *Promise) Finally(onFinally func(ctx context.Context, v any)) *Promise {
	return p.Then(
		func(ctx context.Context, v any) any {
			onFinally(ctx, v)
			return preserveSettlement{}
		},
		func(ctx context.Context, v any) any {
			onFinally(ctx, v)
			return preserveSettlement{}
		},
	)
}

// Always is an alias of Finally, matching the original's always/finally
// pair.
func (p *Promise) Always(onAlways func(ctx context.Context, v any)) *Promise {
	return p.Finally(onAlways)
}

type raceLoserError struct{}

func (raceLoserError) Error() string { return "promise: race loser rejected after settlement" }

var errRaceLoser error = raceLoserError{}
