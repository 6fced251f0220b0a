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

	"github.com/taskgraph/promise/internal/erased"
)

// Then registers a typed continuation on p: onResolved is only invoked if
// the current settlement value holds an In, and onRejected is invoked on
// every rejection, receiving the value if it is an error and
// ErrTypeMismatch otherwise. A cast failure is reported through the engine's
// documented type-mismatch pass-through (spec §4.2/§7) via
// internal/erased.WrapMismatch, the same path a hand-written Callback
// would use, rather than silently dropping the continuation.
//
// This is the generics-ergonomics layer the teacher's Promise[T] surface
// offers; the untyped Callback-based Then in promise.go remains the
// literal spec §6 API and is what this function is built on.
func Then[In, Out any](p *Promise, onResolved func(In) Out, onRejected func(error) Out) *Promise {
	var wrappedResolved, wrappedRejected Callback

	if onResolved != nil {
		wrappedResolved = func(_ context.Context, v any) any {
			in, err := erased.Cast[In](v)
			erased.WrapMismatch(err)
			return onResolved(in)
		}
	}
	if onRejected != nil {
		wrappedRejected = func(_ context.Context, v any) any {
			if err, ok := v.(error); ok {
				return onRejected(err)
			}
			return onRejected(ErrTypeMismatch)
		}
	}
	return p.Then(wrappedResolved, wrappedRejected)
}

// Map is Then with no rejection handler: onResolved runs only on a
// Resolved settlement holding an In, and rejections pass through
// unchanged.
func Map[In, Out any](p *Promise, onResolved func(In) Out) *Promise {
	return Then[In, Out](p, onResolved, nil)
}

// Catch is Then with no resolution handler: onRejected runs only on a
// Rejected settlement, and resolutions pass through unchanged.
func Catch[Out any](p *Promise, onRejected func(error) Out) *Promise {
	return Then[any, Out](p, nil, onRejected)
}
