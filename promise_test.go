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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestChainedValues(t *testing.T) {
	var final any
	p := NewPromise(func(_ context.Context, d *Deferred) { d.Resolve(1) })
	p.Then(func(_ context.Context, v any) any { return v.(int) + 2 }, nil).
		Then(func(_ context.Context, v any) any { final = v.(int) * 10; return nil }, nil)

	require.Equal(t, 30, final)
}

func TestPassThroughOfRejection(t *testing.T) {
	var final any
	p := NewPromise(func(_ context.Context, d *Deferred) { d.Reject("e") })
	p.Then(func(_ context.Context, v any) any { return v.(int) + 1 }, nil).
		Fail(func(_ context.Context, v any) any {
			final = "caught:" + v.(string)
			return final
		})

	require.Equal(t, "caught:e", final)
}

func TestFlattenReturnedHandle(t *testing.T) {
	var final any
	p := NewPromise(func(_ context.Context, d *Deferred) { d.Resolve(1) })
	p.Then(func(_ context.Context, v any) any {
		return NewPromise(func(_ context.Context, d2 *Deferred) { d2.Resolve(v.(int) + 41) })
	}, nil).Then(func(_ context.Context, v any) any { final = v; return nil }, nil)

	require.Equal(t, 42, final)
}

func TestAllOrdering(t *testing.T) {
	a := NewPromise(func(_ context.Context, d *Deferred) { d.Resolve("a") })
	b := NewPromise(func(_ context.Context, d *Deferred) { d.Resolve("b") })
	c := NewPromise(func(_ context.Context, d *Deferred) { d.Resolve("c") })

	var final any
	All([]*Promise{a, b, c}).Then(func(_ context.Context, v any) any { final = v; return nil }, nil)

	require.Equal(t, []any{"a", "b", "c"}, final)
}

// TestAllResultSliceStructure uses cmp.Diff instead of require.Equal: All's
// contract is index-preserving order, and a structural diff pinpoints which
// element landed out of place instead of just flagging the slices unequal.
func TestAllResultSliceStructure(t *testing.T) {
	a := NewPromise(func(_ context.Context, d *Deferred) { d.Resolve(1) })
	b := NewPromise(func(_ context.Context, d *Deferred) { d.Resolve(2) })
	c := NewPromise(func(_ context.Context, d *Deferred) { d.Resolve(3) })

	var got any
	All([]*Promise{a, b, c}).Then(func(_ context.Context, v any) any { got = v; return nil }, nil)

	want := []any{1, 2, 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("All result slice mismatch (-want +got):\n%s", diff)
	}
}

func TestAllEmpty(t *testing.T) {
	var final any
	All(nil).Then(func(_ context.Context, v any) any { final = v; return nil }, nil)
	require.Equal(t, []any{}, final)
}

func TestRaceRejection(t *testing.T) {
	winner := NewPromise(func(_ context.Context, d *Deferred) { d.Reject("fast") })
	loser := NewUnresolved()

	var final any
	RaceAndReject([]*Promise{winner, loser}).Fail(func(_ context.Context, v any) any {
		final = v
		return final
	})

	require.Equal(t, "fast", final)
}

func TestDoWhileBreak(t *testing.T) {
	counter := 0
	var final any

	DoWhile(func(_ context.Context, l *DeferLoop) {
		counter++
		if counter == 3 {
			l.DoBreak(counter)
		} else {
			l.DoContinue()
		}
	}).Then(func(_ context.Context, v any) any { final = v; return nil }, nil)

	require.Equal(t, 3, final)
}

func TestDoubleResolveIsNoOp(t *testing.T) {
	var final any
	require.NotPanics(t, func() {
		NewPromise(func(_ context.Context, d *Deferred) {
			d.Resolve(1)
			d.Resolve(2)
		}).Then(func(_ context.Context, v any) any { final = v; return nil }, nil)
	})

	require.Equal(t, 1, final)
}

func TestResolveAfterRejectIsNoOp(t *testing.T) {
	var final any
	require.NotPanics(t, func() {
		NewPromise(func(_ context.Context, d *Deferred) {
			d.Reject("first")
			d.Resolve("second")
		}).Fail(func(_ context.Context, v any) any { final = v; return nil })
	})

	require.Equal(t, "first", final)
}

func TestThenIdentityPreservesResolvedValue(t *testing.T) {
	var final any
	NewPromise(func(_ context.Context, d *Deferred) { d.Resolve(7) }).
		Then(func(_ context.Context, v any) any { return v }, nil).
		Then(func(_ context.Context, v any) any { final = v; return nil }, nil)

	require.Equal(t, 7, final)
}

func TestFinallyPreservesSettlement(t *testing.T) {
	var sawResolved, ranFinally bool
	NewPromise(func(_ context.Context, d *Deferred) { d.Resolve(5) }).
		Finally(func(context.Context, any) { ranFinally = true }).
		Then(func(_ context.Context, v any) any { sawResolved = v.(int) == 5; return nil }, nil)

	require.True(t, ranFinally)
	require.True(t, sawResolved)
}

func TestFinallyPreservesRejection(t *testing.T) {
	type customErr struct{ code int }
	original := customErr{code: 7}

	var ranFinally bool
	var caught any
	NewPromise(func(_ context.Context, d *Deferred) { d.Reject(original) }).
		Finally(func(context.Context, any) { ranFinally = true }).
		Fail(func(_ context.Context, v any) any { caught = v; return nil })

	require.True(t, ranFinally)
	require.Equal(t, original, caught)
}

func TestJoinIdempotence(t *testing.T) {
	h := newHolder(buildConfig(nil))
	same := join(h, h)
	require.Same(t, h, same)
}

func TestCurrentTraceAvailableInRun(t *testing.T) {
	var trace *CallTrace
	NewPromise(func(ctx context.Context, d *Deferred) {
		trace = CurrentTrace(ctx)
		d.Resolve(1)
	})

	require.NotNil(t, trace)
}

func TestCurrentTraceAvailableInContinuation(t *testing.T) {
	var trace *CallTrace
	NewPromise(func(_ context.Context, d *Deferred) { d.Resolve(1) }).
		Then(func(ctx context.Context, v any) any {
			trace = CurrentTrace(ctx)
			return v
		}, nil)

	require.NotNil(t, trace)
}

func TestCurrentTraceNilOutsideEngine(t *testing.T) {
	require.Nil(t, CurrentTrace(context.Background()))
}
