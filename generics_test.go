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

	"github.com/stretchr/testify/require"
)

func TestTypedMapRunsOnMatchingType(t *testing.T) {
	var got int
	p := NewPromise(func(_ context.Context, d *Deferred) { d.Resolve(21) })
	Map(p, func(v int) int { got = v * 2; return got })

	require.Equal(t, 42, got)
}

func TestTypedMapMismatchPassesThrough(t *testing.T) {
	var final any
	p := NewPromise(func(_ context.Context, d *Deferred) { d.Resolve("not an int") })
	Map(p, func(v int) int { return v })
	p.Then(func(_ context.Context, v any) any { final = v; return nil }, nil)

	require.Equal(t, "not an int", final)
}

func TestTypedCatchOnRejection(t *testing.T) {
	var got string
	p := NewPromise(func(_ context.Context, d *Deferred) { d.Reject(errSentinel{}) })
	Catch[any](p, func(err error) any { got = err.Error(); return nil })

	require.Equal(t, "sentinel", got)
}

type errSentinel struct{}

func (errSentinel) Error() string { return "sentinel" }
