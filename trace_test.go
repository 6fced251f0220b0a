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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// sites returns the call-site sequence of a trace snapshot, the part of a
// CallRecord that is comparable across two traces (At is wall-clock and
// will never match between independently captured snapshots).
func (t *CallTrace) sites() []Loc {
	if t == nil {
		return nil
	}
	sites := make([]Loc, len(t.records))
	for i, rec := range t.records {
		sites[i] = rec.Site
	}
	return sites
}

func TestCallTraceBound(t *testing.T) {
	tr := newCallTrace(4)
	for i := 0; i < 10; i++ {
		tr.push(here(1))
	}
	require.LessOrEqual(t, tr.Len(), 4)
}

func TestCallTracePrependTrimsToCapacity(t *testing.T) {
	left := newCallTrace(3)
	right := newCallTrace(3)
	for i := 0; i < 3; i++ {
		right.push(here(1))
	}
	for i := 0; i < 3; i++ {
		left.push(here(1))
	}

	left.prepend(right)
	require.Equal(t, 3, left.Len())
}

func TestWithMaxTraceOption(t *testing.T) {
	cfg := buildConfig([]Option{WithMaxTrace(2)})
	require.Equal(t, 2, cfg.maxTrace)
}

// TestCallTracePrependOrderMatchesExpectedSnapshot uses cmp.Diff rather than
// require.Equal: a mismatch here is a reordering of call-site history, and a
// structural diff of the site sequence pinpoints which entry moved instead
// of just reporting the two slices differ.
func TestCallTracePrependOrderMatchesExpectedSnapshot(t *testing.T) {
	siteA, siteB, siteC := here(1), here(1), here(1)

	older := newCallTrace(8)
	older.push(siteA)

	newer := newCallTrace(8)
	newer.push(siteB)
	newer.push(siteC)

	newer.prepend(older)

	want := []Loc{siteA, siteB, siteC}
	if diff := cmp.Diff(want, newer.sites()); diff != "" {
		t.Fatalf("trace site order mismatch (-want +got):\n%s", diff)
	}
}
