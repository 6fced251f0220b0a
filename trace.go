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
	"fmt"
	"io"
	"time"
)

// DefaultMaxTraceLen is the call trace capacity used when a holder is not
// constructed with WithMaxTrace. It stands in for the original's compile
// time PM_MAX_LOC macro.
const DefaultMaxTraceLen = 32

// CallRecord is one entry of a holder's call trace: a call site, its global
// serial, and the wall-clock time it was recorded.
type CallRecord struct {
	Site Loc
	At   time.Time
}

// CallTrace is a bounded FIFO of CallRecord, oldest entries evicted once
// capacity is reached. It is not safe for concurrent use; callers hold the
// owning holder's lock.
type CallTrace struct {
	records []CallRecord
	cap     int
}

func newCallTrace(capacity int) *CallTrace {
	if capacity <= 0 {
		capacity = DefaultMaxTraceLen
	}
	return &CallTrace{cap: capacity}
}

// push appends a record, evicting the oldest one if the trace is at
// capacity.
func (t *CallTrace) push(site Loc) {
	rec := CallRecord{Site: site, At: time.Now()}
	if len(t.records) < t.cap {
		t.records = append(t.records, rec)
		return
	}
	copy(t.records, t.records[1:])
	t.records[len(t.records)-1] = rec
}

// prepend splices other's records before this trace's own, trimming from
// the front of the combined trace to stay within capacity. It is used by
// join: the history of the holder being absorbed is older than the history
// already on the survivor.
func (t *CallTrace) prepend(other *CallTrace) {
	if other == nil || len(other.records) == 0 {
		return
	}
	combined := make([]CallRecord, 0, len(other.records)+len(t.records))
	combined = append(combined, other.records...)
	combined = append(combined, t.records...)
	if over := len(combined) - t.cap; over > 0 {
		combined = combined[over:]
	}
	t.records = combined
}

// Len reports the number of records currently held.
func (t *CallTrace) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Dump writes a human-readable rendering of the trace to w, oldest first.
// This is the supplemented equivalent of the original's
// CallStack::dump()/PromiseHolder::dump().
func (t *CallTrace) Dump(w io.Writer) error {
	if t == nil {
		_, err := fmt.Fprintln(w, "<no trace>")
		return err
	}
	for _, rec := range t.records {
		if _, err := fmt.Fprintf(w, "%s at %s\n", rec.Site, rec.At.Format(time.RFC3339Nano)); err != nil {
			return err
		}
	}
	return nil
}
