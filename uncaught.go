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
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// UncaughtHandler receives a rejected Holder's payload when it is dropped
// with no further continuations, matching the original's
// onUncaughtException callback.
type UncaughtHandler func(value any)

var (
	uncaughtMu      sync.RWMutex
	uncaughtHandler UncaughtHandler = defaultUncaughtHandler

	// inHandler guards against recursive invocation, the package-level
	// stand-in for the original's thread_local s_inUncaughtExceptionHandler.
	// A genuine per-goroutine guard would need the same goroutine-id trick
	// used by the multithreaded lock; a single flag is a deliberate
	// simplification since recursive uncaught handlers are rare and, when
	// they happen, a single flag still stops the recursion, just not with
	// per-goroutine granularity.
	inHandler atomic.Bool
)

// HandleUncaughtException installs cb as the process-wide uncaught
// rejection sink, replacing the default logrus-based one.
func HandleUncaughtException(cb UncaughtHandler) {
	uncaughtMu.Lock()
	defer uncaughtMu.Unlock()
	if cb == nil {
		cb = defaultUncaughtHandler
	}
	uncaughtHandler = cb
}

func defaultUncaughtHandler(value any) {
	logrus.WithFields(logrus.Fields{
		"type":  fmt.Sprintf("%T", value),
		"value": value,
	}).Error("uncaught rejection in promise chain")
}

// fireUncaught dispatches value to the installed sink, unless a sink
// invocation is already in progress on this process (the recursion guard
// described in spec §5/§7). Before the installed sink runs, h's trace depth
// and, when h was built with WithCorrelationID, its correlation id are
// logged at debug level, matching the structured-logging upgrade in
// SPEC_FULL.md §2.1.
func fireUncaught(h *Holder, value any) {
	if !inHandler.CompareAndSwap(false, true) {
		return
	}
	defer inHandler.Store(false)

	fields := logrus.Fields{"trace_depth": h.trace.Len()}
	if h.correlated {
		fields["correlation_id"] = h.correlationID()
	}
	logrus.WithFields(fields).Debug("holder dropped while rejected")

	cb := h.sink
	if cb == nil {
		uncaughtMu.RLock()
		cb = uncaughtHandler
		uncaughtMu.RUnlock()
	}

	cb(value)
}
