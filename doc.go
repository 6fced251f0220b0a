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

// Package promise is a JavaScript-style promise core: a graph of holders
// threaded by continuation tasks, with settlement propagation, chain
// flattening ("join"), multi-owner lifetime, an optional multi-threaded
// locking protocol, a bounded call trace, and an uncaught-rejection sink.
//
// The engine owns no thread and no event loop of its own; every
// continuation runs synchronously on whichever goroutine calls Resolve,
// Reject, or Then. This is deliberate: progress is strictly user-driven,
// the same way the original implementation this package is derived from
// never schedules work on its own.
//
// A Holder has three states, and is in exactly one of them at any time:
// Pending: the computation has not finished.
// Resolved: the computation finished successfully; its value is the result.
// Rejected: the computation finished with an error value.
//
// The state is also briefly reset to Pending while a continuation runs, so
// that a resolve/reject issued from inside that continuation is buffered
// as a queued task instead of racing the in-flight call; this is never
// observable outside the engine.
//
// Build modes:-
//
// * The default build has no locking: a single agent drives the engine at
// a time, and FIFO ordering falls out of a plain queue.
//
// * Building with -tags promise_multithread swaps in a re-entrant counting
// mutex per holder, letting multiple goroutines drive different chains
// concurrently while still enforcing FIFO ordering per holder.
//
// Combinators:-
//
// * All, Race, RaceAndReject, RaceAndResolve, DoWhile, Finally, and Always
// are part of the core because they exercise the same join/FIFO/uncaught
// invariants as Then, not because the engine is a data-parallel futures
// library.
package promise
