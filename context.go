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

import "context"

// holderCtxKey is the context.Context key the engine stores the holder
// currently running a continuation under, the context-scoped substitute
// for the original's thread-local threadLocalPromiseHolders() stack.
type holderCtxKey struct{}

// withHolder returns a context carrying h as the current holder, the way
// the original pushes onto threadLocalPromiseHolders() before invoking a
// callback and pops it on the way out.
func withHolder(ctx context.Context, h *Holder) context.Context {
	return context.WithValue(ctx, holderCtxKey{}, h)
}

func holderFromContext(ctx context.Context) *Holder {
	h, _ := ctx.Value(holderCtxKey{}).(*Holder)
	return h
}

// CurrentTrace returns the call trace of the holder currently running the
// continuation ctx was handed to, or nil if ctx carries none (for example,
// a context not obtained from inside a NewPromise run function or a Then
// callback). This is the context-scoped replacement for the original's
// free function callStack(), which read the same information off
// threadLocalPromiseHolders().back().
func CurrentTrace(ctx context.Context) *CallTrace {
	h := holderFromContext(ctx)
	if h == nil {
		return nil
	}
	return h.trace
}
