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

// locker is the interface a Holder's mutex satisfies, regardless of build
// mode. lock_singlethread.go provides a no-op implementation;
// lock_multithread.go (behind the promise_multithread build tag) provides
// the re-entrant counting mutex described in spec §5.
type locker interface {
	lock()
	unlock()
	// waitFront blocks until ready reports true, establishing FIFO
	// fairness across goroutines contending for the same holder.
	waitFront(ready func() bool)
	broadcast()
}
