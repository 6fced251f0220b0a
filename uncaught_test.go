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

	"github.com/stretchr/testify/require"
)

func TestWithSinkOverridesDefault(t *testing.T) {
	var caught any
	cfg := buildConfig([]Option{WithSink(func(v any) { caught = v })})
	h := newHolder(cfg)

	fireUncaught(h, "boom")

	require.Equal(t, "boom", caught)
}

func TestFireUncaughtFallsBackToGlobalSink(t *testing.T) {
	var caught any
	HandleUncaughtException(func(v any) { caught = v })
	defer HandleUncaughtException(nil)

	h := newHolder(buildConfig(nil))
	fireUncaught(h, "global")

	require.Equal(t, "global", caught)
}
