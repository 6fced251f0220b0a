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

import "github.com/google/uuid"

// Config groups the construction-time options for a Promise, generalizing
// the original's compile-time PM_MAX_LOC macro into a runtime setting, the
// way this package's teacher generalizes per-Group settings through
// GroupConfig/NewGroup.
type Config struct {
	maxTrace   int
	sink       UncaughtHandler
	correlated bool
}

// Option configures a Config value.
type Option func(*Config)

// WithMaxTrace overrides the call trace capacity for one Promise, in place
// of the original's PM_MAX_LOC.
func WithMaxTrace(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.maxTrace = n
		}
	}
}

// WithSink overrides the uncaught-rejection sink used by one Promise's
// holder instead of the process-wide default installed by
// HandleUncaughtException.
func WithSink(h UncaughtHandler) Option {
	return func(c *Config) {
		if h != nil {
			c.sink = h
		}
	}
}

// WithCorrelationID gives the holder a github.com/google/uuid correlation
// id, minted lazily the first time the holder's uncaught rejection is
// logged, and written into that log entry. Trace dumps do not include it.
func WithCorrelationID() Option {
	return func(c *Config) {
		c.correlated = true
	}
}

func buildConfig(opts []Option) Config {
	c := Config{maxTrace: DefaultMaxTraceLen}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// newCorrelationID mints a fresh id, used lazily by holders constructed
// with WithCorrelationID.
func newCorrelationID() string {
	return uuid.NewString()
}
