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

// Package erased is the minimal stand-in for the type-erased payload
// container the engine treats as an external collaborator. It gives the
// engine something concrete to hold as a settlement value and a typed
// extraction path that fails in a well-defined way, the same two things
// the dynamic value type in the original implementation offers through
// type() and cast<T>().
package erased

import (
	"fmt"
	"reflect"
)

// Value is an opaque settlement payload. It is never interpreted by the
// engine itself, only carried, copied, and occasionally cast.
type Value = any

// MismatchError is returned by Cast when the held value does not hold a T.
// It plays the role of promise-cpp's bad_any_cast.
type MismatchError struct {
	From reflect.Type
	To   reflect.Type
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("erased: cannot extract %s from %s", e.To, e.From)
}

// Empty reports whether v carries no payload.
func Empty(v Value) bool {
	return v == nil
}

// TypeOf returns the dynamic type of v, or nil if v is empty.
func TypeOf(v Value) reflect.Type {
	if v == nil {
		return nil
	}
	return reflect.TypeOf(v)
}

// Cast extracts a T from v, returning a *MismatchError if v does not hold
// a T. This is the Go analogue of any::cast<T>(), returning the failure
// instead of throwing it; WrapMismatch below turns it into the panic the
// engine treats as the type-mismatch pass-through.
func Cast[T any](v Value) (T, error) {
	var zero T
	if v == nil {
		return zero, &MismatchError{To: reflect.TypeOf(zero)}
	}
	t, ok := v.(T)
	if !ok {
		return zero, &MismatchError{From: reflect.TypeOf(v), To: reflect.TypeOf(zero)}
	}
	return t, nil
}

// MismatchPanic wraps a MismatchError so it can be raised as a panic and
// recognized by the engine's recover path, for callback adapters (see the
// root package's generics.go) that want cast failures to flow through the
// same pass-through policy as the original's bad_any_cast catch does.
type MismatchPanic struct {
	Err *MismatchError
}

// Mismatch is a marker method that lets the engine recognize a
// MismatchPanic via a small local interface, without importing this
// package just to type-switch on it. It is exported so that an interface
// declared in another package can be satisfied by it.
func (MismatchPanic) Mismatch() {}

// WrapMismatch panics with a MismatchPanic if err is a *MismatchError,
// otherwise it is a no-op. Typed callback adapters call this immediately
// after Cast to convert a cast failure into the engine-recognized panic.
func WrapMismatch(err error) {
	if me, ok := err.(*MismatchError); ok {
		panic(MismatchPanic{Err: me})
	}
}
