package graph

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"sync"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// IDGenerator produces candidate ids for elements added with the zero id.
// The graph retries a few times when a candidate collides with an existing
// id before giving up with ErrIDExhausted.
type IDGenerator[I cmp.Ordered] func() (I, error)

const maxIDAttempts = 16

// NanoIDs generates 21 character nanoids.
func NanoIDs[I ~string]() IDGenerator[I] {
	return func() (I, error) {
		id, err := gonanoid.New()
		if err != nil {
			return "", fmt.Errorf("nanoid: %w", err)
		}
		return I(id), nil
	}
}

// UUIDs generates random (version 4) UUID strings.
func UUIDs[I ~string]() IDGenerator[I] {
	return func() (I, error) {
		return I(uuid.NewString()), nil
	}
}

// Integer is the set of integer kinds usable with Sequence.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Sequence generates start, start+1, ... and fails with ErrIDExhausted once
// the type overflows. It is safe to share between graphs.
func Sequence[I Integer](start I) IDGenerator[I] {
	var (
		mu   sync.Mutex
		next = start
		done bool
	)
	return func() (I, error) {
		mu.Lock()
		defer mu.Unlock()
		if done {
			return 0, ErrIDExhausted
		}
		id := next
		next++
		if next < id {
			done = true
		}
		return id, nil
	}
}

// defaultIDs picks a generator by the kind of I: nanoids for strings and a
// sequence starting at 1 for numbers.
func defaultIDs[I cmp.Ordered]() IDGenerator[I] {
	var zero I
	switch reflect.ValueOf(zero).Kind() {
	case reflect.String:
		return func() (I, error) {
			s, err := gonanoid.New()
			if err != nil {
				return zero, fmt.Errorf("nanoid: %w", err)
			}
			var id I
			reflect.ValueOf(&id).Elem().SetString(s)
			return id, nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var mu sync.Mutex
		var next int64 = 1
		return func() (I, error) {
			mu.Lock()
			defer mu.Unlock()
			var id I
			rv := reflect.ValueOf(&id).Elem()
			if next == math.MaxInt64 || rv.OverflowInt(next) {
				return id, ErrIDExhausted
			}
			rv.SetInt(next)
			next++
			return id, nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		var mu sync.Mutex
		var next uint64 = 1
		return func() (I, error) {
			mu.Lock()
			defer mu.Unlock()
			var id I
			rv := reflect.ValueOf(&id).Elem()
			if next == math.MaxUint64 || rv.OverflowUint(next) {
				return id, ErrIDExhausted
			}
			rv.SetUint(next)
			next++
			return id, nil
		}
	default:
		var mu sync.Mutex
		next := 1.0
		return func() (I, error) {
			mu.Lock()
			defer mu.Unlock()
			var id I
			rv := reflect.ValueOf(&id).Elem()
			if rv.OverflowFloat(next) || next+1 == next {
				return id, ErrIDExhausted
			}
			rv.SetFloat(next)
			next++
			return id, nil
		}
	}
}
