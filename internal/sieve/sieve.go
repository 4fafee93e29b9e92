// Package sieve finds primes with the Sieve of Eratosthenes.
package sieve

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// MaxBound is the largest upper bound ParseBound accepts.
const MaxBound = math.MaxInt32

var (
	// ErrNegativeBound indicates an upper bound below zero.
	ErrNegativeBound = errors.New("sieve: upper bound must not be negative")
	// ErrBoundTooLarge indicates an upper bound above MaxBound.
	ErrBoundTooLarge = errors.New("sieve: upper bound too large")
)

// Primes returns every prime in [2, n] in ascending order. For n < 2 the
// result is empty.
func Primes(n int) []int {
	if n < 2 {
		return []int{}
	}
	composite := make([]bool, n+1)
	for i := 2; i <= n; i++ {
		if composite[i] {
			continue
		}
		for j := i << 1; j <= n; j += i {
			composite[j] = true
		}
	}
	primes := make([]int, 0, estimateCount(n))
	for i := 2; i <= n; i++ {
		if !composite[i] {
			primes = append(primes, i)
		}
	}
	return primes
}

// ParseBound parses a command line upper bound in [0, MaxBound].
func ParseBound(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid upper bound %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeBound, n)
	}
	if n > MaxBound {
		return 0, fmt.Errorf("%w: %d exceeds %d", ErrBoundTooLarge, n, MaxBound)
	}
	return n, nil
}

// estimateCount bounds pi(n) from above (Rosser and Schoenfeld) for slice capacity.
func estimateCount(n int) int {
	return int(1.26*float64(n)/math.Log(float64(n))) + 1
}
