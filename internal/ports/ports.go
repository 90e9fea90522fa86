// Package ports assigns the HTTP/TLS port pair for a new unit, avoiding
// every port already recorded against the solution's existing units.
package ports

import (
	"fmt"
	"math/rand/v2"

	"github.com/stackgen-labs/stackgen/internal/solution"
)

// Pair is an allocated port pair. TLSFallback is set when the TLS port
// could not be derived by the fixed offset and an independent random
// search was used instead. Callers surface this, it is never silent.
type Pair struct {
	HTTP        int
	TLS         int
	TLSFallback bool
}

// Allocator draws candidate ports first-fit from [Min, Max] in Stride
// steps, so a clean solution always receives the same pairs. The TLS port
// is derived as HTTP+TLSOffset unless that value collides.
type Allocator struct {
	Min         int
	Max         int
	Stride      int
	TLSOffset   int
	MaxAttempts int
}

// ExhaustedError reports that no free port pair could be found within the
// configured range and attempt budget.
type ExhaustedError struct {
	Min      int
	Max      int
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("port range %d-%d exhausted after %d attempts", e.Min, e.Max, e.Attempts)
}

// Default returns an allocator with the stock range. The CLI overrides
// these from user configuration.
func Default() Allocator {
	return Allocator{
		Min:         8100,
		Max:         8499,
		Stride:      2,
		TLSOffset:   1000,
		MaxAttempts: 64,
	}
}

// Allocate returns a port pair not colliding with any port recorded
// against existing units.
func (a Allocator) Allocate(existing []solution.Unit) (Pair, error) {
	if a.Stride <= 0 {
		return Pair{}, fmt.Errorf("invalid port stride %d", a.Stride)
	}
	used := solution.UsedPorts(existing)

	attempts := 0
	for candidate := a.Min; candidate <= a.Max && attempts < a.MaxAttempts; candidate += a.Stride {
		attempts++
		if used[candidate] {
			continue
		}

		tls := candidate + a.TLSOffset
		if tls != candidate && !used[tls] {
			return Pair{HTTP: candidate, TLS: tls}, nil
		}

		// Offset-derived port collides. Fall back to an independent
		// random search, signaled via TLSFallback.
		if tls, ok := a.randomTLS(used, candidate); ok {
			return Pair{HTTP: candidate, TLS: tls, TLSFallback: true}, nil
		}
		return Pair{}, &ExhaustedError{Min: a.Min, Max: a.Max, Attempts: attempts}
	}

	return Pair{}, &ExhaustedError{Min: a.Min, Max: a.Max, Attempts: attempts}
}

// randomTLS searches for a free TLS port by random draws over the widened
// range [Min, Max+TLSOffset].
func (a Allocator) randomTLS(used map[int]bool, httpPort int) (int, bool) {
	span := a.Max + a.TLSOffset - a.Min + 1
	if span <= 0 {
		return 0, false
	}
	for i := 0; i < a.MaxAttempts; i++ {
		p := a.Min + rand.IntN(span)
		if p != httpPort && !used[p] {
			return p, true
		}
	}
	return 0, false
}
