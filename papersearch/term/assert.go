package term

import "github.com/cockroachdb/errors"

// assertf panics with an assertion failure when cond is false. Assertions
// guard programmer errors, never user input.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(errors.AssertionFailedf(format, args...))
	}
}
