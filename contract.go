package fastvec

import "fmt"

// checkContract panics with a contract violation when cond is false and debug assertions are on.
// Preconditions checked here are programming errors, not recoverable conditions.
func checkContract(cond bool, msg string) {
	if debugAssertions && !cond {
		panic(fmt.Errorf("%w: %s", ErrContractViolation, msg))
	}
}
