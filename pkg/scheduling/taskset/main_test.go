package taskset

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in this package.
// Every test closes its Set, which detaches pending entries and waits for
// their goroutines, so no ignores are needed.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
