// Package testing provides test utilities for the tickshard library.
//
// It follows Go's convention of providing testing utilities in a dedicated
// package (similar to net/http/httptest).
//
// Key utilities:
//   - NewTestLogger: types.Logger that writes through testing.T
//
// Example usage:
//
//	import (
//	    "testing"
//	    shardtest "github.com/PuoChen-SA/tickshard/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    logger := shardtest.NewTestLogger(t)
//	    // Pass logger via tickshard.WithLogger
//	}
package testing
