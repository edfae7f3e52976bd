package conformance

import (
	"fmt"
	"io"
)

// PrintInstructions explains how to make module importable and run the
// suite against it.
func PrintInstructions(w io.Writer, module string) {
	fmt.Fprintf(w, `
=== Running ndwrap Array Binding Tests ===

These tests verify the array wrappers through the functions that
%[1]s exports, but %[1]s is not available in this binary.

Prerequisites:
1. Build ndcheck with the example project linked in (the default):
   go build ./cmd/ndcheck
   Binaries built with -tags noexample leave it out.

2. Run the suite:
   ./ndcheck

   Or through go test:
   go test ./conformance -v

Quick check:
  go test ./exampleproject -run TestExports -v
`, module)
}
