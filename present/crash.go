package present

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync/atomic"
)

// crashTerminal is finalized before a crash report so the report lands on a sane terminal
var crashTerminal atomic.Pointer[Terminal]

// Crash report sink and process exit, replaced in tests
var (
	crashOutput io.Writer = os.Stderr
	crashExit             = os.Exit
)

// HandleCrash restores the terminal, prints r with a stack trace, and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	if t := crashTerminal.Load(); t != nil {
		t.Close()
	}

	fmt.Fprintf(crashOutput, "\n\x1b[31mCRASH DETECTED: %v\x1b[0m\n", r)
	fmt.Fprintf(crashOutput, "Stack Trace:\n%s\n", debug.Stack())
	crashExit(1)
}

// Go runs fn in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword while a Terminal is open.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
