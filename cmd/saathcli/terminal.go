package main

import (
	"fmt"
	"io"
	"sync"
)

// terminalNotifier renders transient notices as prefixed lines, the CLI's
// stand-in for toast messages.
type terminalNotifier struct {
	out io.Writer
}

func (n *terminalNotifier) Success(msg string) {
	fmt.Fprintf(n.out, "ok: %s\n", msg)
}

func (n *terminalNotifier) Error(msg string) {
	fmt.Fprintf(n.out, "error: %s\n", msg)
}

func (n *terminalNotifier) Info(msg string) {
	fmt.Fprintf(n.out, "info: %s\n", msg)
}

// terminalNavigator tracks the "current view" so redirect rules (no
// redirect loop onto the sign-in surface) behave as they would in the SPA.
type terminalNavigator struct {
	out io.Writer

	mu      sync.Mutex
	current string
}

func (nav *terminalNavigator) Current() string {
	nav.mu.Lock()
	defer nav.mu.Unlock()
	return nav.current
}

func (nav *terminalNavigator) Navigate(path string) {
	nav.mu.Lock()
	nav.current = path
	nav.mu.Unlock()
	fmt.Fprintf(nav.out, "-> %s\n", path)
}
