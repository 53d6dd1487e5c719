package testutil

import "sync"

// RecordingNotifier captures notices for assertions.
type RecordingNotifier struct {
	mu        sync.Mutex
	Successes []string
	Errors    []string
	Infos     []string
}

func (n *RecordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Successes = append(n.Successes, msg)
}

func (n *RecordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Errors = append(n.Errors, msg)
}

func (n *RecordingNotifier) Info(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Infos = append(n.Infos, msg)
}

func (n *RecordingNotifier) LastError() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Errors) == 0 {
		return ""
	}
	return n.Errors[len(n.Errors)-1]
}

func (n *RecordingNotifier) LastSuccess() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Successes) == 0 {
		return ""
	}
	return n.Successes[len(n.Successes)-1]
}

// FakeNavigator records navigations and tracks the current view.
type FakeNavigator struct {
	mu      sync.Mutex
	current string
	Visited []string
}

func NewFakeNavigator(current string) *FakeNavigator {
	return &FakeNavigator{current: current}
}

func (nav *FakeNavigator) Current() string {
	nav.mu.Lock()
	defer nav.mu.Unlock()
	return nav.current
}

func (nav *FakeNavigator) Navigate(path string) {
	nav.mu.Lock()
	defer nav.mu.Unlock()
	nav.current = path
	nav.Visited = append(nav.Visited, path)
}
