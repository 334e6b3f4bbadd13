package app

import "sync"

// Navigator records the view a client is on. It replaces client-side routing:
// services move it and handlers report it as redirect_to.
type Navigator struct {
	mu      sync.RWMutex
	current string
}

func NewNavigator(initial string) *Navigator {
	return &Navigator{current: initial}
}

func (n *Navigator) Navigate(path string) {
	n.mu.Lock()
	n.current = path
	n.mu.Unlock()
}

func (n *Navigator) Current() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}
