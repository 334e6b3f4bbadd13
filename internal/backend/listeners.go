package backend

import (
	"sort"
	"sync"
)

// Listeners fans auth-state changes out to subscribers. Callbacks run on the
// emitting goroutine, outside the lock, in subscription order.
type Listeners struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]AuthStateCallback
}

func NewListeners() *Listeners {
	return &Listeners{subs: make(map[int]AuthStateCallback)}
}

func (l *Listeners) Add(cb AuthStateCallback) Unsubscribe {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = cb
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, id)
			l.mu.Unlock()
		})
	}
}

func (l *Listeners) Emit(change AuthStateChange) {
	l.mu.Lock()
	ids := make([]int, 0, len(l.subs))
	for id := range l.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	cbs := make([]AuthStateCallback, 0, len(ids))
	for _, id := range ids {
		cbs = append(cbs, l.subs[id])
	}
	l.mu.Unlock()

	for _, cb := range cbs {
		cb(change)
	}
}

func (l *Listeners) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

func (l *Listeners) Clear() {
	l.mu.Lock()
	l.subs = make(map[int]AuthStateCallback)
	l.mu.Unlock()
}
