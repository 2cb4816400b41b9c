package querystate

import (
	"net/url"
	"strings"
	"sync"
)

// Location holds the current query string, the single source of truth for
// the table view. Every change is one read-modify-write under the lock
// followed by one replacement, so a partially applied change is never
// observable.
type Location struct {
	lock        sync.RWMutex
	query       string
	subscribers map[int]func(query string)
	nextID      int
}

func NewLocation(query string) *Location {
	return &Location{
		query:       strings.TrimPrefix(query, "?"),
		subscribers: make(map[int]func(string)),
	}
}

func (l *Location) Query() string {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.query
}

// Update applies fn to the current values and replaces the query with the result
func (l *Location) Update(fn func(url.Values) url.Values) string {
	l.lock.Lock()
	current, err := url.ParseQuery(l.query)
	if err != nil && current == nil {
		current = url.Values{}
	}
	l.query = Encode(fn(current))
	query := l.query
	subscribers := l.snapshotSubscribers()
	l.lock.Unlock()

	for _, fn := range subscribers {
		fn(query)
	}
	return query
}

// Replace swaps in an entirely new query string
func (l *Location) Replace(query string) {
	l.lock.Lock()
	l.query = strings.TrimPrefix(query, "?")
	query = l.query
	subscribers := l.snapshotSubscribers()
	l.lock.Unlock()

	for _, fn := range subscribers {
		fn(query)
	}
}

// Subscribe registers fn to be called with the new query after each change.
// Notifications are delivered outside the lock; a subscriber that needs the
// latest state under concurrent updates should re-read it.
func (l *Location) Subscribe(fn func(query string)) (unsubscribe func()) {
	l.lock.Lock()
	defer l.lock.Unlock()
	id := l.nextID
	l.nextID++
	l.subscribers[id] = fn
	return func() {
		l.lock.Lock()
		defer l.lock.Unlock()
		delete(l.subscribers, id)
	}
}

func (l *Location) snapshotSubscribers() []func(string) {
	out := make([]func(string), 0, len(l.subscribers))
	for id := 0; id < l.nextID; id++ {
		if fn, ok := l.subscribers[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

// Store exposes the table operations over a Location
type Store struct {
	location *Location
}

func NewStore(location *Location) *Store {
	if location == nil {
		location = NewLocation("")
	}
	return &Store{location: location}
}

func (s *Store) Location() *Location {
	return s.location
}

// Read parses the current query; nothing is cached between calls
func (s *Store) Read() ViewState {
	return Parse(s.location.Query())
}

// ApplyTableChange applies a pager, filter and sort change in one replacement
func (s *Store) ApplyTableChange(p Pagination, filters map[string][]string, sorts ...Sort) ViewState {
	query := s.location.Update(func(values url.Values) url.Values {
		return TableChange(values, p, filters, sorts...)
	})
	return Parse(query)
}

// ApplySearch sets or clears the search term in one replacement
func (s *Store) ApplySearch(term string) ViewState {
	query := s.location.Update(func(values url.Values) url.Values {
		return Search(values, term)
	})
	return Parse(query)
}
