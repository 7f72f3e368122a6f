package store

import "strings"

// Search tracks the live query and a monotonically increasing request
// token. The debounce timer and the network reply are separate
// suspension points, so "last timer wins" is not enough: every query
// edit bumps the token, and both the timer tick and the response carry
// the token they were issued for. Anything stale is discarded.
type Search struct {
	query string
	seq   int
}

// SetQuery records a new query value and returns the token that any
// debounce timer started for it must carry.
func (s *Search) SetQuery(query string) int {
	s.query = query
	s.seq++
	return s.seq
}

// Query returns the raw query text.
func (s *Search) Query() string {
	return s.query
}

// Active reports whether a non-whitespace query is present.
func (s *Search) Active() bool {
	return strings.TrimSpace(s.query) != ""
}

// Current reports whether the token belongs to the latest query edit.
func (s *Search) Current(token int) bool {
	return token == s.seq
}

// Cancel invalidates all outstanding tokens. Used when the search view
// is torn down so no dangling callback can apply results afterwards.
func (s *Search) Cancel() {
	s.seq++
}
