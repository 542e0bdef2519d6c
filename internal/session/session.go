// Package session owns the current search state of one page and its
// back/forward navigation.
package session

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/loculus-project/seqsearch/internal/binding"
	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/querystate"
	"github.com/loculus-project/seqsearch/internal/search"
)

const defaultHistoryLimit = 100

// Session holds the current query snapshot. Every change replaces the snapshot
// wholesale under the lock, computed from the snapshot it replaces.
type Session struct {
	mu      sync.Mutex
	reducer *search.Reducer
	state   querystate.State
	back    []string
	forward []string

	limit    int
	onChange []func(query string)
	logger   zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger replaces the global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithHistoryLimit caps the back stack.
func WithHistoryLimit(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.limit = n
		}
	}
}

// OnChange registers a callback that receives the canonical query after every
// change, including back and forward. Callbacks run outside the lock.
func OnChange(fn func(query string)) Option {
	return func(s *Session) { s.onChange = append(s.onChange, fn) }
}

// New parses rawQuery into the initial snapshot. Undecodable escapes are kept
// as written and logged; a user-supplied URL never fails to load.
func New(reducer *search.Reducer, rawQuery string, opts ...Option) *Session {
	s := &Session{
		reducer: reducer,
		limit:   defaultHistoryLimit,
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = s.parse(rawQuery)
	return s
}

func (s *Session) parse(raw string) querystate.State {
	state, err := querystate.Parse(raw)
	if err != nil {
		s.logger.Warn().Err(err).Msg("query kept with undecoded text")
	}
	return state
}

// Reducer returns the session's reducer.
func (s *Session) Reducer() *search.Reducer { return s.reducer }

// State returns the current snapshot.
func (s *Session) State() querystate.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Query returns the canonical query string of the current snapshot.
func (s *Session) Query() string {
	return s.State().Encode()
}

// URL joins base with the current query.
func (s *Session) URL(base string) string {
	q := s.Query()
	if q == "" {
		return base
	}
	return base + "?" + q
}

// Apply replaces the snapshot with fn's result. A result equal to the current
// snapshot is not recorded as a navigation step. Returns the new snapshot.
func (s *Session) Apply(action string, fn func(querystate.State) querystate.State) querystate.State {
	s.mu.Lock()
	prev := s.state
	next := fn(prev)
	if next.Equal(prev) {
		s.mu.Unlock()
		s.logger.Debug().Str("action", action).Msg("search state unchanged")
		return next
	}
	s.pushBack(prev.Encode())
	s.forward = nil
	s.state = next
	s.mu.Unlock()

	query := next.Encode()
	s.logger.Debug().Str("action", action).Str("query", query).Msg("search state changed")
	s.notify(query)
	return next
}

// Navigate loads a new query as if the user followed a link.
func (s *Session) Navigate(rawQuery string) {
	state := s.parse(rawQuery)
	s.Apply("navigate", func(querystate.State) querystate.State { return state })
}

// Back restores the previous snapshot. It reports false when there is none.
func (s *Session) Back() bool {
	return s.step(&s.back, &s.forward, "back")
}

// Forward re-applies a snapshot undone by Back.
func (s *Session) Forward() bool {
	return s.step(&s.forward, &s.back, "forward")
}

func (s *Session) step(from, to *[]string, action string) bool {
	s.mu.Lock()
	if len(*from) == 0 {
		s.mu.Unlock()
		return false
	}
	raw := (*from)[len(*from)-1]
	// entries come from Encode and always decode cleanly
	state, _ := querystate.Parse(raw)
	*from = (*from)[:len(*from)-1]
	*to = append(*to, s.state.Encode())
	s.state = state
	s.mu.Unlock()

	s.logger.Debug().Str("action", action).Str("query", raw).Msg("search state restored")
	s.notify(raw)
	return true
}

// CanBack reports whether Back would succeed.
func (s *Session) CanBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.back) > 0
}

// CanForward reports whether Forward would succeed.
func (s *Session) CanForward() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.forward) > 0
}

func (s *Session) pushBack(raw string) {
	s.back = append(s.back, raw)
	if over := len(s.back) - s.limit; over > 0 {
		s.back = append([]string(nil), s.back[over:]...)
	}
}

func (s *Session) notify(query string) {
	for _, fn := range s.onChange {
		fn(query)
	}
}

// Snapshot is every derived value of one search state.
type Snapshot struct {
	Query            string
	FieldValues      search.FieldValues
	SearchVisibility map[string]bool
	ColumnVisibility map[string]bool
	OrderBy          string
	Order            models.OrderDirection
	Page             int
	Mutations        search.MutationFilter
	Suborganism      string
	SelectedSeq      *string
	HalfScreen       bool
}

// Snapshot derives the current view.
func (s *Session) Snapshot() Snapshot {
	return Derive(s.reducer, s.State(), s.logger)
}

// Derive computes a Snapshot of state. Unreadable presentation toggles fall
// back to their defaults and are logged.
func Derive(r *search.Reducer, state querystate.State, logger zerolog.Logger) Snapshot {
	snap := Snapshot{
		Query:            state.Encode(),
		FieldValues:      r.FieldValues(state),
		SearchVisibility: r.SearchVisibilities(state),
		ColumnVisibility: r.ColumnVisibilities(state),
		OrderBy:          r.OrderByField(state),
		Order:            r.OrderDirection(state),
		Page:             r.Page(state),
		Mutations:        r.Mutations(state),
		Suborganism:      r.Suborganism(state),
	}

	selected, err := binding.SelectedSeq().Read(state)
	if err != nil {
		logger.Warn().Err(err).Msg("ignoring selected sequence")
	}
	snap.SelectedSeq = selected

	half, err := binding.HalfScreen().Read(state)
	if err != nil {
		logger.Warn().Err(err).Msg("ignoring layout toggle")
	}
	snap.HalfScreen = half
	return snap
}
