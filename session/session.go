// Package session keeps the state of multi step conversations, one per user.
//
// Front-ends pass the user id to every call, so that handlers share no
// selection beyond what the store holds for that user.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/etnz/finrep"
	"github.com/etnz/finrep/date"
	"github.com/patrickmn/go-cache"
)

// DefaultTTL is how long an idle conversation is kept.
const DefaultTTL = 30 * time.Minute

// ErrNoSession is returned for a user without a conversation in progress.
var ErrNoSession = errors.New("no conversation in progress")

// Kind is the report a conversation is about.
type Kind string

const (
	Main  Kind = "main"
	Year  Kind = "year"
	Month Kind = "month"
)

// ParseKind accepts "main", "year" and "month".
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Main, Year, Month:
		return k, nil
	default:
		return "", fmt.Errorf("unknown report %q, want main, year or month", s)
	}
}

// Step is the input a conversation waits for.
type Step int

const (
	AskCurrency Step = iota
	AskYear
	AskMonth
	Done
)

func (s Step) String() string {
	switch s {
	case AskCurrency:
		return "currency"
	case AskYear:
		return "year"
	case AskMonth:
		return "month"
	default:
		return "done"
	}
}

// State is a conversation in progress.
type State struct {
	User     string
	Kind     Kind
	Step     Step
	Currency string
	Year     int
	Month    time.Month
}

// next returns the step following s for this kind of report.
func (s State) next() Step {
	switch {
	case s.Step == AskCurrency && s.Kind != Main:
		return AskYear
	case s.Step == AskYear && s.Kind == Month:
		return AskMonth
	default:
		return Done
	}
}

// Request is what a completed conversation asks for.
type Request struct {
	Kind     Kind
	Currency string
	Range    date.Range // empty for the main report
}

// Request returns the request of a completed conversation.
func (s State) Request() (Request, bool) {
	if s.Step != Done {
		return Request{}, false
	}
	r := Request{Kind: s.Kind, Currency: s.Currency}
	switch s.Kind {
	case Year:
		r.Range = date.NewRange(date.New(s.Year, time.January, 1), date.Yearly)
	case Month:
		r.Range = date.NewRange(date.New(s.Year, s.Month, 1), date.Monthly)
	}
	return r, true
}

// Store keeps one State per user, dropped after being idle for the ttl.
type Store struct {
	mu         sync.Mutex
	states     *cache.Cache
	currencies finrep.Currencies
}

// NewStore returns a store accepting currencies.
func NewStore(currencies finrep.Currencies, ttl time.Duration) *Store {
	return &Store{
		states:     cache.New(ttl, 2*ttl),
		currencies: currencies,
	}
}

// Begin starts, or restarts, a conversation for user.
func (s *Store) Begin(user string, kind Kind) State {
	st := State{User: user, Kind: kind, Step: AskCurrency}
	s.states.Set(user, st, cache.DefaultExpiration)
	return st
}

// Get returns the conversation of user.
func (s *Store) Get(user string) (State, bool) {
	v, ok := s.states.Get(user)
	if !ok {
		return State{}, false
	}
	return v.(State), true
}

// Advance answers the current step of user's conversation with input. An
// invalid input leaves the conversation unchanged.
func (s *Store) Advance(user, input string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.Get(user)
	if !ok {
		return State{}, ErrNoSession
	}
	input = strings.TrimSpace(input)
	switch st.Step {
	case AskCurrency:
		code := strings.ToUpper(input)
		if err := s.currencies.Validate(code, "report currency"); err != nil {
			return st, err
		}
		st.Currency = code
	case AskYear:
		y, err := strconv.Atoi(input)
		if err != nil || y < 1900 || y > 9999 {
			return st, fmt.Errorf("invalid year %q", input)
		}
		st.Year = y
	case AskMonth:
		m, err := strconv.Atoi(input)
		if err != nil || m < 1 || m > 12 {
			return st, fmt.Errorf("invalid month %q, want 1 to 12", input)
		}
		st.Month = time.Month(m)
	case Done:
		return st, fmt.Errorf("conversation of %s is complete", user)
	}
	st.Step = st.next()
	s.states.Set(user, st, cache.DefaultExpiration)
	return st, nil
}

// End forgets user's conversation.
func (s *Store) End(user string) { s.states.Delete(user) }
