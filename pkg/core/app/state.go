// Package app is the application controller: a single tagged UI state and
// the transitions between idle, loading, authorization, error and result.
package app

import (
	"errors"
	"fmt"

	"grant_finder/pkg/core/errclass"
	"grant_finder/pkg/models"
)

// State is exactly one of Idle, Loading, AwaitingAuthorization, Failed or
// ShowingResult.
type State interface {
	Name() string
	isState()
}

// Idle shows the search form.
type Idle struct{}

// Loading means one search is in flight.
type Loading struct {
	Query string
}

// AwaitingAuthorization asks the user to select a valid API key.
type AwaitingAuthorization struct {
	Message string // empty when the credential check failed before any call
}

// Failed shows a dismissible error panel.
type Failed struct {
	Kind    errclass.Kind
	Message string
}

// ShowingResult displays a finished report.
type ShowingResult struct {
	Query  string
	Result *models.ResearchResult
}

func (Idle) Name() string                  { return "idle" }
func (Loading) Name() string               { return "loading" }
func (AwaitingAuthorization) Name() string { return "awaiting_authorization" }
func (Failed) Name() string                { return "error" }
func (ShowingResult) Name() string         { return "showing_result" }

func (Idle) isState()                  {}
func (Loading) isState()               {}
func (AwaitingAuthorization) isState() {}
func (Failed) isState()                {}
func (ShowingResult) isState()         {}

// Event drives a transition.
type Event interface {
	isEvent()
}

// Submitted starts a search for an already normalized query.
type Submitted struct{ Query string }

// CredentialMissing is raised when the pre-flight check finds no key.
type CredentialMissing struct{ Message string }

// Resolved carries the gateway's result.
type Resolved struct{ Result *models.ResearchResult }

// Rejected carries the gateway's classified failure.
type Rejected struct{ Err *errclass.Error }

// CredentialSelected follows a completed key selection.
type CredentialSelected struct{}

// Dismissed closes the error or authorization panel.
type Dismissed struct{}

// Closed discards the shown result.
type Closed struct{}

func (Submitted) isEvent()          {}
func (CredentialMissing) isEvent()  {}
func (Resolved) isEvent()           {}
func (Rejected) isEvent()           {}
func (CredentialSelected) isEvent() {}
func (Dismissed) isEvent()          {}
func (Closed) isEvent()             {}

var (
	// ErrBusy is returned while a search is in flight.
	ErrBusy = errors.New("a search is already in progress")
	// ErrInvalidTransition is returned for events the current state ignores.
	ErrInvalidTransition = errors.New("invalid transition")
)

// Reduce is the single transition function. On error the state is returned
// unchanged.
func Reduce(s State, e Event) (State, error) {
	switch st := s.(type) {
	case Idle, Failed, AwaitingAuthorization:
		switch ev := e.(type) {
		case Submitted:
			return Loading{Query: ev.Query}, nil
		case Dismissed:
			if _, ok := st.(Idle); !ok {
				return Idle{}, nil
			}
		case CredentialSelected:
			if _, ok := st.(AwaitingAuthorization); ok {
				return Idle{}, nil
			}
		}

	case Loading:
		switch ev := e.(type) {
		case Submitted:
			return s, ErrBusy
		case CredentialMissing:
			return AwaitingAuthorization{Message: ev.Message}, nil
		case Resolved:
			return ShowingResult{Query: st.Query, Result: ev.Result}, nil
		case Rejected:
			if ev.Err == nil {
				return Failed{Kind: errclass.KindUpstreamUnknown}, nil
			}
			if ev.Err.Kind.RequiresAuthorization() {
				return AwaitingAuthorization{Message: ev.Err.Message}, nil
			}
			return Failed{Kind: ev.Err.Kind, Message: ev.Err.Message}, nil
		}

	case ShowingResult:
		if _, ok := e.(Closed); ok {
			return Idle{}, nil
		}
	}

	return s, fmt.Errorf("%w: %T in %s", ErrInvalidTransition, e, s.Name())
}
