package view

import (
	"errors"

	"eventdesk/internal/api"
	"eventdesk/internal/auth"
	"eventdesk/internal/logger"
)

// View errors.
var (
	ErrInFlight          = errors.New("request already in progress")
	ErrAlreadyMounted    = errors.New("view already mounted")
	ErrNotMounted        = errors.New("view not mounted")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrNotConfirming     = errors.New("registration was not requested")
	ErrUnknownEvent      = errors.New("event not in list")
)

// User-facing messages.
const (
	MsgGeneric            = "Something went wrong. Please try again."
	MsgSessionExpired     = "Your session has expired. Please sign in again."
	MsgRegistrationFailed = "Registration failed!"
	MsgFeedLoadFailed     = "Failed to load events. Please try again later."
	MsgJoinedLoadFailed   = "Failed to fetch events."
	MsgLeaveFailed        = "Failed to leave event."
	MsgCreateFailed       = "Error creating event, please try again."
	MsgMissingFields      = "Please fill out all required fields."
	MsgEventLive          = "Congratulations! Your event is now live."
)

// RouteDashboard is where the creation form navigates after success or cancel.
const RouteDashboard = "/dashboard"

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(msg string)
}

// Navigator moves the user to another screen.
type Navigator interface {
	Navigate(route string)
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(msg string)

// Alert implements Alerter.
func (f AlertFunc) Alert(msg string) { f(msg) }

// NavigateFunc adapts a function to Navigator.
type NavigateFunc func(route string)

// Navigate implements Navigator.
func (f NavigateFunc) Navigate(route string) { f(route) }

// Phase is the lifecycle stage of a list view. Exactly one is active.
type Phase int

// List view phases.
const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseError
	PhaseEmpty
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseEmpty:
		return "empty"
	case PhaseReady:
		return "ready"
	}

	return "unknown"
}

// failureMessage picks the text shown for a failed call: the session notice
// for expired credentials, the generic text for transport problems, and the
// server message (or appFallback) for application failures.
func failureMessage(err error, appFallback string) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return MsgSessionExpired
	case api.IsTransport(err):
		return MsgGeneric
	}

	if _, ok := api.AsAPIError(err); ok {
		return api.MessageOr(err, appFallback)
	}

	return MsgGeneric
}

func alert(a Alerter, msg string) {
	if a != nil {
		a.Alert(msg)
	}
}

func orDiscard(log *logger.Logger) *logger.Logger {
	if log == nil {
		return logger.Discard()
	}

	return log
}
