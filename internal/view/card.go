package view

import (
	"context"
	"sync/atomic"

	"eventdesk/internal/api"
	"eventdesk/internal/logger"
	"eventdesk/internal/models"
)

// CardState is what one feed card shows.
type CardState struct {
	Alert      string
	Event      models.Event
	Attendees  int
	Registered bool
	PopupOpen  bool
	Pending    bool
}

// EventCard is the view model of one event in the feed. It owns the
// registration flow: request, confirm or cancel, then refresh the count.
type EventCard struct {
	client  api.Client
	alerter Alerter
	logger  *logger.Logger
	store   *Store[CardState]
	sched   atomic.Pointer[Scheduler]
	busy    atomic.Bool
}

// NewEventCard creates a card for ev.
func NewEventCard(ev models.Event, client api.Client, alerter Alerter, log *logger.Logger) *EventCard {
	return &EventCard{
		client:  client,
		alerter: alerter,
		logger:  orDiscard(log).With("event_id", ev.ID.String()),
		store:   NewStore(CardState{Event: ev, Attendees: ev.Attendees}),
	}
}

// State returns a snapshot of the card.
func (c *EventCard) State() CardState {
	return c.store.Get()
}

// Subscribe registers fn for state changes.
func (c *EventCard) Subscribe(fn func(CardState)) func() {
	return c.store.Subscribe(fn)
}

// sync replaces the event data with a fresher copy from the feed. The
// registration flow state is kept.
func (c *EventCard) sync(ev models.Event) {
	if c.store.Get().Event == ev {
		return
	}

	c.store.Update(func(s *CardState) {
		s.Event = ev
		s.Attendees = ev.Attendees
	})
}

// attach ties the card to the scheduler of the feed that owns it, so that
// registration results arriving after the feed unmounts are dropped.
func (c *EventCard) attach(s *Scheduler) {
	if s != nil {
		c.sched.Store(s)
	}
}

// commit applies fn to the state unless the owning feed has unmounted.
// Cards without a feed always commit.
func (c *EventCard) commit(fn func(*CardState)) bool {
	s := c.sched.Load()
	if s == nil {
		c.store.Update(fn)
		return true
	}

	return s.Commit(func() {
		c.store.Update(fn)
	})
}

// RequestRegistration opens the confirmation popup.
func (c *EventCard) RequestRegistration() {
	c.store.Update(func(s *CardState) {
		if !s.Registered {
			s.PopupOpen = true
		}
	})
}

// CancelRegistration dismisses the popup without contacting the backend.
func (c *EventCard) CancelRegistration() {
	c.store.Update(func(s *CardState) {
		s.PopupOpen = false
	})
}

// ConfirmRegistration joins the event. On success the card becomes
// registered for good and its attendee count is refreshed from the listing
// endpoint; on failure the card is left as it was and the user is alerted.
// Once the owning feed has unmounted nothing is written and no alert is shown.
func (c *EventCard) ConfirmRegistration(ctx context.Context) error {
	if !c.busy.CompareAndSwap(false, true) {
		return ErrInFlight
	}
	defer c.busy.Store(false)

	st := c.store.Get()
	if st.Registered {
		return ErrAlreadyRegistered
	}

	if !st.PopupOpen {
		return ErrNotConfirming
	}

	id := st.Event.ID

	started := c.commit(func(s *CardState) {
		s.Pending = true
		s.Alert = ""
	})
	if !started {
		return ErrNotMounted
	}

	if _, err := c.client.JoinEvent(ctx, id); err != nil {
		msg := failureMessage(err, MsgRegistrationFailed)
		c.logger.Error("registration failed", "error", err)
		shown := c.commit(func(s *CardState) {
			s.Pending = false
			s.Alert = msg
		})
		if shown {
			alert(c.alerter, msg)
		}

		return err
	}

	c.logger.Info("registered for event")
	if !c.commit(func(s *CardState) { s.Registered = true }) {
		c.logger.Debug("feed unmounted, registration result dropped")
		return nil
	}

	attendees := c.store.Get().Attendees

	events, err := c.client.ViewEvents(ctx)
	if err != nil {
		c.logger.Warn("attendee refresh failed, keeping previous count", "error", err)
	} else if ev, ok := models.FindEvent(events, id); ok {
		attendees = ev.Attendees
	}

	c.commit(func(s *CardState) {
		s.Attendees = attendees
		s.PopupOpen = false
		s.Pending = false
	})

	return nil
}
