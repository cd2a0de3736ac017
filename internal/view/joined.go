package view

import (
	"context"
	"sync"

	"eventdesk/internal/api"
	"eventdesk/internal/logger"
	"eventdesk/internal/models"
)

// JoinedState is the list of events the user has registered for.
type JoinedState struct {
	Error   string
	Alert   string
	Leaving models.ID
	Events  []models.JoinedEvent
	Phase   Phase
}

// JoinedEvents loads the user's registrations on mount and supports leaving.
type JoinedEvents struct {
	client  api.Client
	alerter Alerter
	logger  *logger.Logger
	store   *Store[JoinedState]
	sched   *Scheduler
	mu      sync.Mutex
	leaving sync.Mutex
}

// NewJoinedEvents creates an unmounted joined-events view.
func NewJoinedEvents(client api.Client, alerter Alerter, log *logger.Logger) *JoinedEvents {
	return &JoinedEvents{
		client:  client,
		alerter: alerter,
		logger:  orDiscard(log).Component("joined"),
		store:   NewStore(JoinedState{Phase: PhaseIdle}),
	}
}

// State returns a snapshot of the view.
func (j *JoinedEvents) State() JoinedState {
	return j.store.Get()
}

// Subscribe registers fn for state changes.
func (j *JoinedEvents) Subscribe(fn func(JoinedState)) func() {
	return j.store.Subscribe(fn)
}

// Mount enters the loading phase and schedules the listing call.
func (j *JoinedEvents) Mount(ctx context.Context) error {
	j.mu.Lock()
	if j.sched != nil {
		j.mu.Unlock()
		return ErrAlreadyMounted
	}
	sched := NewScheduler(ctx)
	j.sched = sched
	j.mu.Unlock()

	sched.Commit(func() {
		j.store.Update(func(s *JoinedState) {
			s.Phase = PhaseLoading
		})
	})

	sched.Go(func(ctx context.Context) {
		events, err := j.client.JoinedEvents(ctx)

		sched.Commit(func() {
			if err != nil {
				msg := failureMessage(err, MsgJoinedLoadFailed)
				j.logger.Error("failed to fetch joined events", "error", err)
				j.store.Update(func(s *JoinedState) {
					s.Phase = PhaseError
					s.Error = msg
				})
				return
			}

			j.store.Update(func(s *JoinedState) {
				s.Events = events
				s.Phase = listPhase(len(events))
			})
		})
	})

	return nil
}

// Wait blocks until the mount fetch finishes.
func (j *JoinedEvents) Wait() {
	if s := j.scheduler(); s != nil {
		s.Wait()
	}
}

// Unmount cancels the mount fetch if it is still running.
func (j *JoinedEvents) Unmount() {
	if s := j.scheduler(); s != nil {
		s.Close()
	}
}

// Leave unregisters from id. On success the entry is dropped from the local
// list without re-fetching; on failure the list is untouched and the user
// is alerted. State writes go through the mount scheduler, so a leave that
// completes after Unmount changes nothing.
func (j *JoinedEvents) Leave(ctx context.Context, id models.ID) error {
	if !j.leaving.TryLock() {
		return ErrInFlight
	}
	defer j.leaving.Unlock()

	sched := j.scheduler()
	if sched == nil {
		return ErrNotMounted
	}

	if !containsJoined(j.store.Get().Events, id) {
		return ErrUnknownEvent
	}

	log := j.logger.With("event_id", id.String())

	started := sched.Commit(func() {
		j.store.Update(func(s *JoinedState) {
			s.Leaving = id
			s.Alert = ""
		})
	})
	if !started {
		return ErrNotMounted
	}

	if _, err := j.client.LeaveEvent(ctx, id); err != nil {
		msg := failureMessage(err, MsgLeaveFailed)
		log.Error("failed to leave event", "error", err)
		shown := sched.Commit(func() {
			j.store.Update(func(s *JoinedState) {
				s.Leaving = ""
				s.Alert = msg
			})
		})
		if shown {
			alert(j.alerter, msg)
		}

		return err
	}

	log.Info("left event")
	sched.Commit(func() {
		j.store.Update(func(s *JoinedState) {
			s.Leaving = ""
			s.Events = removeJoined(s.Events, id)
			if s.Phase == PhaseReady {
				s.Phase = listPhase(len(s.Events))
			}
		})
	})

	return nil
}

func (j *JoinedEvents) scheduler() *Scheduler {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.sched
}

func listPhase(n int) Phase {
	if n == 0 {
		return PhaseEmpty
	}

	return PhaseReady
}

func containsJoined(events []models.JoinedEvent, id models.ID) bool {
	for _, e := range events {
		if e.ID == id {
			return true
		}
	}

	return false
}

// removeJoined returns a new slice without the first entry matching id.
func removeJoined(events []models.JoinedEvent, id models.ID) []models.JoinedEvent {
	out := make([]models.JoinedEvent, 0, len(events))
	removed := false

	for _, e := range events {
		if !removed && e.ID == id {
			removed = true
			continue
		}
		out = append(out, e)
	}

	return out
}
