package view

import (
	"context"
	"sync"

	"eventdesk/internal/api"
	"eventdesk/internal/logger"
	"eventdesk/internal/models"
)

// FeedState is the events feed. Events is only meaningful in PhaseReady.
type FeedState struct {
	Error  string
	Events []models.Event
	Phase  Phase
}

// EventsFeed loads the feed on mount and hands out one EventCard per event.
type EventsFeed struct {
	client  api.Client
	alerter Alerter
	logger  *logger.Logger
	store   *Store[FeedState]
	sched   *Scheduler
	cards   map[cardKey]*EventCard
	gen     uint64
	mu      sync.Mutex
}

// cardKey tells apart events that share an ID, including the empty one: the
// nth occurrence of an ID in the list always maps to the same card.
type cardKey struct {
	id models.ID
	n  int
}

// NewEventsFeed creates an unmounted feed.
func NewEventsFeed(client api.Client, alerter Alerter, log *logger.Logger) *EventsFeed {
	return &EventsFeed{
		client:  client,
		alerter: alerter,
		logger:  orDiscard(log).Component("feed"),
		store:   NewStore(FeedState{Phase: PhaseIdle}),
		cards:   make(map[cardKey]*EventCard),
	}
}

// State returns a snapshot of the feed.
func (f *EventsFeed) State() FeedState {
	return f.store.Get()
}

// Subscribe registers fn for state changes.
func (f *EventsFeed) Subscribe(fn func(FeedState)) func() {
	return f.store.Subscribe(fn)
}

// Mount enters the loading phase and schedules the listing call.
func (f *EventsFeed) Mount(ctx context.Context) error {
	f.mu.Lock()
	if f.sched != nil {
		f.mu.Unlock()
		return ErrAlreadyMounted
	}
	f.sched = NewScheduler(ctx)
	f.mu.Unlock()

	return f.schedule()
}

// Reload fetches the feed again on the mounted scheduler. Only the most
// recent fetch may commit; older ones still in flight are discarded. It
// fails with ErrNotMounted before Mount and after Unmount.
func (f *EventsFeed) Reload() error {
	if f.scheduler() == nil {
		return ErrNotMounted
	}

	return f.schedule()
}

// Wait blocks until scheduled fetches finish.
func (f *EventsFeed) Wait() {
	if s := f.scheduler(); s != nil {
		s.Wait()
	}
}

// Unmount cancels in-flight fetches. Their results are discarded.
func (f *EventsFeed) Unmount() {
	if s := f.scheduler(); s != nil {
		s.Close()
	}
}

// Cards returns one card per event in feed order. Cards are reused across
// reloads so registration state survives a refresh, and each one is brought
// up to date with the event data of the latest fetch.
func (f *EventsFeed) Cards() []*EventCard {
	st := f.store.Get()
	if st.Phase != PhaseReady {
		return nil
	}

	f.mu.Lock()
	cards := make([]*EventCard, 0, len(st.Events))
	seen := make(map[models.ID]int, len(st.Events))
	for _, ev := range st.Events {
		key := cardKey{id: ev.ID, n: seen[ev.ID]}
		seen[ev.ID]++

		card, ok := f.cards[key]
		if !ok {
			card = NewEventCard(ev, f.client, f.alerter, f.logger)
			f.cards[key] = card
		}
		card.attach(f.sched)
		cards = append(cards, card)
	}
	f.mu.Unlock()

	for i, card := range cards {
		card.sync(st.Events[i])
	}

	return cards
}

// Card returns the card for id once the feed is ready.
func (f *EventsFeed) Card(id models.ID) (*EventCard, bool) {
	for _, c := range f.Cards() {
		if c.State().Event.ID == id {
			return c, true
		}
	}

	return nil, false
}

func (f *EventsFeed) scheduler() *Scheduler {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.sched
}

func (f *EventsFeed) schedule() error {
	f.mu.Lock()
	sched := f.sched
	f.gen++
	gen := f.gen
	f.mu.Unlock()

	loading := sched.Commit(func() {
		f.store.Update(func(s *FeedState) {
			s.Phase = PhaseLoading
			s.Error = ""
		})
	})
	if !loading {
		return ErrNotMounted
	}

	started := sched.Go(func(ctx context.Context) {
		events, err := f.client.ListEvents(ctx)

		sched.Commit(func() {
			if !f.latest(gen) {
				f.logger.Debug("discarding superseded events fetch", "generation", gen)
				return
			}

			if err != nil {
				f.logger.Error("failed to fetch events", "error", err)
				f.store.Update(func(s *FeedState) {
					s.Phase = PhaseError
					s.Error = MsgFeedLoadFailed
					s.Events = nil
				})
				return
			}

			f.logger.Debug("events loaded", "count", len(events))
			f.store.Update(func(s *FeedState) {
				s.Error = ""
				s.Events = events
				s.Phase = listPhase(len(events))
			})
		})
	})
	if !started {
		return ErrNotMounted
	}

	return nil
}

func (f *EventsFeed) latest(gen uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.gen == gen
}
