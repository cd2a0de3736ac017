package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const testToken = "integration-token"

type fakeEvent struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Host        string `json:"host"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Attendees   int    `json:"attendees"`
	Max         int    `json:"-"`
}

// fakeBackend is an in-memory stand-in for the events service.
type fakeBackend struct {
	mu     sync.Mutex
	events []*fakeEvent
	joined map[string]bool
	nextID int
	images []string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()

	b := &fakeBackend{
		events: []*fakeEvent{
			{ID: "1", Name: "Jazz Night", Host: "Ana", Date: "2026-11-02", Location: "Main Hall", Category: "music", Attendees: 4, Max: 5, Image: `uploads\jazz.png`},
			{ID: "2", Name: "Chess Club", Host: "Bo", Date: "2026-11-03", Location: "Library", Category: "gaming", Attendees: 1, Max: 1},
		},
		joined: make(map[string]bool),
		nextID: 3,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /events", b.listEvents)
	mux.HandleFunc("GET /viewEvents", b.viewEvents)
	mux.HandleFunc("POST /joinEvent/{id}", b.requireAuth(b.joinEvent))
	mux.HandleFunc("POST /leaveEvent/{id}", b.requireAuth(b.leaveEvent))
	mux.HandleFunc("GET /joinedEvents", b.requireAuth(b.joinedEvents))
	mux.HandleFunc("POST /hostEvent", b.requireAuth(b.hostEvent))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return b, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Unauthorized"})
			return
		}
		next(w, r)
	}
}

func (b *fakeBackend) snapshot() []fakeEvent {
	out := make([]fakeEvent, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, *e)
	}

	return out
}

func (b *fakeBackend) find(id string) *fakeEvent {
	for _, e := range b.events {
		if e.ID == id {
			return e
		}
	}

	return nil
}

func (b *fakeBackend) listEvents(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"events": b.snapshot()})
}

func (b *fakeBackend) viewEvents(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "events": b.snapshot()})
}

func (b *fakeBackend) joinEvent(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ev := b.find(r.PathValue("id"))
	switch {
	case ev == nil:
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Event not found"})
	case b.joined[ev.ID]:
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Already registered"})
	case ev.Attendees >= ev.Max:
		writeJSON(w, http.StatusConflict, map[string]any{"success": false, "message": "Event is full"})
	default:
		b.joined[ev.ID] = true
		ev.Attendees++
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Joined"})
	}
}

func (b *fakeBackend) leaveEvent(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := r.PathValue("id")
	ev := b.find(id)
	if ev == nil || !b.joined[id] {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Not registered for this event"})
		return
	}

	delete(b.joined, id)
	ev.Attendees--
	writeJSON(w, http.StatusOK, map[string]any{"message": "Left event"})
}

func (b *fakeBackend) joinedEvents(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	type joined struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Host      string `json:"host"`
		Date      string `json:"date"`
		Location  string `json:"location"`
		Image     string `json:"image"`
		Attendees int    `json:"attendees"`
	}

	out := []joined{}
	for _, e := range b.events {
		if b.joined[e.ID] {
			out = append(out, joined{e.ID, e.Name, e.Host, e.Date, e.Location, e.Image, e.Attendees})
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}

func (b *fakeBackend) hostEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
		return
	}

	limit, err := strconv.Atoi(r.FormValue("maxAttendees"))
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "maxAttendees must be a number"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ev := &fakeEvent{
		ID:          strconv.Itoa(b.nextID),
		Name:        r.FormValue("name"),
		Host:        "integration",
		Date:        r.FormValue("date"),
		Time:        r.FormValue("time"),
		Location:    r.FormValue("location"),
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
		Max:         limit,
	}
	b.nextID++

	if f, hdr, err := r.FormFile("image"); err == nil {
		_ = f.Close()
		ev.Image = fmt.Sprintf(`uploads\%s`, hdr.Filename)
		b.images = append(b.images, hdr.Filename)
	}

	b.events = append(b.events, ev)

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Event created: " + strings.TrimSpace(ev.Name)})
}
