package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/api"
	"eventdesk/internal/models"
	"eventdesk/internal/view"
)

// feedClient serves a fixed feed; other calls are unused here.
type feedClient struct {
	api.Client
	events []models.Event
}

func (c *feedClient) ListEvents(context.Context) ([]models.Event, error) {
	return c.events, nil
}

func TestRenderer_FeedPhases(t *testing.T) {
	tests := []struct {
		name string
		st   view.FeedState
		want string
	}{
		{"idle", view.FeedState{Phase: view.PhaseIdle}, TextFeedLoading + "\n"},
		{"loading", view.FeedState{Phase: view.PhaseLoading}, TextFeedLoading + "\n"},
		{"error", view.FeedState{Phase: view.PhaseError, Error: view.MsgFeedLoadFailed}, view.MsgFeedLoadFailed + "\n"},
		{"empty", view.FeedState{Phase: view.PhaseEmpty}, TextFeedEmpty + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, New(&buf, "", 0).Feed(tt.st, nil))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRenderer_FeedCards(t *testing.T) {
	client := &feedClient{events: []models.Event{
		{ID: "a", Name: "Jazz Night", Host: "Ana", Date: "2026-11-02", Attendees: 3, Image: `uploads\\jazz.png`},
		{ID: "b", Name: "Chess Club", Host: "Bo", Date: "2026-11-03", Attendees: 8},
	}}

	feed := view.NewEventsFeed(client, nil, nil)
	require.NoError(t, feed.Mount(context.Background()))
	feed.Wait()
	defer feed.Unmount()

	var buf bytes.Buffer
	require.NoError(t, New(&buf, "http://localhost:4000", 0).Feed(feed.State(), feed.Cards()))

	out := buf.String()
	assert.Contains(t, out, "Jazz Night  [Register Now]  (id a)")
	assert.Contains(t, out, "Chess Club")
	assert.Contains(t, out, "http://localhost:4000/uploads/jazz.png")
	assert.NotContains(t, out, TextFeedLoading)
	assert.NotContains(t, out, TextFeedEmpty)
}

func TestRenderer_CardUsesCurrentCount(t *testing.T) {
	st := view.CardState{
		Event:      models.Event{ID: "a", Name: "Jazz", Attendees: 3},
		Attendees:  4,
		Registered: true,
	}

	var buf bytes.Buffer
	require.NoError(t, New(&buf, "", 0).Card(st))

	out := buf.String()
	assert.Contains(t, out, "Attending:  4")
	assert.Contains(t, out, TextRegistered)
	assert.NotContains(t, out, TextConfirm)
}

func TestRenderer_CardPopupAndTruncation(t *testing.T) {
	st := view.CardState{
		Event: models.Event{
			ID:          "a",
			Name:        "Jazz",
			Description: "A long\n evening of   improvised music in the park",
		},
		PopupOpen: true,
	}

	var buf bytes.Buffer
	require.NoError(t, New(&buf, "", 16).Card(st))

	out := buf.String()
	assert.Contains(t, out, "A long evenin...")
	assert.Contains(t, out, TextConfirm)
}

func TestRenderer_Joined(t *testing.T) {
	st := view.JoinedState{
		Phase: view.PhaseReady,
		Events: []models.JoinedEvent{
			{ID: "1", Title: "Jazz", Host: "Ana", Date: "2026-11-02", Location: "Hall", Attendees: 45, Image: `uploads\\jazz.png`},
			{ID: "2", Title: "茶会", Host: "Bo", Date: "2026-11-03", Location: "Park", Attendees: 120},
		},
		Alert: view.MsgLeaveFailed,
	}

	var buf bytes.Buffer
	require.NoError(t, New(&buf, "http://localhost:4000", 0).Joined(st))

	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 6)
	assert.Equal(t, TextJoinedTitle, lines[0])
	assert.Equal(t, "| ID  | Title | Host | Date       | Location | Attending | Image                                  |", lines[2])
	assert.Equal(t, "| --- | ----- | ---- | ---------- | -------- | --------- | -------------------------------------- |", lines[3])
	assert.Equal(t, "| 1   | Jazz  | Ana  | 2026-11-02 | Hall     | 45        | http://localhost:4000/uploads/jazz.png |", lines[4])
	assert.Equal(t, "| 2   | 茶会  | Bo   | 2026-11-03 | Park     | 120       | -                                      |", lines[5])
	assert.Contains(t, buf.String(), "! "+view.MsgLeaveFailed)
}

func TestRenderer_JoinedPhases(t *testing.T) {
	tests := []struct {
		st   view.JoinedState
		want string
	}{
		{view.JoinedState{Phase: view.PhaseLoading}, TextJoinedLoading + "\n"},
		{view.JoinedState{Phase: view.PhaseError, Error: "Not logged in"}, "Not logged in\n"},
		{view.JoinedState{Phase: view.PhaseEmpty}, TextJoinedEmpty + "\n"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		require.NoError(t, New(&buf, "", 0).Joined(tt.st))
		assert.Equal(t, tt.want, buf.String())
	}
}

func TestRenderer_Form(t *testing.T) {
	var buf bytes.Buffer
	st := view.FormState{
		Error: view.MsgMissingFields,
		Draft: models.FormDraft{Name: "Jazz", Image: &models.ImageFile{Name: "cover.png"}},
	}

	require.NoError(t, New(&buf, "", 0).Form(st))

	out := buf.String()
	assert.Contains(t, out, "! "+view.MsgMissingFields)
	assert.Contains(t, out, "name:")
	assert.Contains(t, out, "cover.png")

	buf.Reset()
	require.NoError(t, New(&buf, "", 0).Form(view.FormState{Submitted: true, PopupOpen: true}))
	assert.Equal(t, view.MsgEventLive+"\n", buf.String())
}

func TestTable_Empty(t *testing.T) {
	assert.Nil(t, Table(nil))
}
