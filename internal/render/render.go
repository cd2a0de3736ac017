// Package render draws view state as plain terminal text.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"eventdesk/internal/view"
	"eventdesk/pkg/utils"
)

// Fixed screen texts.
const (
	TextFeedLoading   = "Loading events..."
	TextFeedEmpty     = "No events found."
	TextJoinedLoading = "Loading..."
	TextJoinedEmpty   = "You have not joined any events yet."
	TextJoinedTitle   = "Your Joined Events"
	TextConfirm       = "Are you sure you want to register and attend this event?"
	TextRegister      = "Register Now"
	TextRegistered    = "Registered!"
)

// Renderer writes screens to w. Image references are resolved against
// baseURL and descriptions are cut to descWidth columns (0 disables).
type Renderer struct {
	w         io.Writer
	strings   *utils.StringHelper
	baseURL   string
	descWidth int
}

// New creates a renderer.
func New(w io.Writer, baseURL string, descWidth int) *Renderer {
	return &Renderer{
		w:         w,
		strings:   utils.NewStringHelper(),
		baseURL:   baseURL,
		descWidth: descWidth,
	}
}

// Feed prints exactly one of the loading line, the error, the empty notice
// or the cards.
func (r *Renderer) Feed(st view.FeedState, cards []*view.EventCard) error {
	switch st.Phase {
	case view.PhaseIdle, view.PhaseLoading:
		return r.line(TextFeedLoading)
	case view.PhaseError:
		return r.line(st.Error)
	case view.PhaseEmpty:
		return r.line(TextFeedEmpty)
	}

	for i, c := range cards {
		if i > 0 {
			if err := r.line(""); err != nil {
				return err
			}
		}

		if err := r.Card(c.State()); err != nil {
			return err
		}
	}

	return nil
}

// Card prints one event card and, while it is open, the confirmation popup.
func (r *Renderer) Card(st view.CardState) error {
	ev := st.Event

	button := TextRegister
	if st.Registered {
		button = TextRegistered
	}

	rows := [][2]string{
		{"Host", ev.Host},
		{"When", strings.TrimSpace(ev.Date + " " + ev.Time)},
		{"Where", ev.Location},
		{"Category", ev.Category},
		{"Attending", strconv.Itoa(st.Attendees)},
	}

	if img := ev.ImageURL(r.baseURL); img != "" {
		rows = append(rows, [2]string{"Image", img})
	}

	if desc := r.strings.NormalizeWhitespace(ev.Description); desc != "" {
		rows = append(rows, [2]string{"About", r.strings.TruncateWidth(desc, r.descWidth)})
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s  [%s]  (id %s)\n", ev.Name, button, ev.ID)
	sb.WriteString(r.fields(rows))

	if st.Pending {
		sb.WriteString("  ... registering\n")
	}

	if st.PopupOpen && !st.Registered {
		fmt.Fprintf(&sb, "  > %s [y/N]\n", TextConfirm)
	}

	_, err := io.WriteString(r.w, sb.String())

	return err
}

// Joined prints the joined events screen as an aligned table.
func (r *Renderer) Joined(st view.JoinedState) error {
	switch st.Phase {
	case view.PhaseIdle, view.PhaseLoading:
		return r.line(TextJoinedLoading)
	case view.PhaseError:
		return r.line(st.Error)
	case view.PhaseEmpty:
		return r.line(TextJoinedEmpty)
	}

	rows := [][]string{{"ID", "Title", "Host", "Date", "Location", "Attending", "Image"}}
	for _, e := range st.Events {
		img := e.ImageURL(r.baseURL)
		if img == "" {
			img = "-"
		}

		rows = append(rows, []string{
			e.ID.String(),
			e.Title,
			e.Host,
			e.Date,
			e.Location,
			strconv.Itoa(e.Attendees),
			img,
		})
	}

	out := TextJoinedTitle + "\n\n" + strings.Join(Table(rows), "\n") + "\n"

	if st.Alert != "" {
		out += "\n! " + st.Alert + "\n"
	}

	_, err := io.WriteString(r.w, out)

	return err
}

// Form prints the creation form state: the current error, the success
// popup, and the draft values.
func (r *Renderer) Form(st view.FormState) error {
	var sb strings.Builder

	if st.PopupOpen {
		sb.WriteString(view.MsgEventLive + "\n")
	}

	if st.Error != "" {
		sb.WriteString("! " + st.Error + "\n")
	}

	if !st.Submitted {
		rows := st.Draft.Values()

		if st.Draft.Image != nil {
			rows = append(rows, [2]string{"image", st.Draft.Image.Name})
		}

		sb.WriteString(r.fields(rows))
	}

	_, err := io.WriteString(r.w, sb.String())

	return err
}

func (r *Renderer) fields(rows [][2]string) string {
	width := 0
	for _, kv := range rows {
		if w := len(kv[0]); w > width {
			width = w
		}
	}

	var sb strings.Builder
	for _, kv := range rows {
		fmt.Fprintf(&sb, "  %s  %s\n", r.strings.PadWidth(kv[0]+":", width+1), kv[1])
	}

	return sb.String()
}

func (r *Renderer) line(s string) error {
	_, err := fmt.Fprintln(r.w, s)
	return err
}
