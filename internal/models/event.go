package models

import (
	"encoding/json"
	"regexp"
	"strings"
)

var backslashRun = regexp.MustCompile(`\\+`)

// Event is one entry of the events feed.
type Event struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Host        string `json:"host"`
	Date        string `json:"date"`
	Time        string `json:"time,omitempty"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Attendees   int    `json:"attendees"`
}

// UnmarshalJSON accepts a Mongo-style "_id" when "id" is absent.
func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event

	var aux struct {
		plain
		MongoID ID `json:"_id"`
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*e = Event(aux.plain)
	if e.ID == "" {
		e.ID = aux.MongoID
	}

	return nil
}

// ImageURL resolves the stored image reference against the backend base URL.
// Windows-style separators left by the upload handler are normalized.
func (e Event) ImageURL(baseURL string) string {
	return resolveImage(baseURL, e.Image)
}

func resolveImage(baseURL, image string) string {
	if image == "" {
		return ""
	}

	ref := backslashRun.ReplaceAllString(image, "/")
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}

	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(ref, "/")
}

// FindEvent returns the event with the given id.
func FindEvent(events []Event, id ID) (Event, bool) {
	for _, e := range events {
		if e.ID == id {
			return e, true
		}
	}

	return Event{}, false
}

// JoinedEvent is an event the current user has registered for.
type JoinedEvent struct {
	ID        ID     `json:"id"`
	Title     string `json:"title"`
	Host      string `json:"host"`
	Date      string `json:"date"`
	Location  string `json:"location"`
	Image     string `json:"image"`
	Attendees int    `json:"attendees"`
}

// UnmarshalJSON accepts a Mongo-style "_id" when "id" is absent.
func (j *JoinedEvent) UnmarshalJSON(data []byte) error {
	type plain JoinedEvent

	var aux struct {
		plain
		MongoID ID `json:"_id"`
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*j = JoinedEvent(aux.plain)
	if j.ID == "" {
		j.ID = aux.MongoID
	}

	return nil
}

// ImageURL resolves the stored image reference against the backend base URL.
func (j JoinedEvent) ImageURL(baseURL string) string {
	return resolveImage(baseURL, j.Image)
}
