package view

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"eventdesk/internal/api"
	"eventdesk/internal/auth"
	"eventdesk/internal/config"
	"eventdesk/internal/logger"
	"eventdesk/internal/models"
)

// Form errors.
var (
	ErrUnknownField      = errors.New("unknown form field")
	ErrImageTooLarge     = errors.New("image exceeds size limit")
	ErrMissingFields     = errors.New("required fields missing")
	ErrInvalidAttendees  = errors.New("max attendees must be a positive integer")
	ErrInvalidCategory   = errors.New("unknown category")
	ErrInvalidDate       = errors.New("date must be YYYY-MM-DD")
	ErrInvalidTime       = errors.New("time must be HH:MM")
	ErrSubmissionFailure = errors.New("event was not created")
)

// Input formats accepted by the creation form.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Field validation messages.
const (
	MsgInvalidAttendees = "Max attendees must be a whole number of at least 1."
	MsgInvalidCategory  = "Please choose one of the listed categories."
	MsgInvalidDate      = "Please enter the date as YYYY-MM-DD."
	MsgInvalidTime      = "Please enter the time as HH:MM."
)

// FormState is what the creation form shows.
type FormState struct {
	Error      string
	Draft      models.FormDraft
	Submitting bool
	PopupOpen  bool
	Submitted  bool
}

// CreateEventForm collects a new event and submits it as multipart form data.
type CreateEventForm struct {
	client    api.Client
	navigator Navigator
	logger    *logger.Logger
	store     *Store[FormState]
	maxImage  int64
	submit    sync.Mutex
}

// NewCreateEventForm creates an empty form. maxImageBytes <= 0 selects the
// default 5MB limit.
func NewCreateEventForm(client api.Client, nav Navigator, maxImageBytes int64, log *logger.Logger) *CreateEventForm {
	if maxImageBytes <= 0 {
		maxImageBytes = config.DefaultMaxImageBytes
	}

	return &CreateEventForm{
		client:    client,
		navigator: nav,
		logger:    orDiscard(log).Component("create_event"),
		store:     NewStore(FormState{}),
		maxImage:  maxImageBytes,
	}
}

// State returns a snapshot of the form.
func (f *CreateEventForm) State() FormState {
	return f.store.Get()
}

// Subscribe registers fn for state changes.
func (f *CreateEventForm) Subscribe(fn func(FormState)) func() {
	return f.store.Subscribe(fn)
}

// TooLargeMessage is the form error for an image over the size limit.
func (f *CreateEventForm) TooLargeMessage() string {
	return fmt.Sprintf("File is too large. Max file size is %s.", formatSize(f.maxImage))
}

// SetField updates one text field of the draft.
func (f *CreateEventForm) SetField(name, value string) error {
	var ok bool

	f.store.Update(func(s *FormState) {
		ok = s.Draft.SetField(name, value)
	})

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	return nil
}

// AttachImage selects the cover image at path. Oversized files are refused
// and leave the previous selection in place.
func (f *CreateEventForm) AttachImage(path string) error {
	info, err := f.statImage(path)
	if err != nil {
		return err
	}

	f.store.Update(func(s *FormState) {
		s.Draft.Image = &models.ImageFile{
			Path: path,
			Name: filepath.Base(path),
			Size: info.Size(),
		}
		s.Error = ""
	})

	return nil
}

// Submit validates the draft and posts it. It returns nil only when the
// backend confirmed the event was created.
func (f *CreateEventForm) Submit(ctx context.Context) error {
	if !f.submit.TryLock() {
		return ErrInFlight
	}
	defer f.submit.Unlock()

	draft := f.store.Get().Draft

	if err := validateDraft(&draft); err != nil {
		f.store.Update(func(s *FormState) {
			s.Error = validationMessage(err)
		})

		return err
	}

	// The file may have changed on disk since it was attached.
	if draft.Image != nil {
		info, err := f.statImage(draft.Image.Path)
		if err != nil {
			return err
		}

		img := *draft.Image
		img.Size = info.Size()
		draft.Image = &img
	}

	draft.Category = models.CategoryValue(draft.Category)
	draft.MaxAttendees = strings.TrimSpace(draft.MaxAttendees)

	f.store.Update(func(s *FormState) {
		s.Submitting = true
		s.Error = ""
	})

	reply, err := f.client.HostEvent(ctx, &draft)
	if err != nil {
		msg := f.submitMessage(err)
		f.logger.Error("failed to create event", "error", err)
		f.store.Update(func(s *FormState) {
			s.Submitting = false
			s.Error = msg
		})

		return fmt.Errorf("%w: %w", ErrSubmissionFailure, err)
	}

	if reply != nil {
		f.logger.Info("event created", "name", draft.Name, "message", reply.Message)
	}

	f.store.Update(func(s *FormState) {
		s.Submitting = false
		s.Submitted = true
		s.PopupOpen = true
		s.Draft = models.FormDraft{}
	})

	navigate(f.navigator, RouteDashboard)

	return nil
}

// Cancel discards the draft and leaves the form.
func (f *CreateEventForm) Cancel() {
	f.store.Update(func(s *FormState) {
		s.Draft = models.FormDraft{}
		s.Error = ""
	})

	navigate(f.navigator, RouteDashboard)
}

// ClosePopup dismisses the success popup.
func (f *CreateEventForm) ClosePopup() {
	f.store.Update(func(s *FormState) {
		s.PopupOpen = false
	})
}

// statImage checks that path is a regular file within the size limit. An
// oversized file sets the form error.
func (f *CreateEventForm) statImage(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("failed to open image: %s is a directory", path)
	}

	if info.Size() > f.maxImage {
		msg := f.TooLargeMessage()
		f.logger.Warn("image rejected", "path", path, "size", info.Size(), "limit", f.maxImage)
		f.store.Update(func(s *FormState) {
			s.Error = msg
		})

		return nil, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, info.Size())
	}

	return info, nil
}

func (f *CreateEventForm) submitMessage(err error) string {
	apiErr, ok := api.AsAPIError(err)

	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return MsgSessionExpired
	case !ok:
		return MsgCreateFailed
	case apiErr.StatusCode == http.StatusBadRequest:
		return f.TooLargeMessage()
	case apiErr.StatusCode >= 200 && apiErr.StatusCode <= 299:
		// 2xx with success:false.
		return api.MessageOr(err, MsgCreateFailed)
	}

	return MsgCreateFailed
}

func validateDraft(d *models.FormDraft) error {
	if missing := d.MissingFields(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}

	n, err := strconv.Atoi(strings.TrimSpace(d.MaxAttendees))
	if err != nil || n < 1 {
		return fmt.Errorf("%w: %q", ErrInvalidAttendees, d.MaxAttendees)
	}

	if !models.IsKnownCategory(d.Category) {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, d.Category)
	}

	if _, err := time.Parse(DateLayout, strings.TrimSpace(d.Date)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, d.Date)
	}

	if _, err := time.Parse(TimeLayout, strings.TrimSpace(d.Time)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTime, d.Time)
	}

	return nil
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingFields):
		return MsgMissingFields
	case errors.Is(err, ErrInvalidAttendees):
		return MsgInvalidAttendees
	case errors.Is(err, ErrInvalidCategory):
		return MsgInvalidCategory
	case errors.Is(err, ErrInvalidDate):
		return MsgInvalidDate
	case errors.Is(err, ErrInvalidTime):
		return MsgInvalidTime
	}

	return MsgGeneric
}

func formatSize(n int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
	)

	switch {
	case n >= mb && n%mb == 0:
		return fmt.Sprintf("%dMB", n/mb)
	case n >= mb:
		return fmt.Sprintf("%.1fMB", float64(n)/mb)
	case n >= kb && n%kb == 0:
		return fmt.Sprintf("%dKB", n/kb)
	}

	return fmt.Sprintf("%d bytes", n)
}

func navigate(n Navigator, route string) {
	if n != nil {
		n.Navigate(route)
	}
}
