package models

import "strings"

// Form field names, matching the multipart keys the backend expects.
const (
	FieldName         = "name"
	FieldDescription  = "description"
	FieldDate         = "date"
	FieldTime         = "time"
	FieldCategory     = "category"
	FieldMaxAttendees = "maxAttendees"
	FieldLocation     = "location"
	FieldImage        = "image"
)

// RequiredFields lists the draft fields that must be non-empty, in form order.
var RequiredFields = []string{
	FieldName,
	FieldDescription,
	FieldDate,
	FieldTime,
	FieldCategory,
	FieldLocation,
	FieldMaxAttendees,
}

// ImageFile is a cover image selected on disk.
type ImageFile struct {
	Path string
	Name string
	Size int64
}

// FormDraft holds the creation form while it is being filled in.
type FormDraft struct {
	Image        *ImageFile
	Name         string
	Description  string
	Date         string
	Time         string
	Category     string
	MaxAttendees string
	Location     string
}

// Field returns the value of a named field and whether the name is known.
func (d *FormDraft) Field(name string) (string, bool) {
	switch name {
	case FieldName:
		return d.Name, true
	case FieldDescription:
		return d.Description, true
	case FieldDate:
		return d.Date, true
	case FieldTime:
		return d.Time, true
	case FieldCategory:
		return d.Category, true
	case FieldMaxAttendees:
		return d.MaxAttendees, true
	case FieldLocation:
		return d.Location, true
	}

	return "", false
}

// SetField assigns a named field, reporting false for unknown names.
func (d *FormDraft) SetField(name, value string) bool {
	switch name {
	case FieldName:
		d.Name = value
	case FieldDescription:
		d.Description = value
	case FieldDate:
		d.Date = value
	case FieldTime:
		d.Time = value
	case FieldCategory:
		d.Category = value
	case FieldMaxAttendees:
		d.MaxAttendees = value
	case FieldLocation:
		d.Location = value
	default:
		return false
	}

	return true
}

// MissingFields returns the required fields that are blank.
func (d *FormDraft) MissingFields() []string {
	var missing []string

	for _, name := range RequiredFields {
		v, _ := d.Field(name)
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}

	return missing
}

// Values returns the text fields in submission order.
func (d *FormDraft) Values() [][2]string {
	return [][2]string{
		{FieldName, d.Name},
		{FieldDescription, d.Description},
		{FieldDate, d.Date},
		{FieldTime, d.Time},
		{FieldCategory, d.Category},
		{FieldMaxAttendees, d.MaxAttendees},
		{FieldLocation, d.Location},
	}
}
