package record

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type ContentType string

const (
	VCard  ContentType = "vcard"
	VEvent ContentType = "vevent"
	VTodo  ContentType = "vtodo"
)

type Family string

const (
	Addresses Family = "addresses"
	Calendars Family = "calendars"
	Events    Family = "events"
)

// Families lists every family in write order.
var Families = []Family{Calendars, Addresses, Events}

var (
	ErrUnknownContentType   = errors.New("unknown content type")
	ErrEmptyRepairedPayload = errors.New("no valid event data found")
	ErrDuplicateEntryName   = errors.New("duplicate entry file name")
)

// RawRecord is one row of caldav data as read from the datastore.
type RawRecord struct {
	Owner       string `json:"user"`
	Collection  string `json:"collection"`
	EntryName   string `json:"filename"`
	ContentType string `json:"caldav_type"`
	Payload     string `json:"caldav_data"`
}

// Key returns the collection key, "<owner>-<collection>".
func (r RawRecord) Key() string {
	return r.Owner + "-" + r.Collection
}

func (r RawRecord) String() string {
	return fmt.Sprintf("%s/%s/%s (%s)", r.Owner, r.Collection, r.EntryName, r.ContentType)
}

// FamilyOf maps a content type tag to its family. The tag is matched case-insensitively.
func FamilyOf(contentType string) (Family, error) {
	switch ContentType(strings.ToLower(contentType)) {
	case VCard:
		return Addresses, nil
	case VEvent:
		return Calendars, nil
	case VTodo:
		return Events, nil
	}
	return "", ErrUnknownContentType
}

// Extension is the file extension written for the family, dot included.
func (f Family) Extension() string {
	if f == Addresses {
		return ".vcf"
	}
	return ".ics"
}

// Suffix is appended to the collection key in merged file names.
func (f Family) Suffix() string {
	if f == Events {
		return "-events"
	}
	return ""
}

// Error identifies the record that aborted a run.
type Error struct {
	Record RawRecord
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Record)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Summary is the outcome of one export run.
type Summary struct {
	RunID       string              `json:"runId"`
	Total       int                 `json:"total"`
	Collections map[Family][]string `json:"collections"`
	Repaired    int                 `json:"repaired"`
	Written     map[Family]int      `json:"written"`
}

func (s Summary) WrittenTotal() int {
	n := 0
	for _, w := range s.Written {
		n += w
	}
	return n
}
