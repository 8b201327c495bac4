package importer

import (
	"bytes"
	"context"
	"davexport/internal/record"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-vcard"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/emersion/go-webdav/carddav"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var _ RecordSource = (*DAV)(nil)

// DAV pulls every calendar and address book object of the current user from a
// live CalDAV/CardDAV server.
type DAV struct {
	user string
	cal  *caldav.Client
	card *carddav.Client
}

func NewDAV(url, user, pass string) (*DAV, error) {
	var httpClient webdav.HTTPClient = http.DefaultClient
	if user != "" || pass != "" {
		httpClient = webdav.HTTPClientWithBasicAuth(httpClient, user, pass)
	}
	cal, err := caldav.NewClient(httpClient, url)
	if err != nil {
		return nil, errors.Wrap(err, "error creating caldav client")
	}
	card, err := carddav.NewClient(httpClient, url)
	if err != nil {
		return nil, errors.Wrap(err, "error creating carddav client")
	}
	return &DAV{user: user, cal: cal, card: card}, nil
}

func (d *DAV) Records(ctx context.Context) ([]record.RawRecord, error) {
	principal, err := d.cal.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error finding current user principal")
	}
	owner := d.user
	if owner == "" {
		owner = lastSegment(principal)
	}

	calendars, err := d.calendarRecords(ctx, principal, owner)
	if err != nil {
		return nil, err
	}
	cards, err := d.cardRecords(ctx, principal, owner)
	if err != nil {
		return nil, err
	}
	return append(calendars, cards...), nil
}

func (d *DAV) calendarRecords(ctx context.Context, principal, owner string) ([]record.RawRecord, error) {
	homeSet, err := d.cal.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return nil, errors.Wrap(err, "error finding calendar home set")
	}
	calendars, err := d.cal.FindCalendars(ctx, homeSet)
	if err != nil {
		return nil, errors.Wrap(err, "error listing calendars")
	}
	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{Name: ical.CompCalendar, AllProps: true, AllComps: true},
		CompFilter:  caldav.CompFilter{Name: ical.CompCalendar},
	}
	var out []record.RawRecord
	for _, cal := range calendars {
		objects, err := d.cal.QueryCalendar(ctx, cal.Path, query)
		if err != nil {
			return nil, errors.Wrapf(err, "error querying calendar %s", cal.Path)
		}
		log.Debug().Str("calendar", cal.Path).Int("objects", len(objects)).Msg("calendar queried")
		for _, obj := range objects {
			r, err := calendarRecord(owner, lastSegment(cal.Path), obj)
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}
	}
	return out, nil
}

func (d *DAV) cardRecords(ctx context.Context, principal, owner string) ([]record.RawRecord, error) {
	homeSet, err := d.card.FindAddressBookHomeSet(ctx, principal)
	if err != nil {
		return nil, errors.Wrap(err, "error finding address book home set")
	}
	books, err := d.card.FindAddressBooks(ctx, homeSet)
	if err != nil {
		return nil, errors.Wrap(err, "error listing address books")
	}
	query := &carddav.AddressBookQuery{DataRequest: carddav.AddressDataRequest{AllProp: true}}
	var out []record.RawRecord
	for _, book := range books {
		objects, err := d.card.QueryAddressBook(ctx, book.Path, query)
		if err != nil {
			return nil, errors.Wrapf(err, "error querying address book %s", book.Path)
		}
		log.Debug().Str("addressbook", book.Path).Int("objects", len(objects)).Msg("address book queried")
		for _, obj := range objects {
			r, err := cardRecord(owner, lastSegment(book.Path), obj)
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}
	}
	return out, nil
}

func calendarRecord(owner, collection string, obj caldav.CalendarObject) (record.RawRecord, error) {
	if obj.Data == nil {
		return record.RawRecord{}, errors.New(fmt.Sprintf("calendar object %s has no data", obj.Path))
	}
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(obj.Data); err != nil {
		return record.RawRecord{}, errors.Wrapf(err, "error encoding calendar object %s", obj.Path)
	}
	return record.RawRecord{
		Owner:       owner,
		Collection:  collection,
		EntryName:   path.Base(obj.Path),
		ContentType: componentType(obj.Data),
		Payload:     buf.String(),
	}, nil
}

func cardRecord(owner, collection string, obj carddav.AddressObject) (record.RawRecord, error) {
	var buf bytes.Buffer
	if err := vcard.NewEncoder(&buf).Encode(obj.Card); err != nil {
		return record.RawRecord{}, errors.Wrapf(err, "error encoding address object %s", obj.Path)
	}
	return record.RawRecord{
		Owner:       owner,
		Collection:  collection,
		EntryName:   path.Base(obj.Path),
		ContentType: string(record.VCard),
		Payload:     buf.String(),
	}, nil
}

// componentType names the first non-timezone component of a calendar object,
// lower-cased, the way DAViCal fills caldav_type.
func componentType(cal *ical.Calendar) string {
	if cal == nil {
		return ""
	}
	for _, child := range cal.Children {
		if child.Name != ical.CompTimezone {
			return strings.ToLower(child.Name)
		}
	}
	return ""
}

func lastSegment(p string) string {
	return path.Base(strings.TrimSuffix(p, "/"))
}
