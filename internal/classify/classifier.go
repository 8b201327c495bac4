package classify

import (
	"davexport/internal/record"
	"strings"

	"github.com/rs/zerolog/log"
)

// Collections groups records by collection key. Keys and the records under
// each key keep their arrival order.
type Collections struct {
	keys    []string
	entries map[string][]record.RawRecord
}

func newCollections() *Collections {
	return &Collections{entries: make(map[string][]record.RawRecord)}
}

func (c *Collections) add(key string, r record.RawRecord) {
	if _, ok := c.entries[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.entries[key] = append(c.entries[key], r)
}

// Keys returns the collection keys in first-seen order.
func (c *Collections) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Entries returns the records of a collection in arrival order.
func (c *Collections) Entries(key string) []record.RawRecord {
	return c.entries[key]
}

func (c *Collections) Len() int {
	return len(c.keys)
}

// Result is the outcome of classifying one batch of records.
type Result struct {
	ByFamily map[record.Family]*Collections
	Total    int
	Repaired int
}

// Collections returns the grouping for a family, never nil.
func (r *Result) Collections(f record.Family) *Collections {
	if c, ok := r.ByFamily[f]; ok {
		return c
	}
	return newCollections()
}

// Classify routes every record into its family and collection. Records of the
// events family are passed through Repair first. The first unknown content
// type or empty repaired payload aborts with a *record.Error.
func Classify(records []record.RawRecord) (*Result, error) {
	res := &Result{ByFamily: make(map[record.Family]*Collections, len(record.Families))}
	for _, f := range record.Families {
		res.ByFamily[f] = newCollections()
	}
	for _, r := range records {
		res.Total++
		r.ContentType = strings.ToLower(r.ContentType)
		family, err := record.FamilyOf(r.ContentType)
		if err != nil {
			return nil, &record.Error{Record: r, Err: err}
		}
		if family == record.Events {
			payload, repaired := Repair(r.Payload)
			if payload == "" {
				return nil, &record.Error{Record: r, Err: record.ErrEmptyRepairedPayload}
			}
			if repaired {
				res.Repaired++
				log.Debug().
					Str("owner", r.Owner).
					Str("collection", r.Collection).
					Str("entry", r.EntryName).
					Msg("stripped lines outside of event sections")
			}
			r.Payload = payload
		}
		res.ByFamily[family].add(r.Key(), r)
	}
	return res, nil
}
