package exporter

import (
	"davexport/internal/classify"
	"davexport/internal/record"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var _ CollectionExporter = (*FileExporter)(nil)

type Mode string

const (
	// Merged writes one file per collection.
	Merged Mode = "merged"
	// Entries writes one file per record, in a directory per collection.
	Entries Mode = "entries"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case Merged, "":
		return Merged, nil
	case Entries:
		return Entries, nil
	}
	return "", errors.New(fmt.Sprintf("unknown export mode: %s", s))
}

type FileExporter struct {
	dir  string
	mode Mode
}

func NewFileExporter(dir string, mode Mode) *FileExporter {
	return &FileExporter{dir: dir, mode: mode}
}

func (e *FileExporter) Export(res *classify.Result) (map[record.Family]int, error) {
	if e.mode == Entries {
		if err := checkEntryNames(res); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return nil, errors.Wrap(err, "error creating target directory")
	}
	written := make(map[record.Family]int, len(record.Families))
	for _, family := range record.Families {
		cols := res.Collections(family)
		for _, key := range cols.Keys() {
			var (
				n   int
				err error
			)
			if e.mode == Entries {
				n, err = e.writeEntries(family, key, cols.Entries(key))
			} else {
				n, err = e.writeMerged(family, key, cols.Entries(key))
			}
			written[family] += n
			if err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

func (e *FileExporter) writeMerged(family record.Family, key string, entries []record.RawRecord) (int, error) {
	sb := strings.Builder{}
	for _, entry := range entries {
		sb.WriteString(entry.Payload)
	}
	fname := filepath.Join(e.dir, MergedName(family, key))
	if err := os.WriteFile(fname, []byte(sb.String()), 0644); err != nil {
		return 0, errors.Wrapf(err, "error writing %s", fname)
	}
	log.Debug().Str("family", string(family)).Str("file", fname).Int("entries", len(entries)).Msg("collection written")
	return len(entries), nil
}

func (e *FileExporter) writeEntries(family record.Family, key string, entries []record.RawRecord) (int, error) {
	dir := filepath.Join(e.dir, EntriesDir(family, key))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, errors.Wrapf(err, "error creating collection directory %s", dir)
	}
	n := 0
	for _, entry := range entries {
		fname := filepath.Join(dir, EntryName(family, key, entry.EntryName))
		if err := os.WriteFile(fname, []byte(entry.Payload), 0644); err != nil {
			return n, errors.Wrapf(err, "error writing %s", fname)
		}
		n++
	}
	log.Debug().Str("family", string(family)).Str("dir", dir).Int("entries", n).Msg("collection written")
	return n, nil
}

// checkEntryNames fails on the first record whose per-entry file name is
// already taken in its collection directory, before anything is written.
func checkEntryNames(res *classify.Result) error {
	for _, family := range record.Families {
		cols := res.Collections(family)
		for _, key := range cols.Keys() {
			seen := make(map[string]struct{})
			for _, entry := range cols.Entries(key) {
				name := EntryName(family, key, entry.EntryName)
				if _, ok := seen[name]; ok {
					return &record.Error{Record: entry, Err: record.ErrDuplicateEntryName}
				}
				seen[name] = struct{}{}
			}
		}
	}
	return nil
}

// MergedName is "<owner>-<collection>[-events].<ext>".
func MergedName(family record.Family, key string) string {
	return key + family.Suffix() + family.Extension()
}

// EntriesDir is "<owner>-<collection>-<family>".
func EntriesDir(family record.Family, key string) string {
	return key + "-" + string(family)
}

// EntryName is "<owner>-<collection>-<entry>", with the family extension
// appended unless the entry name already carries it.
func EntryName(family record.Family, key, entryName string) string {
	name := key + "-" + entryName
	if !strings.HasSuffix(name, family.Extension()) {
		name += family.Extension()
	}
	return name
}
