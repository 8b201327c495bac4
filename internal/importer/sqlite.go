package importer

import (
	"context"
	"database/sql"
	"davexport/internal/record"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

var _ RecordSource = (*SQLite)(nil)

// SQLite reads records from a sqlite file holding a copy of the caldav_data table.
type SQLite struct {
	path string
}

func NewSQLite(path string) *SQLite {
	return &SQLite{path: path}
}

func (s *SQLite) Records(ctx context.Context) ([]record.RawRecord, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, errors.Wrap(err, "error opening sqlite database")
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening sqlite database")
	}
	defer db.Close()

	rs, err := db.QueryContext(ctx, caldavDataQuery)
	if err != nil {
		return nil, errors.Wrap(err, "error querying caldav data")
	}
	defer rs.Close()
	out, err := scanRecords(rs)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", s.path).Int("records", len(out)).Msg("caldav data read from sqlite")
	return out, nil
}
