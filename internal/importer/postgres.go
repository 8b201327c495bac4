package importer

import (
	"context"
	"davexport/internal/record"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var _ RecordSource = (*Postgres)(nil)

// Postgres reads records straight from a DAViCal database.
type Postgres struct {
	dsn string
}

func NewPostgres(dsn string) *Postgres {
	return &Postgres{dsn: dsn}
}

func (p *Postgres) Records(ctx context.Context) ([]record.RawRecord, error) {
	conn, err := pgx.Connect(ctx, p.dsn)
	if err != nil {
		return nil, errors.Wrap(err, "error connecting to davical database")
	}
	defer conn.Close(ctx)

	rs, err := conn.Query(ctx, caldavDataQuery)
	if err != nil {
		return nil, errors.Wrap(err, "error querying caldav data")
	}
	defer rs.Close()
	out, err := scanRecords(rs)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("records", len(out)).Msg("caldav data read from postgres")
	return out, nil
}
