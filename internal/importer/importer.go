package importer

import (
	"context"
	"davexport/internal/record"
	"strings"

	"github.com/pkg/errors"
)

type RecordSource interface {
	// Records returns every record of the datastore in the order it produced them.
	Records(ctx context.Context) ([]record.RawRecord, error)
}

// caldavDataQuery reads the DAViCal caldav_data table. No ordering is requested.
const caldavDataQuery = "select dav_name, caldav_type, caldav_data from caldav_data"

// SplitDavName splits "/<owner>/<collection>/<entry>" the way postgres
// split_part(dav_name, '/', n) does for n = 2, 3, 4: missing parts are empty.
func SplitDavName(davName string) (owner, collection, entry string) {
	parts := strings.Split(davName, "/")
	part := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}
	return part(1), part(2), part(3)
}

type rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRecords(rs rows) ([]record.RawRecord, error) {
	var out []record.RawRecord
	for rs.Next() {
		var davName, davType, davData *string
		if err := rs.Scan(&davName, &davType, &davData); err != nil {
			return nil, errors.Wrap(err, "error scanning caldav row")
		}
		var r record.RawRecord
		r.Owner, r.Collection, r.EntryName = SplitDavName(valueOrEmpty(davName))
		r.ContentType = valueOrEmpty(davType)
		r.Payload = valueOrEmpty(davData)
		out = append(out, r)
	}
	if err := rs.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading caldav rows")
	}
	return out, nil
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
