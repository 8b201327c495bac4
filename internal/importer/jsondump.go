package importer

import (
	"context"
	"davexport/internal/record"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var _ RecordSource = (*JSONDump)(nil)

// JSONDump reads the output of
//
//	psql davical -Atc "select json_agg(d) from (select split_part(dav_name, '/', 2) as user,
//	  split_part(dav_name, '/', 3) as collection, split_part(dav_name, '/', 4) as filename,
//	  caldav_type, caldav_data from caldav_data) d;"
type JSONDump struct {
	path string
}

func NewJSONDump(path string) *JSONDump {
	return &JSONDump{path: path}
}

func (j *JSONDump) Records(_ context.Context) ([]record.RawRecord, error) {
	f, err := os.Open(j.path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening json dump")
	}
	defer f.Close()

	// json_agg over an empty table is null
	var out []record.RawRecord
	if err := json.NewDecoder(f).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "error decoding json dump")
	}
	log.Debug().Str("path", j.path).Int("records", len(out)).Msg("caldav data read from json dump")
	return out, nil
}
