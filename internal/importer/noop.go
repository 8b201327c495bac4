package importer

import (
	"context"
	"davexport/internal/record"

	"github.com/rs/zerolog/log"
)

var _ RecordSource = (*Noop)(nil)

type Noop struct {
}

func (i *Noop) Records(_ context.Context) ([]record.RawRecord, error) {
	log.Info().Msg("noop importer records call")
	return nil, nil
}
