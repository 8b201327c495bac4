package domain

import (
	"context"
	"davexport/internal/classify"
	"davexport/internal/exporter"
	"davexport/internal/importer"
	"davexport/internal/record"
	"strings"

	"github.com/adhocore/gronx"
	"github.com/adhocore/gronx/pkg/tasker"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

type UseCase struct {
	source   importer.RecordSource
	exporter exporter.CollectionExporter
	reporter exporter.Reporter
	pool     *pool.ContextPool
	ctx      context.Context
}

// New wires a use case. reporter may be nil.
func New(ctx context.Context, source importer.RecordSource, collectionExporter exporter.CollectionExporter, reporter exporter.Reporter) *UseCase {
	return &UseCase{
		source:   source,
		exporter: collectionExporter,
		reporter: reporter,
		pool:     pool.New().WithContext(ctx).WithMaxGoroutines(1),
		ctx:      ctx,
	}
}

// ExportOnce reads every record, classifies it and writes all collections.
// Any error aborts the whole pass.
func (uc *UseCase) ExportOnce() (record.Summary, error) {
	summary := record.Summary{RunID: uuid.NewString()}
	logger := log.With().Str("run", summary.RunID).Logger()

	records, err := uc.source.Records(uc.ctx)
	if err != nil {
		return summary, errors.Wrap(err, "error reading records")
	}
	summary.Total = len(records)

	res, err := classify.Classify(records)
	if err != nil {
		return summary, err
	}
	summary.Repaired = res.Repaired
	summary.Collections = make(map[record.Family][]string, len(record.Families))
	for _, family := range record.Families {
		summary.Collections[family] = res.Collections(family).Keys()
	}
	logger.Info().Str("collections", strings.Join(summary.Collections[record.Addresses], ", ")).Msg("address collections")
	logger.Info().Str("collections", strings.Join(summary.Collections[record.Calendars], ", ")).Msg("calendar collections")
	logger.Info().Str("collections", strings.Join(summary.Collections[record.Events], ", ")).
		Int("fixed", summary.Repaired).Msg("event collections")

	summary.Written, err = uc.exporter.Export(res)
	if err != nil {
		return summary, err
	}
	logger.Info().Msgf("finished - exported %d entries out of %d total entries", summary.WrittenTotal(), summary.Total)

	if uc.reporter != nil {
		if err := uc.reporter.Report(uc.ctx, summary); err != nil {
			logger.Warn().Err(err).Msg("error reporting export summary")
		}
	}
	return summary, nil
}

// TaskSync runs ExportOnce on cronExpr in the background, one pass at a time,
// until the process is interrupted.
func (uc *UseCase) TaskSync(cronExpr string) error {
	if !gronx.New().IsValid(cronExpr) {
		return errors.New("invalid cron expression: " + cronExpr)
	}
	taskr := tasker.New(tasker.Option{})
	taskr.Task(cronExpr, func(_ context.Context) (int, error) {
		if _, err := uc.ExportOnce(); err != nil {
			log.Error().Err(err).Str("task", "export").Msg("scheduled export failed")
			return 1, err
		}
		return 0, nil
	}, false)
	uc.pool.Go(func(_ context.Context) error {
		taskr.Run()
		return nil
	})
	return nil
}

func (uc *UseCase) Stop() {
	uc.pool.Wait()
}
