package cmd

import (
	"context"
	"davexport/internal/config"
	"davexport/internal/domain"
	"davexport/internal/exporter"
	"davexport/internal/importer"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

func exportCmd(ctx context.Context) error {
	useCase, err := newUseCase(ctx)
	if err != nil {
		return err
	}
	_, err = useCase.ExportOnce()
	return err
}

func watchCmd(ctx context.Context) error {
	useCase, err := newUseCase(ctx)
	if err != nil {
		return err
	}
	if err := useCase.TaskSync(config.Gist().String(config.EXPORT_SCHEDULE)); err != nil {
		return err
	}
	log.Info().Str("schedule", config.Gist().String(config.EXPORT_SCHEDULE)).Msg("waiting for scheduled exports")
	useCase.Stop()
	return nil
}

func newUseCase(ctx context.Context) (*domain.UseCase, error) {
	source, err := newSource()
	if err != nil {
		return nil, err
	}
	mode, err := exporter.ParseMode(config.Gist().String(config.EXPORT_MODE))
	if err != nil {
		return nil, err
	}
	targetDir := config.Gist().String(config.TARGET_DIR)
	log.Info().Str("dir", targetDir).Str("mode", string(mode)).Msg("exporting dav collections")

	var reporter exporter.Reporter
	if url := config.Gist().String(config.REPORT_WEBHOOK); url != "" {
		reporter = exporter.NewWebhook(url)
	}
	return domain.New(ctx, source, exporter.NewFileExporter(targetDir, mode), reporter), nil
}

func newSource() (importer.RecordSource, error) {
	switch src := config.Gist().String(config.SOURCE); src {
	case "postgres":
		return importer.NewPostgres(config.Gist().String(config.POSTGRES_DSN)), nil
	case "sqlite":
		if config.Gist().String(config.SQLITE_PATH) == "" {
			return nil, errors.New("sqlite_path is required for the sqlite source")
		}
		return importer.NewSQLite(config.Gist().String(config.SQLITE_PATH)), nil
	case "json":
		if config.Gist().String(config.JSON_PATH) == "" {
			return nil, errors.New("json_path is required for the json source")
		}
		return importer.NewJSONDump(config.Gist().String(config.JSON_PATH)), nil
	case "dav":
		return importer.NewDAV(
			config.Gist().String(config.DAV_URL),
			config.Gist().String(config.DAV_USER),
			config.Gist().String(config.DAV_PASS),
		)
	default:
		return nil, errors.New(fmt.Sprintf("unknown source: %s", src))
	}
}
