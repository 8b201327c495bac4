package cmd

import (
	"context"
	"davexport/internal/domain"
	"davexport/internal/exporter"
	"davexport/internal/importer"
)

func noopCmd(ctx context.Context) error {
	useCase := domain.New(ctx, &importer.Noop{}, &exporter.Noop{}, nil)
	_, err := useCase.ExportOnce()
	return err
}
