package exporter

import (
	"davexport/internal/classify"
	"davexport/internal/record"
)

type CollectionExporter interface {
	// Export writes every classified collection and returns how many records
	// were written per family.
	Export(res *classify.Result) (map[record.Family]int, error)
}
