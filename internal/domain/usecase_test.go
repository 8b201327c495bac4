package domain

import (
	"context"
	"davexport/internal/exporter"
	"davexport/internal/record"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	records []record.RawRecord
	err     error
}

func (s *staticSource) Records(_ context.Context) ([]record.RawRecord, error) {
	return s.records, s.err
}

type captureReporter struct {
	summaries []record.Summary
	err       error
}

func (r *captureReporter) Report(_ context.Context, summary record.Summary) error {
	r.summaries = append(r.summaries, summary)
	return r.err
}

func sampleRecords() []record.RawRecord {
	return []record.RawRecord{
		{Owner: "alice", Collection: "personal", EntryName: "a.vcf", ContentType: "VCARD",
			Payload: "BEGIN:VCARD\r\nFN:Bob\r\nEND:VCARD\r\n"},
		{Owner: "alice", Collection: "work", EntryName: "w.ics", ContentType: "VEVENT",
			Payload: "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nUID:1\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"},
		{Owner: "bob", Collection: "tasks", EntryName: "t.ics", ContentType: "VTODO",
			Payload: "X-STRAY-HEADER:oops\nBEGIN:VTODO\nUID:2\nEND:VTODO"},
	}
}

func TestExportOnce_Merged(t *testing.T) {
	dir := t.TempDir()
	reporter := &captureReporter{}
	uc := New(context.Background(), &staticSource{records: sampleRecords()}, exporter.NewFileExporter(dir, exporter.Merged), reporter)

	summary, err := uc.ExportOnce()
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Repaired)
	assert.Equal(t, 3, summary.WrittenTotal())
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, []string{"alice-personal"}, summary.Collections[record.Addresses])
	assert.Equal(t, []string{"alice-work"}, summary.Collections[record.Calendars])
	assert.Equal(t, []string{"bob-tasks"}, summary.Collections[record.Events])

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, f := range files {
		names = append(names, f.Name())
	}
	assert.ElementsMatch(t, []string{"alice-personal.vcf", "alice-work.ics", "bob-tasks-events.ics"}, names)

	events, err := os.ReadFile(filepath.Join(dir, "bob-tasks-events.ics"))
	require.NoError(t, err)
	assert.Equal(t, "BEGIN:VTODO\nUID:2\nEND:VTODO", string(events))
	assert.NotContains(t, string(events), "X-STRAY-HEADER")

	require.Len(t, reporter.summaries, 1)
	assert.Equal(t, summary, reporter.summaries[0])
}

func TestExportOnce_Entries(t *testing.T) {
	dir := t.TempDir()
	records := append(sampleRecords(), record.RawRecord{
		Owner: "alice", Collection: "work", EntryName: "w2", ContentType: "vevent", Payload: "BEGIN:VEVENT\r\nEND:VEVENT\r\n",
	})
	uc := New(context.Background(), &staticSource{records: records}, exporter.NewFileExporter(dir, exporter.Entries), nil)

	summary, err := uc.ExportOnce()
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Written[record.Calendars])

	work, err := os.ReadDir(filepath.Join(dir, "alice-work-calendars"))
	require.NoError(t, err)
	assert.Len(t, work, 2)
	assert.FileExists(t, filepath.Join(dir, "alice-work-calendars", "alice-work-w.ics"))
	assert.FileExists(t, filepath.Join(dir, "alice-work-calendars", "alice-work-w2.ics"))
	assert.FileExists(t, filepath.Join(dir, "alice-personal-addresses", "alice-personal-a.vcf"))
	assert.FileExists(t, filepath.Join(dir, "bob-tasks-events", "bob-tasks-t.ics"))
}

func TestExportOnce_AbortsWithoutWriting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	records := append(sampleRecords(), record.RawRecord{
		Owner: "carol", Collection: "notes", EntryName: "n.ics", ContentType: "VJOURNAL", Payload: "x",
	})
	reporter := &captureReporter{}
	uc := New(context.Background(), &staticSource{records: records}, exporter.NewFileExporter(dir, exporter.Merged), reporter)

	_, err := uc.ExportOnce()
	require.Error(t, err)
	assert.True(t, errors.Is(err, record.ErrUnknownContentType))
	assert.Contains(t, err.Error(), "carol/notes")
	assert.NoDirExists(t, dir)
	assert.Empty(t, reporter.summaries)
}

func TestExportOnce_SourceError(t *testing.T) {
	boom := errors.New("connection refused")
	uc := New(context.Background(), &staticSource{err: boom}, &exporter.Noop{}, nil)

	_, err := uc.ExportOnce()
	require.Error(t, err)
	assert.Equal(t, boom, errors.Cause(err))
}

func TestExportOnce_ReporterErrorIsNotFatal(t *testing.T) {
	reporter := &captureReporter{err: errors.New("webhook down")}
	uc := New(context.Background(), &staticSource{records: sampleRecords()}, &exporter.Noop{}, reporter)

	summary, err := uc.ExportOnce()
	require.NoError(t, err)
	assert.Equal(t, 3, summary.WrittenTotal())
	assert.Len(t, reporter.summaries, 1)
}

func TestTaskSync_InvalidSchedule(t *testing.T) {
	uc := New(context.Background(), &staticSource{}, &exporter.Noop{}, nil)
	assert.Error(t, uc.TaskSync("not a cron"))
}
