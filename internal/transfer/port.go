package transfer

import (
	"context"

	"portfolio-api/internal/logs"
)

type TransferServiceAPI interface {
	ExportCSV(ctx context.Context, ids []uint, host string) (*ExportResult, error)
	ExportMigration(ctx context.Context, ids []uint, host string) (*ExportResult, error)
	Import(ctx context.Context, stagedObject string) (*ImportReport, error)
}

// LogSink is the slice of the system-log service the pipelines need.
type LogSink interface {
	Log(entry logs.SystemLog, metadata interface{}) error
}

var _ LogSink = (*logs.LogService)(nil)
