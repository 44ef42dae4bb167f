package transfer

import "time"

// Column order of portfolios.csv. This is a round-trip contract between the
// exporter and the importer; do not reorder.
var csvHeader = []string{
	"ID",
	"Title",
	"Description",
	"Type",
	"Spacing",
	"Order",
	"Is Published",
	"Before Alt",
	"After Alt",
	"Before Image",
	"After Image",
	"Created At",
	"Updated At",
}

// Timestamp layout used inside archives.
const archiveTimeLayout = "2006-01-02 15:04:05"

// imageOutcome is what exporting one image collection of one record produced.
type imageOutcome int

const (
	imageExported imageOutcome = iota
	imageSkipped               // record has no attachment in the collection
	imageFailed                // attachment exists but could not be copied
)

type ExportRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// ExportResult points at a finished archive on the local filesystem.
type ExportResult struct {
	ArchivePath string
	ArchiveName string
	WorkDir     string
	Count       int
}

type ImportReport struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Images  int `json:"images"`
	Skipped int `json:"skipped"`
}

// importRow is one parsed tabular row plus its sort key.
type importRow struct {
	fields    map[string]string
	createdAt time.Time
}
