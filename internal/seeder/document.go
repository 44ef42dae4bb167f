package seeder

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Export-sequence sentinel for documents whose header omits export_order.
// Higher than any real sequence number, so such documents sort first under
// the descending insertion order.
const missingExportOrder = 9999

// docPattern splits a migration document into its fenced header block and
// the body. The fence format is a contract with the exporter.
var docPattern = regexp.MustCompile(`(?s)\A---\n(.*?)\n---\n?(.*)\z`)

type documentHeader struct {
	ExportOrder *int    `yaml:"export_order"`
	ID          uint    `yaml:"id"`
	Title       string  `yaml:"title"`
	Type        string  `yaml:"type"`
	Spacing     string  `yaml:"spacing"`
	Order       int     `yaml:"order"`
	IsPublished *bool   `yaml:"is_published"`
	BeforeAlt   *string `yaml:"before_alt"`
	AfterAlt    *string `yaml:"after_alt"`
	CreatedAt   string  `yaml:"created_at"`
	UpdatedAt   string  `yaml:"updated_at"`
	BeforeImage string  `yaml:"before_image"`
	AfterImage  string  `yaml:"after_image"`
}

type Document struct {
	Path   string
	Header documentHeader
	Body   string
}

func (d *Document) ExportOrder() int {
	if d.Header.ExportOrder == nil {
		return missingExportOrder
	}
	return *d.Header.ExportOrder
}

// ParseDocument reads and validates one migration document. Documents
// without an id or title are rejected.
func ParseDocument(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	m := docPattern.FindSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf("%s: missing header block", path)
	}

	var header documentHeader
	if err := yaml.Unmarshal(m[1], &header); err != nil {
		return nil, fmt.Errorf("%s: bad header: %w", path, err)
	}

	if header.ID == 0 {
		return nil, fmt.Errorf("%s: header missing id", path)
	}
	if strings.TrimSpace(header.Title) == "" {
		return nil, fmt.Errorf("%s: header missing title", path)
	}

	body := strings.TrimPrefix(string(m[2]), "\n")
	body = strings.TrimSuffix(body, "\n")

	return &Document{Path: path, Header: header, Body: body}, nil
}
