package inbound

import (
	"context"

	"github.com/google/uuid"
)

// ReportType selects which report projection to build.
type ReportType string

const (
	ReportInventory ReportType = "inventory"
	ReportValuation ReportType = "valuation"
	ReportInsurance ReportType = "insurance"
)

// ReportFormat selects the output encoding. The encoding is an input
// parameter, never inferred from content.
type ReportFormat string

const (
	FormatCSV  ReportFormat = "csv"
	FormatHTML ReportFormat = "html"
	FormatJSON ReportFormat = "json"
)

// ReportInclude carries the boolean inclusion flags for optional columns.
type ReportInclude struct {
	Description  bool `json:"include_description"`
	Attributes   bool `json:"include_attributes"`
	Images       bool `json:"include_images"`
	PurchaseInfo bool `json:"include_purchase_info"`
	ValueChange  bool `json:"include_value_change"`
}

// request to generate a report
type GenerateReportRequest struct {
	CallerID     uuid.UUID     `json:"-"`
	CollectionID uuid.UUID     `json:"collection_id"`
	Type         ReportType    `json:"report_type"`
	Format       ReportFormat  `json:"format"`
	Include      ReportInclude `json:"include"`
}

// ReportRow is one item's projection in a report.
type ReportRow struct {
	Name               string         `json:"name"`
	Value              float64        `json:"value"`
	Currency           string         `json:"currency"`
	Description        string         `json:"description,omitempty"`
	Attributes         map[string]any `json:"attributes,omitempty"`
	Images             []string       `json:"images,omitempty"`
	PurchasePrice      *float64       `json:"purchase_price,omitempty"`
	PurchaseDate       string         `json:"purchase_date,omitempty"`
	PurchasePlace      string         `json:"purchase_place,omitempty"`
	ValueChange        *float64       `json:"value_change,omitempty"`
	ValueChangePercent *float64       `json:"value_change_percent,omitempty"`
}

// ReportData is the structured report object.
type ReportData struct {
	CollectionID   uuid.UUID   `json:"collection_id"`
	CollectionName string      `json:"collection_name"`
	Type           ReportType  `json:"report_type"`
	GeneratedAt    string      `json:"generated_at"`
	TotalValue     float64     `json:"total_value"`
	Rows           []ReportRow `json:"rows"`
}

// RenderedReport is a report encoded for transport.
type RenderedReport struct {
	ContentType string
	Filename    string
	Body        []byte
	Data        *ReportData
}

// ReportService generates collection reports.
type ReportService interface {
	GenerateReport(ctx context.Context, req GenerateReportRequest) (*RenderedReport, error)
}

// request to export a collection
type ExportRequest struct {
	CallerID     uuid.UUID    `json:"-"`
	CollectionID uuid.UUID    `json:"collection_id"`
	Format       ReportFormat `json:"format"`
}

// ExportResult is a rendered export: a delimited header line plus rows, or
// the equivalent structured object.
type ExportResult struct {
	ContentType string
	Filename    string
	Body        []byte
	Headers     []string
	Rows        []map[string]any
}

// request to import item rows into a collection
type ImportRequest struct {
	CallerID     uuid.UUID        `json:"-"`
	CollectionID uuid.UUID        `json:"collection_id"`
	Rows         []map[string]any `json:"rows"`
}

// ImportResult reports the import outcome. Rows without a name are skipped
// silently and never counted as errors.
type ImportResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// ImportExportService handles collection import/export.
type ImportExportService interface {
	ExportCollection(ctx context.Context, req ExportRequest) (*ExportResult, error)
	ImportItems(ctx context.Context, req ImportRequest) (*ImportResult, error)
}
