package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
	"time"

	"click-collectible-service/internal/domain/collection"
	"click-collectible-service/internal/domain/item"
	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/ports/inbound"
	"click-collectible-service/internal/ports/outbound"

	"github.com/rs/zerolog"
)

// ReportService builds collection reports: a projection of the collection's
// items selected by report type and inclusion flags, encoded per the
// requested format. The format is an input parameter, never inferred.
type ReportService struct {
	collectionRepo outbound.CollectionRepository
	itemRepo       outbound.ItemRepository
	logger         zerolog.Logger
}

type ReportServiceParams struct {
	CollectionRepo outbound.CollectionRepository
	ItemRepo       outbound.ItemRepository
	Logger         zerolog.Logger
}

// NewReportService creates a new report service
func NewReportService(params ReportServiceParams) *ReportService {
	return &ReportService{
		collectionRepo: params.CollectionRepo,
		itemRepo:       params.ItemRepo,
		logger:         params.Logger.With().Str("component", "report_service").Logger(),
	}
}

// GenerateReport builds and encodes a report over a collection the caller
// owns.
func (service *ReportService) GenerateReport(ctx context.Context, req inbound.GenerateReportRequest) (*inbound.RenderedReport, error) {
	switch req.Type {
	case inbound.ReportInventory, inbound.ReportValuation, inbound.ReportInsurance:
	default:
		return nil, shared.ErrUnknownReportType
	}
	switch req.Format {
	case inbound.FormatCSV, inbound.FormatHTML, inbound.FormatJSON:
	default:
		return nil, shared.ErrUnknownReportFormat
	}

	coll, err := service.collectionRepo.GetByID(ctx, req.CollectionID)
	if err != nil {
		return nil, err
	}
	if !coll.OwnedBy(req.CallerID) {
		service.logger.Warn().
			Str("collection_id", req.CollectionID.String()).
			Str("caller_id", req.CallerID.String()).
			Msg("Report generation denied")
		return nil, shared.ErrForbidden
	}

	items, err := service.itemRepo.ListByCollection(ctx, req.CollectionID)
	if err != nil {
		return nil, err
	}

	include := req.Include
	// Type presets: valuation reports always carry value change, insurance
	// reports always carry purchase info.
	switch req.Type {
	case inbound.ReportValuation:
		include.ValueChange = true
	case inbound.ReportInsurance:
		include.PurchaseInfo = true
	}

	data := buildReportData(coll, items, req.Type, include)

	service.logger.Info().
		Str("collection_id", coll.ID.String()).
		Str("report_type", string(req.Type)).
		Str("format", string(req.Format)).
		Int("rows", len(data.Rows)).
		Msg("Report generated")

	return encodeReport(data, req.Format, include)
}

func buildReportData(coll *collection.Collection, items []*item.Item, typ inbound.ReportType, include inbound.ReportInclude) *inbound.ReportData {
	data := &inbound.ReportData{
		CollectionID:   coll.ID,
		CollectionName: coll.Name,
		Type:           typ,
		GeneratedAt:    time.Now().Format(time.RFC3339),
		Rows:           make([]inbound.ReportRow, 0, len(items)),
	}

	for _, it := range items {
		row := inbound.ReportRow{
			Name:     it.Name,
			Value:    it.CurrentValue,
			Currency: it.Currency,
		}
		if include.Description {
			row.Description = it.Description
		}
		if include.Attributes {
			row.Attributes = it.Attributes
		}
		if include.Images {
			row.Images = it.Images
		}
		if include.PurchaseInfo {
			price := it.PurchasePrice
			row.PurchasePrice = &price
			if it.PurchaseDate != nil {
				row.PurchaseDate = it.PurchaseDate.Format("2006-01-02")
			}
			row.PurchasePlace = it.PurchasePlace
		}
		if include.ValueChange {
			change := it.ValueChange()
			pct := it.ValueChangePercent()
			row.ValueChange = &change
			row.ValueChangePercent = &pct
		}
		data.TotalValue += it.CurrentValue
		data.Rows = append(data.Rows, row)
	}

	return data
}

func encodeReport(data *inbound.ReportData, format inbound.ReportFormat, include inbound.ReportInclude) (*inbound.RenderedReport, error) {
	base := fmt.Sprintf("%s-%s-report", slugify(data.CollectionName), data.Type)

	switch format {
	case inbound.FormatJSON:
		body, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode report: %w", err)
		}
		return &inbound.RenderedReport{
			ContentType: "application/json",
			Filename:    base + ".json",
			Body:        body,
			Data:        data,
		}, nil

	case inbound.FormatCSV:
		body, err := encodeReportCSV(data, include)
		if err != nil {
			return nil, err
		}
		return &inbound.RenderedReport{
			ContentType: "text/csv",
			Filename:    base + ".csv",
			Body:        body,
			Data:        data,
		}, nil

	case inbound.FormatHTML:
		return &inbound.RenderedReport{
			ContentType: "text/html",
			Filename:    base + ".html",
			Body:        []byte(encodeReportHTML(data, include)),
			Data:        data,
		}, nil
	}

	return nil, shared.ErrUnknownReportFormat
}

func reportColumns(include inbound.ReportInclude) []string {
	columns := []string{"name", "value", "currency"}
	if include.Description {
		columns = append(columns, "description")
	}
	if include.Attributes {
		columns = append(columns, "attributes")
	}
	if include.Images {
		columns = append(columns, "images")
	}
	if include.PurchaseInfo {
		columns = append(columns, "purchase_price", "purchase_date", "purchase_place")
	}
	if include.ValueChange {
		columns = append(columns, "value_change", "value_change_percent")
	}
	return columns
}

func reportCell(row inbound.ReportRow, column string) string {
	switch column {
	case "name":
		return row.Name
	case "value":
		return formatFloat(row.Value)
	case "currency":
		return row.Currency
	case "description":
		return row.Description
	case "attributes":
		return formatAttributes(row.Attributes)
	case "images":
		return strings.Join(row.Images, " ")
	case "purchase_price":
		if row.PurchasePrice != nil {
			return formatFloat(*row.PurchasePrice)
		}
	case "purchase_date":
		return row.PurchaseDate
	case "purchase_place":
		return row.PurchasePlace
	case "value_change":
		if row.ValueChange != nil {
			return formatFloat(*row.ValueChange)
		}
	case "value_change_percent":
		if row.ValueChangePercent != nil {
			return formatFloat(*row.ValueChangePercent)
		}
	}
	return ""
}

func encodeReportCSV(data *inbound.ReportData, include inbound.ReportInclude) ([]byte, error) {
	columns := reportColumns(include)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = reportCell(row, col)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("encode report: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	return buf.Bytes(), nil
}

func encodeReportHTML(data *inbound.ReportData, include inbound.ReportInclude) string {
	columns := reportColumns(include)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><title>")
	b.WriteString(html.EscapeString(data.CollectionName))
	b.WriteString(" " + string(data.Type))
	b.WriteString(" report</title></head>\n<body>\n")
	b.WriteString("<h1>" + html.EscapeString(data.CollectionName) + "</h1>\n")
	b.WriteString("<p>Generated " + data.GeneratedAt + ", total value " + formatFloat(data.TotalValue) + "</p>\n")
	b.WriteString("<table border=\"1\">\n<tr>")
	for _, col := range columns {
		b.WriteString("<th>" + html.EscapeString(col) + "</th>")
	}
	b.WriteString("</tr>\n")
	for _, row := range data.Rows {
		b.WriteString("<tr>")
		for _, col := range columns {
			b.WriteString("<td>" + html.EscapeString(reportCell(row, col)) + "</td>")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>\n</body>\n</html>\n")

	return b.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatAttributes renders an attribute map as stable "k=v" pairs.
func formatAttributes(attrs map[string]any) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, attrs[k])
	}
	return strings.Join(parts, "; ")
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")
	if s == "" {
		return "collection"
	}
	return s
}
