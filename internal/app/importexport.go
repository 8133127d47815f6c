package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"click-collectible-service/internal/domain/item"
	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/ports/inbound"
	"click-collectible-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// exportBaseColumns is the fixed leading column set of every export; the
// owning type's required and optional attribute names follow it.
var exportBaseColumns = []string{
	"name", "description", "purchase_price", "current_value", "currency",
	"purchase_date", "purchase_place", "condition",
}

// ImportExportService handles collection export templates and bulk item
// import.
type ImportExportService struct {
	collectionRepo outbound.CollectionRepository
	typeRepo       outbound.CollectionTypeRepository
	itemRepo       outbound.ItemRepository
	logger         zerolog.Logger
}

type ImportExportServiceParams struct {
	CollectionRepo outbound.CollectionRepository
	TypeRepo       outbound.CollectionTypeRepository
	ItemRepo       outbound.ItemRepository
	Logger         zerolog.Logger
}

// NewImportExportService creates a new import/export service
func NewImportExportService(params ImportExportServiceParams) *ImportExportService {
	return &ImportExportService{
		collectionRepo: params.CollectionRepo,
		typeRepo:       params.TypeRepo,
		itemRepo:       params.ItemRepo,
		logger:         params.Logger.With().Str("component", "import_export_service").Logger(),
	}
}

// ExportCollection renders the collection's items under the fixed base
// columns plus the type's attribute names, as CSV or a structured object.
func (service *ImportExportService) ExportCollection(ctx context.Context, req inbound.ExportRequest) (*inbound.ExportResult, error) {
	coll, err := service.collectionRepo.GetByID(ctx, req.CollectionID)
	if err != nil {
		return nil, err
	}
	if !coll.OwnedBy(req.CallerID) {
		service.logger.Warn().
			Str("collection_id", req.CollectionID.String()).
			Str("caller_id", req.CallerID.String()).
			Msg("Export denied")
		return nil, shared.ErrForbidden
	}

	typ, err := service.typeRepo.GetByID(ctx, coll.TypeID)
	if err != nil {
		return nil, err
	}

	items, err := service.itemRepo.ListByCollection(ctx, req.CollectionID)
	if err != nil {
		return nil, err
	}

	headers := append(append([]string{}, exportBaseColumns...), typ.AttributeNames()...)
	rows := make([]map[string]any, 0, len(items))
	for _, it := range items {
		rows = append(rows, exportRow(it, typ.AttributeNames()))
	}

	result := &inbound.ExportResult{
		Headers: headers,
		Rows:    rows,
	}
	filename := fmt.Sprintf("%s-export", slugify(coll.Name))

	switch req.Format {
	case inbound.FormatCSV:
		body, err := encodeExportCSV(headers, rows)
		if err != nil {
			return nil, err
		}
		result.ContentType = "text/csv"
		result.Filename = filename + ".csv"
		result.Body = body

	case inbound.FormatJSON, "":
		payload := map[string]any{"headers": headers, "rows": rows}
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode export: %w", err)
		}
		result.ContentType = "application/json"
		result.Filename = filename + ".json"
		result.Body = body

	default:
		return nil, shared.ErrUnknownReportFormat
	}

	service.logger.Info().
		Str("collection_id", coll.ID.String()).
		Str("format", string(req.Format)).
		Int("rows", len(rows)).
		Msg("Collection exported")

	return result, nil
}

func exportRow(it *item.Item, attributeNames []string) map[string]any {
	row := map[string]any{
		"name":           it.Name,
		"description":    it.Description,
		"purchase_price": it.PurchasePrice,
		"current_value":  it.CurrentValue,
		"currency":       it.Currency,
		"purchase_place": it.PurchasePlace,
		"condition":      it.Condition,
	}
	if it.PurchaseDate != nil {
		row["purchase_date"] = it.PurchaseDate.Format("2006-01-02")
	} else {
		row["purchase_date"] = ""
	}
	for _, name := range attributeNames {
		if val, ok := it.Attributes[name]; ok {
			row[name] = val
		} else {
			row[name] = ""
		}
	}
	return row
}

func encodeExportCSV(headers []string, rows []map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	for _, row := range rows {
		record := make([]string, len(headers))
		for i, h := range headers {
			if val, ok := row[h]; ok && val != nil {
				record[i] = fmt.Sprintf("%v", val)
			}
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("encode export: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	return buf.Bytes(), nil
}

// ImportItems inserts row objects into a collection the caller owns. Rows
// without a name are skipped silently; numeric-looking fields are coerced;
// currency defaults to USD and images to empty. The batch runs in one
// transaction that also refreshes the collection aggregates.
func (service *ImportExportService) ImportItems(ctx context.Context, req inbound.ImportRequest) (*inbound.ImportResult, error) {
	coll, err := service.collectionRepo.GetByID(ctx, req.CollectionID)
	if err != nil {
		return nil, err
	}
	if !coll.OwnedBy(req.CallerID) {
		service.logger.Warn().
			Str("collection_id", req.CollectionID.String()).
			Str("caller_id", req.CallerID.String()).
			Msg("Import denied")
		return nil, shared.ErrForbidden
	}

	typ, err := service.typeRepo.GetByID(ctx, coll.TypeID)
	if err != nil {
		return nil, err
	}
	attributeNames := typ.AttributeNames()

	items := make([]*item.Item, 0, len(req.Rows))
	skipped := 0
	now := time.Now()

	for _, row := range req.Rows {
		name := stringField(row, "name")
		if name == "" {
			skipped++
			continue
		}

		it := &item.Item{
			ID:            uuid.New(),
			CollectionID:  coll.ID,
			OwnerID:       req.CallerID,
			Name:          name,
			Description:   stringField(row, "description"),
			PurchasePrice: numericField(row, "purchase_price"),
			CurrentValue:  numericField(row, "current_value"),
			Currency:      stringField(row, "currency"),
			PurchasePlace: stringField(row, "purchase_place"),
			Condition:     stringField(row, "condition"),
			Attributes:    map[string]any{},
			Images:        []string{},
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if it.Currency == "" {
			it.Currency = item.DefaultCurrency
		}
		if date := stringField(row, "purchase_date"); date != "" {
			if parsed, err := time.Parse("2006-01-02", date); err == nil {
				it.PurchaseDate = &parsed
			}
		}
		for _, attr := range attributeNames {
			if val, ok := row[attr]; ok && val != nil && fmt.Sprintf("%v", val) != "" {
				it.Attributes[attr] = val
			}
		}

		items = append(items, it)
	}

	inserted := 0
	if len(items) > 0 {
		inserted, err = service.itemRepo.BulkInsert(ctx, coll.ID, items)
		if err != nil {
			service.logger.Error().Err(err).Str("collection_id", coll.ID.String()).Msg("Bulk insert failed")
			return nil, err
		}
	}

	service.logger.Info().
		Str("collection_id", coll.ID.String()).
		Int("inserted", inserted).
		Int("skipped", skipped).
		Msg("Items imported")

	return &inbound.ImportResult{Inserted: inserted, Skipped: skipped}, nil
}

func stringField(row map[string]any, key string) string {
	val, ok := row[key]
	if !ok || val == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", val))
}

// numericField coerces numeric-looking values; anything else becomes 0.
func numericField(row map[string]any, key string) float64 {
	val, ok := row[key]
	if !ok || val == nil {
		return 0
	}
	switch v := val.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return 0
}
