package app

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"click-collectible-service/internal/domain/collection"
	"click-collectible-service/internal/domain/item"
	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/ports/inbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportFixture struct {
	store   *fakeStore
	service *ReportService
	ownerID uuid.UUID
	coll    *collection.Collection
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	store := newFakeStore()
	ownerID := uuid.New()

	coll := &collection.Collection{
		ID:      uuid.New(),
		OwnerID: ownerID,
		TypeID:  uuid.New(),
		Name:    "Silver Age",
	}
	store.collections[coll.ID] = coll

	service := NewReportService(ReportServiceParams{
		CollectionRepo: &fakeCollectionRepo{store: store},
		ItemRepo:       &fakeItemRepo{store: store},
		Logger:         zerolog.Nop(),
	})
	return &reportFixture{store: store, service: service, ownerID: ownerID, coll: coll}
}

func (f *reportFixture) addItem(name string, purchasePrice, currentValue float64) *item.Item {
	date := time.Date(1999, 3, 14, 0, 0, 0, 0, time.UTC)
	it := &item.Item{
		ID:            uuid.New(),
		CollectionID:  f.coll.ID,
		OwnerID:       f.ownerID,
		Name:          name,
		PurchasePrice: purchasePrice,
		CurrentValue:  currentValue,
		Currency:      "USD",
		PurchaseDate:  &date,
		PurchasePlace: "Estate sale, Portland",
	}
	f.store.items[it.ID] = it
	return it
}

func TestGenerateReportRejectsUnknownTypeAndFormat(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	_, err := f.service.GenerateReport(ctx, inbound.GenerateReportRequest{
		CallerID:     f.ownerID,
		CollectionID: f.coll.ID,
		Type:         "appraisal",
		Format:       inbound.FormatJSON,
	})
	require.ErrorIs(t, err, shared.ErrUnknownReportType)

	_, err = f.service.GenerateReport(ctx, inbound.GenerateReportRequest{
		CallerID:     f.ownerID,
		CollectionID: f.coll.ID,
		Type:         inbound.ReportInventory,
		Format:       "pdf",
	})
	require.ErrorIs(t, err, shared.ErrUnknownReportFormat)
}

func TestGenerateReportOwnershipGate(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.service.GenerateReport(context.Background(), inbound.GenerateReportRequest{
		CallerID:     uuid.New(),
		CollectionID: f.coll.ID,
		Type:         inbound.ReportInventory,
		Format:       inbound.FormatJSON,
	})
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestValuationReportForcesValueChange(t *testing.T) {
	f := newReportFixture(t)
	f.addItem("Amazing Fantasy #15", 1000, 1200)

	rendered, err := f.service.GenerateReport(context.Background(), inbound.GenerateReportRequest{
		CallerID:     f.ownerID,
		CollectionID: f.coll.ID,
		Type:         inbound.ReportValuation,
		Format:       inbound.FormatJSON,
	})
	require.NoError(t, err)

	require.Len(t, rendered.Data.Rows, 1)
	row := rendered.Data.Rows[0]
	require.NotNil(t, row.ValueChange)
	require.NotNil(t, row.ValueChangePercent)
	assert.InDelta(t, 200.0, *row.ValueChange, 0.001)
	assert.InDelta(t, 20.0, *row.ValueChangePercent, 0.001)
}

func TestValuationReportZeroPurchasePrice(t *testing.T) {
	f := newReportFixture(t)
	f.addItem("Found at a flea market", 0, 800)

	rendered, err := f.service.GenerateReport(context.Background(), inbound.GenerateReportRequest{
		CallerID:     f.ownerID,
		CollectionID: f.coll.ID,
		Type:         inbound.ReportValuation,
		Format:       inbound.FormatJSON,
	})
	require.NoError(t, err)

	require.Len(t, rendered.Data.Rows, 1)
	row := rendered.Data.Rows[0]
	require.NotNil(t, row.ValueChange)
	require.NotNil(t, row.ValueChangePercent)
	assert.InDelta(t, 800.0, *row.ValueChange, 0.001)
	assert.Zero(t, *row.ValueChangePercent)
}

func TestInsuranceReportForcesPurchaseInfo(t *testing.T) {
	f := newReportFixture(t)
	f.addItem("Amazing Fantasy #15", 1000, 1200)

	rendered, err := f.service.GenerateReport(context.Background(), inbound.GenerateReportRequest{
		CallerID:     f.ownerID,
		CollectionID: f.coll.ID,
		Type:         inbound.ReportInsurance,
		Format:       inbound.FormatJSON,
	})
	require.NoError(t, err)

	row := rendered.Data.Rows[0]
	require.NotNil(t, row.PurchasePrice)
	assert.Equal(t, 1000.0, *row.PurchasePrice)
	assert.Equal(t, "1999-03-14", row.PurchaseDate)
	assert.Equal(t, "Estate sale, Portland", row.PurchasePlace)
}

func TestReportTotalValue(t *testing.T) {
	f := newReportFixture(t)
	f.addItem("Amazing Fantasy #15", 1000, 1200)
	f.addItem("Fantastic Four #1", 400, 800)

	rendered, err := f.service.GenerateReport(context.Background(), inbound.GenerateReportRequest{
		CallerID:     f.ownerID,
		CollectionID: f.coll.ID,
		Type:         inbound.ReportInventory,
		Format:       inbound.FormatJSON,
	})
	require.NoError(t, err)

	assert.InDelta(t, 2000.0, rendered.Data.TotalValue, 0.001)

	var decoded inbound.ReportData
	require.NoError(t, json.Unmarshal(rendered.Body, &decoded))
	assert.Equal(t, rendered.Data.CollectionName, decoded.CollectionName)
	assert.Len(t, decoded.Rows, 2)
}

func TestReportCSVEncoding(t *testing.T) {
	f := newReportFixture(t)
	it := f.addItem("Detective Comics #27, \"first Batman\"", 500, 1500)
	it.Description = "Slabbed, light wear"

	rendered, err := f.service.GenerateReport(context.Background(), inbound.GenerateReportRequest{
		CallerID:     f.ownerID,
		CollectionID: f.coll.ID,
		Type:         inbound.ReportInventory,
		Format:       inbound.FormatCSV,
		Include:      inbound.ReportInclude{Description: true},
	})
	require.NoError(t, err)

	assert.Equal(t, "text/csv", rendered.ContentType)
	assert.Equal(t, "silver-age-inventory-report.csv", rendered.Filename)

	records, err := csv.NewReader(strings.NewReader(string(rendered.Body))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"name", "value", "currency", "description"}, records[0])
	assert.Equal(t, "Detective Comics #27, \"first Batman\"", records[1][0])
	assert.Equal(t, "1500.00", records[1][1])
	assert.Equal(t, "Slabbed, light wear", records[1][3])
}

func TestReportHTMLEncoding(t *testing.T) {
	f := newReportFixture(t)
	f.addItem("Amazing Fantasy <#15>", 1000, 1200)

	rendered, err := f.service.GenerateReport(context.Background(), inbound.GenerateReportRequest{
		CallerID:     f.ownerID,
		CollectionID: f.coll.ID,
		Type:         inbound.ReportInventory,
		Format:       inbound.FormatHTML,
	})
	require.NoError(t, err)

	body := string(rendered.Body)
	assert.Equal(t, "text/html", rendered.ContentType)
	assert.Contains(t, body, "<table")
	assert.Contains(t, body, "Amazing Fantasy &lt;#15&gt;")
	assert.NotContains(t, body, "<#15>")
}
