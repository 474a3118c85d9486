package receipt

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/config"
	"github.com/spec-kit/order-service/internal/domain"
)

func sampleOrder() (*domain.Order, *domain.Customer) {
	price := decimal.RequireFromString("2.50")
	comment := "leave at the gangway"
	order := &domain.Order{
		ID:        "order-1",
		State:     domain.OrderStateProcessing,
		Comment:   &comment,
		CreatedOn: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		Items: []domain.OrderItem{
			{ItemName: "Rice", Quantity: decimal.RequireFromString("4"), Unit: domain.UnitKilograms, Price: &price},
			{ItemName: "Eggs", Quantity: decimal.RequireFromString("2"), Unit: domain.UnitDozen},
		},
	}
	customer := &domain.Customer{Ship: "MV Aurora", Supervisor: "J. Smith", Contact: "aurora@example.com"}
	return order, customer
}

func TestNewDocument(t *testing.T) {
	order, customer := sampleOrder()

	doc := NewDocument(order, customer)

	require.Len(t, doc.Lines, 2)
	require.NotNil(t, doc.Lines[0].Total)
	assert.True(t, doc.Lines[0].Total.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "Kilogram", doc.Lines[0].Unit)
	assert.Nil(t, doc.Lines[1].Total)
	assert.True(t, doc.Total.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "MV Aurora", doc.Ship)
	assert.Equal(t, "leave at the gangway", doc.Comment)
}

func TestNewDocumentWithoutPricesTotalsZero(t *testing.T) {
	order := &domain.Order{ID: "o", Items: []domain.OrderItem{{ItemName: "Salt", Quantity: decimal.NewFromInt(1), Unit: domain.UnitGrams}}}

	doc := NewDocument(order, nil)

	assert.True(t, doc.Total.IsZero())
	assert.Empty(t, doc.Contact)
}

func TestHTMLEscapesAndFormats(t *testing.T) {
	order, customer := sampleOrder()
	customer.Ship = "<script>alert(1)</script>"

	html, err := HTML(NewDocument(order, customer))
	require.NoError(t, err)

	body := string(html)
	assert.Contains(t, body, "Order order-1")
	assert.Contains(t, body, "10.00")
	assert.Contains(t, body, "2024-03-01 10:30")
	assert.NotContains(t, body, "<script>")
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not available")
	}
	path := filepath.Join(t.TempDir(), "fake-wkhtmltopdf")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func newTestRenderer(t *testing.T, bin string, timeoutSeconds int) (*PDFRenderer, string) {
	work := t.TempDir()
	cfg := config.ReceiptConfig{RendererBin: bin, TimeoutSeconds: timeoutSeconds, TempDir: work}
	return NewPDFRenderer(cfg, zap.NewNop()), work
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "renderer left files behind")
}

func TestPDFRendererRunsBinaryAndCleansUp(t *testing.T) {
	bin := writeScript(t, `[ "$1" = "--quiet" ] || exit 9
cp "$2" "$3"`)
	renderer, work := newTestRenderer(t, bin, 5)
	order, customer := sampleOrder()

	pdf, err := renderer.Render(context.Background(), NewDocument(order, customer))

	require.NoError(t, err)
	assert.True(t, strings.Contains(string(pdf), "MV Aurora"))
	assertEmptyDir(t, work)
}

func TestPDFRendererFailureCleansUp(t *testing.T) {
	bin := writeScript(t, `echo "boom" >&2
exit 3`)
	renderer, work := newTestRenderer(t, bin, 5)
	order, customer := sampleOrder()

	_, err := renderer.Render(context.Background(), NewDocument(order, customer))

	require.Error(t, err)
	assertEmptyDir(t, work)
}

func TestPDFRendererTimeout(t *testing.T) {
	bin := writeScript(t, `exec sleep 5`)
	renderer, work := newTestRenderer(t, bin, 1)
	order, customer := sampleOrder()

	start := time.Now()
	_, err := renderer.Render(context.Background(), NewDocument(order, customer))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 4*time.Second)
	assertEmptyDir(t, work)
}

func TestPDFRendererMissingBinary(t *testing.T) {
	renderer, work := newTestRenderer(t, filepath.Join(t.TempDir(), "does-not-exist"), 5)
	order, customer := sampleOrder()

	_, err := renderer.Render(context.Background(), NewDocument(order, customer))

	require.Error(t, err)
	assertEmptyDir(t, work)
}
