package receipt

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/config"
)

//go:embed templates/receipt.html
var templateFS embed.FS

var receiptTemplate = template.Must(template.ParseFS(templateFS, "templates/receipt.html"))

// Renderer turns a receipt document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
}

// HTML renders the document through the receipt template.
func HTML(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("execute receipt template: %w", err)
	}
	return buf.Bytes(), nil
}

// PDFRenderer shells out to wkhtmltopdf. Each call works in its own temporary
// directory, which is removed before Render returns.
type PDFRenderer struct {
	bin     string
	timeout time.Duration
	tempDir string
	logger  *zap.Logger
}

// NewPDFRenderer builds a renderer from configuration.
func NewPDFRenderer(cfg config.ReceiptConfig, logger *zap.Logger) *PDFRenderer {
	return &PDFRenderer{
		bin:     cfg.RendererBin,
		timeout: cfg.Timeout(),
		tempDir: cfg.TempDir,
		logger:  logger,
	}
}

// Render writes the HTML, converts it and returns the PDF.
func (r *PDFRenderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	html, err := HTML(doc)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp(r.tempDir, "receipt-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			r.logger.Warn("remove receipt temp dir", zap.String("dir", dir), zap.Error(rmErr))
		}
	}()

	in := filepath.Join(dir, "receipt.html")
	out := filepath.Join(dir, "receipt.pdf")
	if err := os.WriteFile(in, html, 0o600); err != nil {
		return nil, fmt.Errorf("write receipt html: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, r.bin, "--quiet", in, out)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s timed out after %s", r.bin, r.timeout)
		}
		r.logger.Warn("receipt renderer failed",
			zap.String("order_id", doc.OrderID),
			zap.String("stderr", stderr.String()),
			zap.Error(err))
		return nil, fmt.Errorf("run %s: %w", r.bin, err)
	}

	pdf, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("read rendered pdf: %w", err)
	}
	return pdf, nil
}

var _ Renderer = (*PDFRenderer)(nil)
