package rendering

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/resume-optimizer/internal/logger"
)

// DefaultPDFTimeout bounds a single HTML to PDF conversion.
const DefaultPDFTimeout = 30 * time.Second

// A4 paper size in inches.
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// PDFRenderer converts an HTML page to PDF bytes.
type PDFRenderer interface {
	PDF(ctx context.Context, html string) ([]byte, error)
}

// ChromePDF prints HTML to PDF with a headless Chrome.
// Requires Chrome/Chromium to be installed on the system.
type ChromePDF struct {
	Timeout time.Duration
}

// NewChromePDF creates a ChromePDF with DefaultPDFTimeout.
func NewChromePDF() *ChromePDF {
	return &ChromePDF{Timeout: DefaultPDFTimeout}
}

// PDF loads html into a blank page and prints it on A4 paper.
func (c *ChromePDF) PDF(ctx context.Context, html string) ([]byte, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, &RenderError{Message: "browser PDF rendering failed", Cause: err}
	}

	logger.Ctx(ctx).Debug().Int("bytes", len(pdf)).Dur("elapsed", time.Since(start)).Msg("rendered PDF")
	return pdf, nil
}
