// Package pipeline drives a statement through extraction, normalization,
// reconstruction and classification, one page at a time.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"edocta/edocta-csv/internal/categorizer"
	"edocta/edocta-csv/internal/dateutils"
	"edocta/edocta-csv/internal/document"
	"edocta/edocta-csv/internal/extractor"
	"edocta/edocta-csv/internal/logging"
	"edocta/edocta-csv/internal/models"
	"edocta/edocta-csv/internal/parsererror"
	"edocta/edocta-csv/internal/profile"
)

// DefaultPageTimeout bounds the extraction of a single page.
const DefaultPageTimeout = 30 * time.Second

// Classifier assigns a category to a description.
type Classifier interface {
	Categorize(ctx context.Context, description string) categorizer.Match
}

// Result is everything produced for one document.
type Result struct {
	Transactions []models.Transaction
	Diagnostics  models.Diagnostics
	YearRange    dateutils.YearRange
	Pages        int
}

// Pipeline converts statements into transactions. It holds no per-document
// state and is safe for concurrent use.
type Pipeline struct {
	opener      document.Opener
	extractor   *extractor.Extractor
	classifier  Classifier
	logger      logging.Logger
	workers     int
	pageTimeout time.Duration
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithOpener replaces the PDF opener.
func WithOpener(opener document.Opener) Option {
	return func(p *Pipeline) { p.opener = opener }
}

// WithWorkers sets how many pages are extracted concurrently. Output order is
// page order regardless.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithPageTimeout sets the per-page extraction budget. Zero disables it.
func WithPageTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.pageTimeout = d }
}

// WithExtractor replaces the table extractor.
func WithExtractor(e *extractor.Extractor) Option {
	return func(p *Pipeline) { p.extractor = e }
}

// New builds a Pipeline that classifies with classifier.
func New(classifier Classifier, logger logging.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	p := &Pipeline{
		opener:      document.OpenPDF,
		extractor:   extractor.New(),
		classifier:  classifier,
		logger:      logger,
		workers:     1,
		pageTimeout: DefaultPageTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process opens the statement at path and converts it with prof.
func (p *Pipeline) Process(ctx context.Context, path string, prof profile.Profile) (Result, error) {
	doc, err := p.opener(path)
	if err != nil {
		var unreadable *parsererror.DocumentUnreadableError
		if errors.As(err, &unreadable) {
			return Result{}, err
		}
		return Result{}, &parsererror.DocumentUnreadableError{FilePath: path, Reason: "open failed", Err: err}
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			p.logger.WithError(cerr).Warn("Failed to close document", logging.F(logging.FieldFile, path))
		}
	}()
	return p.ProcessDocument(ctx, doc, path, prof)
}

// ProcessDocument converts an already opened document. path only labels logs and errors.
func (p *Pipeline) ProcessDocument(ctx context.Context, doc document.Document, path string, prof profile.Profile) (Result, error) {
	log := p.logger.WithFields(
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldBank, string(prof.Kind)))

	if err := prof.Validate(); err != nil {
		return Result{}, &parsererror.ValidationError{FilePath: path, Reason: err.Error()}
	}

	n := doc.NumPages()
	if n < 1 {
		return Result{}, &parsererror.DocumentUnreadableError{FilePath: path, Reason: "document has no pages"}
	}
	result := Result{Pages: n, YearRange: dateutils.UnknownYearRange()}

	if prof.NeedsYearRange() {
		years, err := p.yearRange(ctx, doc, path, *prof.YearRegion)
		if err != nil {
			return Result{}, err
		}
		if years.IsUnknown() {
			log.Warn("No statement period found, dates fall back to the sentinel year",
				logging.F(logging.FieldYearRange, years.String()))
		}
		result.YearRange = years
	}

	first, last, ok := prof.Pages.Range(n)
	if !ok {
		log.Info("Document has no pages inside the transaction window", logging.F(logging.FieldCount, n))
		return result, nil
	}

	pages := make([]pageResult, last-first+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range pages {
		num := first + i
		g.Go(func() error {
			page, err := p.loadPage(gctx, doc, path, num)
			if err != nil {
				return err
			}
			pages[i] = p.transformPage(gctx, page, prof, result.YearRange, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Statement processing failed")
		return Result{}, err
	}

	for _, pr := range pages {
		result.Transactions = append(result.Transactions, pr.transactions...)
		result.Diagnostics.Add(pr.diagnostics)
	}

	log.Info("Statement processed",
		logging.F(logging.FieldCount, len(result.Transactions)),
		logging.F("pages_scanned", result.Diagnostics.PagesScanned),
		logging.F("empty_pages", result.Diagnostics.EmptyPages),
		logging.F(logging.FieldDropped, result.Diagnostics.RowsDropped),
		logging.F("marker_rows_removed", result.Diagnostics.MarkerRowsRemoved),
		logging.F("continuations_merged", result.Diagnostics.ContinuationsMerged))
	return result, nil
}

func (p *Pipeline) yearRange(ctx context.Context, doc document.Document, path string, region extractor.Region) (dateutils.YearRange, error) {
	page, err := p.loadPage(ctx, doc, path, 1)
	if err != nil {
		return dateutils.YearRange{}, err
	}
	return dateutils.YearRangeFromText(p.extractor.ExtractText(page, region)), nil
}

type loaded struct {
	page document.Page
	err  error
}

// loadPage reads page n within the page timeout. Running out of time is fatal
// for the document.
func (p *Pipeline) loadPage(ctx context.Context, doc document.Document, path string, n int) (document.Page, error) {
	if p.pageTimeout <= 0 {
		return p.readPage(ctx, doc, path, n)
	}

	pctx, cancel := context.WithTimeout(ctx, p.pageTimeout)
	defer cancel()

	done := make(chan loaded, 1)
	go func() {
		page, err := p.readPage(pctx, doc, path, n)
		done <- loaded{page: page, err: err}
	}()

	var l loaded
	select {
	case l = <-done:
	case <-pctx.Done():
		l.err = pctx.Err()
	}
	if errors.Is(l.err, context.DeadlineExceeded) && ctx.Err() == nil {
		return document.Page{}, &parsererror.ExtractionTimeoutError{
			FilePath: path,
			Page:     n,
			Seconds:  p.pageTimeout.Seconds(),
		}
	}
	return l.page, l.err
}

func (p *Pipeline) readPage(ctx context.Context, doc document.Document, path string, n int) (document.Page, error) {
	page, err := doc.Page(ctx, n)
	if err == nil {
		return page, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, parsererror.ErrDocumentUnreadable) {
		return document.Page{}, err
	}
	return document.Page{}, &parsererror.DocumentUnreadableError{
		FilePath: path,
		Reason:   fmt.Sprintf("page %d could not be read", n),
		Err:      err,
	}
}
