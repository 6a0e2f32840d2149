package document

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/ledongthuc/pdf"

	"edocta/edocta-csv/internal/parsererror"
)

// PDF is a Document backed by a file on disk.
type PDF struct {
	path string
	file *os.File

	mu     sync.Mutex // the reader shares one file offset
	reader *pdf.Reader
	pages  int
}

// OpenPDF opens path and checks that it has at least one page.
// Any failure, including a panic inside the PDF library, is a DocumentUnreadableError.
func OpenPDF(path string) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &parsererror.DocumentUnreadableError{
				FilePath: path,
				Reason:   "PDF library crashed",
				Err:      fmt.Errorf("%v", r),
			}
		}
	}()

	f, r, openErr := pdf.Open(path)
	if openErr != nil {
		return nil, &parsererror.DocumentUnreadableError{FilePath: path, Reason: "open failed", Err: openErr}
	}

	n := r.NumPage()
	if n == 0 {
		_ = f.Close()
		return nil, &parsererror.DocumentUnreadableError{FilePath: path, Reason: "document has no pages"}
	}

	return &PDF{path: path, file: f, reader: r, pages: n}, nil
}

// NumPages returns the page count.
func (d *PDF) NumPages() int { return d.pages }

// Page reads the positioned text of page n. Y coordinates are flipped to top-down.
func (d *PDF) Page(ctx context.Context, n int) (page Page, err error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	if n < 1 || n > d.pages {
		return Page{}, fmt.Errorf("page %d out of range 1..%d", n, d.pages)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = &parsererror.DocumentUnreadableError{
				FilePath: d.path,
				Reason:   fmt.Sprintf("page %d could not be decoded", n),
				Err:      fmt.Errorf("%v", r),
			}
		}
	}()

	p := d.reader.Page(n)
	page = Page{Number: n, Width: LetterWidth, Height: LetterHeight}
	if p.V.IsNull() {
		return page, nil
	}
	if w, h, ok := mediaBox(p.V); ok {
		page.Width, page.Height = w, h
	}

	content := p.Content()
	page.Texts = make([]Text, 0, len(content.Text))
	for _, t := range content.Text {
		page.Texts = append(page.Texts, Text{
			X:        t.X,
			Y:        page.Height - t.Y,
			W:        t.W,
			FontSize: t.FontSize,
			S:        t.S,
		})
	}
	return page, nil
}

// Close releases the file handle.
func (d *PDF) Close() error {
	return d.file.Close()
}

// mediaBox walks up the page tree because MediaBox is inheritable.
func mediaBox(v pdf.Value) (width, height float64, ok bool) {
	for node := v; !node.IsNull(); node = node.Key("Parent") {
		box := node.Key("MediaBox")
		if box.Kind() != pdf.Array || box.Len() < 4 {
			continue
		}
		width = box.Index(2).Float64() - box.Index(0).Float64()
		height = box.Index(3).Float64() - box.Index(1).Float64()
		if width > 0 && height > 0 {
			return width, height, true
		}
	}
	return 0, 0, false
}
