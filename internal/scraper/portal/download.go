package portal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/tmahajan/capflow-bot/internal/scraper/browser"
)

// controlKinds are the clickable element types tried inside the status cell,
// most specific first.
var controlKinds = []string{"a", "button", "[onclick]", "img", "i", "span"}

// DownloadStatement locates the freshest generated report row, resolves the
// status column, and clicks through the cell's controls until one produces a
// file download. The file is persisted into the download directory under the
// portal's suggested filename and its path returned.
func (s *Scraper) DownloadStatement(ctx context.Context) (string, error) {
	const op = "DownloadStatement"

	if err := os.MkdirAll(s.downloadDir, 0o755); err != nil {
		return "", flowErr(op, err, "create download dir")
	}

	// No step timeout on this page handle: the per-attempt download waits
	// below carry their own bounds and can legitimately outlast it.
	page := s.page.Context(ctx)
	frame := browser.DeepestVisibleFrame(page)

	table, err := browser.ResolveFirst(frame, "generated reports table", s.sel.ReportsTable)
	if err != nil {
		return "", flowErr(op, err, "")
	}

	tableHTML, err := table.HTML()
	if err != nil {
		return "", flowErr(op, err, "read reports table")
	}

	col, err := StatusColumnIndex(tableHTML)
	if err != nil {
		return "", flowErr(op, err, "")
	}

	rows, err := DataRowCount(tableHTML)
	if err != nil {
		return "", flowErr(op, err, "")
	}
	if rows == 0 {
		return "", flowErr(op, ErrNoGeneratedRows, "")
	}

	cell, err := s.statusCell(table, col)
	if err != nil {
		return "", flowErr(op, err, "")
	}

	path, err := s.clickForDownload(ctx, cell)
	if err != nil {
		return "", flowErr(op, err, fmt.Sprintf("status column %d", col))
	}
	return path, nil
}

// statusCell returns the status-column cell of the first (most recent) data
// row.
func (s *Scraper) statusCell(table *rod.Element, col int) (*rod.Element, error) {
	rows, err := table.Elements("tr")
	if err != nil {
		return nil, fmt.Errorf("list table rows: %w", err)
	}

	for _, row := range rows {
		cells, err := row.Elements("td")
		if err != nil || len(cells) == 0 {
			continue // header row
		}
		if col > len(cells) {
			return cells[len(cells)-1], nil
		}
		return cells[col-1], nil
	}

	return nil, ErrNoGeneratedRows
}

// clickForDownload tries each control kind inside the cell until a click
// yields a completed download within the bounded wait. A timeout moves on to
// the next kind; exhausting all kinds is fatal.
func (s *Scraper) clickForDownload(ctx context.Context, cell *rod.Element) (string, error) {
	attempted := 0

	for _, kind := range controlKinds {
		ctrls, err := cell.Elements(kind)
		if err != nil || len(ctrls) == 0 {
			continue
		}

		ctrl := ctrls[0]
		for _, c := range ctrls {
			if visible, _ := c.Visible(); visible {
				ctrl = c
				break
			}
		}
		attempted++

		path, err := s.awaitDownload(ctx, ctrl)
		if err == nil {
			return path, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	if attempted == 0 {
		return "", fmt.Errorf("status cell has no clickable controls")
	}
	return "", fmt.Errorf("%w: %d controls tried", ErrDownloadTimeout, attempted)
}

// awaitDownload clicks the control and waits for the resulting download to
// complete, bounded by the download timeout.
func (s *Scraper) awaitDownload(ctx context.Context, ctrl *rod.Element) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, s.downloadTimeout)
	defer cancel()

	wait := s.browser.Context(tctx).WaitDownload(s.downloadDir)

	if err := ctrl.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return "", fmt.Errorf("click download control: %w", err)
	}

	info := wait()
	if info == nil {
		return "", ErrDownloadTimeout
	}

	return s.persistDownload(info)
}

// persistDownload moves the completed download from its GUID name to the
// portal's suggested filename inside the download directory.
func (s *Scraper) persistDownload(info *proto.PageDownloadWillBegin) (string, error) {
	src := filepath.Join(s.downloadDir, info.GUID)

	name := info.SuggestedFilename
	if name == "" {
		name = info.GUID
	}
	dst := filepath.Join(s.downloadDir, filepath.Base(name))

	if src == dst {
		return dst, nil
	}
	if err := os.Rename(src, dst); err != nil {
		return "", fmt.Errorf("persist download as %s: %w", dst, err)
	}
	return dst, nil
}
