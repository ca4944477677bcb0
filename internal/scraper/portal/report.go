package portal

import (
	"context"
	"fmt"
	"regexp"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/tmahajan/capflow-bot/internal/scraper/browser"
)

// OpenReports clicks through to the reporting section.
func (s *Scraper) OpenReports(ctx context.Context) error {
	const op = "OpenReports"

	page := s.page.Context(ctx).Timeout(s.stepTimeout)

	nav, err := browser.ResolveFirstDeep(page, "reports navigation link", s.sel.ReportsNav)
	if err != nil {
		return flowErr(op, err, "")
	}
	if err := nav.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return flowErr(op, err, "click reports link")
	}
	browser.SettleFrames(page)

	return nil
}

// SelectReport picks the target report type. Two strategies, in order:
// native <select> lists are scanned for an option containing the name; if no
// native list offers it, a custom dropdown is opened and its items searched
// by text and ARIA role.
func (s *Scraper) SelectReport(ctx context.Context, name string) error {
	const op = "SelectReport"

	page := s.page.Context(ctx).Timeout(s.stepTimeout)
	frame := browser.DeepestVisibleFrame(page)

	ok, err := s.selectNativeOption(frame, name)
	if err != nil {
		return flowErr(op, err, "")
	}
	if ok {
		return nil
	}

	if err := s.selectCustomDropdown(frame, name); err != nil {
		return flowErr(op, err, "")
	}
	return nil
}

// selectNativeOption scans every native selection list for the report name.
// Each live <select> is matched by its own option text, so lists hidden
// inside shadow roots can't skew which element gets selected.
func (s *Scraper) selectNativeOption(page *rod.Page, name string) (bool, error) {
	selects, err := page.Elements("select")
	if err != nil {
		return false, fmt.Errorf("list selection elements: %w", err)
	}

	for _, sel := range selects {
		html, err := sel.HTML()
		if err != nil {
			continue
		}
		match, found, err := FindNativeOption(html, name)
		if err != nil || !found {
			continue
		}

		pattern := "(?i)" + regexp.QuoteMeta(match.Text)
		if err := sel.Select([]string{pattern}, true, rod.SelectorTypeRegex); err != nil {
			return false, fmt.Errorf("select option %q: %w", match.Text, err)
		}
		return true, nil
	}

	return false, nil
}

// selectCustomDropdown opens a combobox-style widget and clicks the item
// whose text contains the report name.
func (s *Scraper) selectCustomDropdown(page *rod.Page, name string) error {
	opener, err := browser.ResolveFirst(page, "report dropdown opener", s.sel.DropdownOpener)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReportNotFound, err)
	}
	if err := opener.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("open report dropdown: %w", err)
	}
	browser.SettleFrames(page)

	item, err := s.findDropdownItem(page, name)
	if err != nil {
		return err
	}

	if err := item.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click report item %q: %w", name, err)
	}
	return nil
}

// findDropdownItem locates the dropdown entry carrying the report name:
// first by visible text, then by walking every option/menuitem role match
// and accepting the first whose text contains the name. The role walk covers
// items whose rendered text the XPath text lookup can't see (odd whitespace,
// text split across inline nodes).
func (s *Scraper) findDropdownItem(page *rod.Page, name string) (*rod.Element, error) {
	el, err := browser.ResolveFirst(page, "report dropdown item", []browser.Candidate{
		{Kind: browser.KindText, Pattern: name},
	})
	if err == nil {
		if text, terr := el.Text(); terr == nil && OptionMatches(text, name) {
			return el, nil
		}
	}

	for _, role := range []string{"option", "menuitem"} {
		items, err := page.Elements(fmt.Sprintf("[role=%q]", role))
		if err != nil {
			continue
		}
		for _, item := range items {
			text, err := item.Text()
			if err != nil || !OptionMatches(text, name) {
				continue
			}
			return item, nil
		}
	}

	return nil, fmt.Errorf("%w: %q not offered by any dropdown", ErrReportNotFound, name)
}

// SetStatementDate fills the date widget. Each rendered format is typed in
// turn until the widget's value sticks; if typing never sticks, direct value
// assignment with synthetic events is tried as a fallback for readonly
// widgets.
func (s *Scraper) SetStatementDate(ctx context.Context, renderings []string) error {
	const op = "SetStatementDate"

	page := s.page.Context(ctx).Timeout(s.stepTimeout)
	frame := browser.DeepestVisibleFrame(page)

	dateEl, err := browser.ResolveFirst(frame, "statement date input", s.sel.DateInput)
	if err != nil {
		return flowErr(op, err, "")
	}

	for _, r := range renderings {
		if err := browser.Fill(dateEl, r); err != nil {
			continue
		}
		if got, err := browser.InputValue(dateEl); err == nil && got == r {
			return nil
		}
	}

	for _, r := range renderings {
		if err := browser.ForceValue(dateEl, r); err != nil {
			continue
		}
		if got, err := browser.InputValue(dateEl); err == nil && got == r {
			return nil
		}
	}

	return flowErr(op, ErrDateNotAccepted, fmt.Sprintf("tried %d formats", len(renderings)))
}

// GenerateReport triggers report generation and waits for the page to settle
// so the generated row shows up in the reports table.
func (s *Scraper) GenerateReport(ctx context.Context) error {
	const op = "GenerateReport"

	page := s.page.Context(ctx).Timeout(s.stepTimeout)
	frame := browser.DeepestVisibleFrame(page)

	gen, err := browser.ResolveFirst(frame, "generate button", s.sel.GenerateButton)
	if err != nil {
		return flowErr(op, err, "")
	}
	if err := gen.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return flowErr(op, err, "click generate button")
	}
	browser.SettleFrames(page)

	return nil
}
