package portal

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// The heuristics in this file run over captured HTML, not live elements, so
// they are testable without a browser.

// OptionMatches reports whether an option's visible text contains the target
// report name, ignoring case and surrounding/internal whitespace runs.
func OptionMatches(optionText, target string) bool {
	return strings.Contains(
		strings.ToLower(squashSpace(optionText)),
		strings.ToLower(squashSpace(target)),
	)
}

func squashSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NativeOption is a matching <option> found inside a <select>.
type NativeOption struct {
	SelectIndex int    // position of the <select> in document order
	Value       string // option value attribute (may be empty)
	Text        string // option visible text, trimmed
}

// FindNativeOption scans every native selection list in the HTML for an
// option whose text contains the target case-insensitively. Returns the first
// match in document order, or false when no native list offers the target.
func FindNativeOption(html, target string) (NativeOption, bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return NativeOption{}, false, fmt.Errorf("parse page html: %w", err)
	}

	var match NativeOption
	found := false

	doc.Find("select").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		sel.Find("option").EachWithBreak(func(_ int, opt *goquery.Selection) bool {
			if !OptionMatches(opt.Text(), target) {
				return true
			}
			match = NativeOption{
				SelectIndex: i,
				Value:       opt.AttrOr("value", ""),
				Text:        strings.TrimSpace(opt.Text()),
			}
			found = true
			return false
		})
		return !found
	})

	return match, found, nil
}

// StatusColumnIndex resolves which column of the generated-reports table
// holds the download trigger. It returns the 1-based index of the first
// header whose text contains "status" (any case); when no header matches,
// the last column is assumed. An error is returned when the table has no
// header cells at all.
func StatusColumnIndex(tableHTML string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return 0, fmt.Errorf("parse table html: %w", err)
	}

	headers := doc.Find("thead th")
	if headers.Length() == 0 {
		headers = doc.Find("tr").First().Find("th, td")
	}
	if headers.Length() == 0 {
		return 0, fmt.Errorf("reports table has no header cells")
	}

	index := headers.Length() // fallback: last column
	headers.EachWithBreak(func(i int, h *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(h.Text()), "status") {
			index = i + 1
			return false
		}
		return true
	})

	return index, nil
}

// DataRowCount counts the table's data rows, excluding the header row when
// the table keeps it inline instead of in a <thead>.
func DataRowCount(tableHTML string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return 0, fmt.Errorf("parse table html: %w", err)
	}

	if rows := doc.Find("tbody tr"); rows.Length() > 0 {
		count := 0
		rows.Each(func(_ int, r *goquery.Selection) {
			if r.Find("td").Length() > 0 {
				count++
			}
		})
		return count, nil
	}

	count := 0
	doc.Find("tr").Each(func(_ int, r *goquery.Selection) {
		if r.Find("td").Length() > 0 && r.Find("th").Length() == 0 {
			count++
		}
	})
	return count, nil
}
