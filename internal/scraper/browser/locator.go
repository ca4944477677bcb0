// Package browser provides utilities for browser automation with Rod.
package browser

import (
	"fmt"
	"strings"

	"github.com/go-rod/rod"
)

// CandidateKind names the locator strategy of a Candidate.
type CandidateKind string

const (
	// KindCSS matches elements by CSS selector.
	KindCSS CandidateKind = "css"
	// KindText matches elements whose visible text contains the pattern,
	// case-insensitively.
	KindText CandidateKind = "text"
	// KindRole matches elements by ARIA role attribute.
	KindRole CandidateKind = "role"
)

// Candidate is one locator attempt for a UI element whose exact markup is
// unknown. Candidates are data, not code: lists of them are loaded from
// configuration so portal markup changes don't require a rebuild.
type Candidate struct {
	Kind    CandidateKind `mapstructure:"kind"`
	Pattern string        `mapstructure:"pattern"`
}

func (c Candidate) String() string {
	return fmt.Sprintf("%s=%q", c.Kind, c.Pattern)
}

// ResolveFirst tries each candidate in order against the page and returns the
// first element any of them matches. Preference goes to a visible match; if a
// candidate only matches hidden elements the first of those is returned.
// There is no waiting and no retry across page loads: the caller is
// responsible for page readiness before invocation.
func ResolveFirst(page *rod.Page, what string, candidates []Candidate) (*rod.Element, error) {
	for _, c := range candidates {
		els, err := matchCandidate(page, c)
		if err != nil || len(els) == 0 {
			continue
		}
		for _, el := range els {
			if visible, _ := el.Visible(); visible {
				return el, nil
			}
		}
		return els[0], nil
	}

	tried := make([]string, len(candidates))
	for i, c := range candidates {
		tried[i] = c.String()
	}
	return nil, fmt.Errorf("%s: no element matched any candidate [%s]",
		what, strings.Join(tried, ", "))
}

// ResolveFirstDeep is ResolveFirst with an iframe fallback: when nothing on
// the top-level page matches, the search is repeated inside the deepest
// visible iframe. Portals that render their app inside a frame (the login
// form especially) need this.
func ResolveFirstDeep(page *rod.Page, what string, candidates []Candidate) (*rod.Element, error) {
	el, err := ResolveFirst(page, what, candidates)
	if err == nil {
		return el, nil
	}

	frame := DeepestVisibleFrame(page)
	if frame == page {
		return nil, err
	}
	return ResolveFirst(frame, what, candidates)
}

func matchCandidate(page *rod.Page, c Candidate) (rod.Elements, error) {
	switch c.Kind {
	case KindCSS:
		return page.Elements(c.Pattern)
	case KindText:
		return page.ElementsX(textContainsXPath(c.Pattern))
	case KindRole:
		return page.Elements(fmt.Sprintf(`[role=%q]`, c.Pattern))
	default:
		return nil, fmt.Errorf("unknown candidate kind %q", c.Kind)
	}
}

const (
	xpathUpper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	xpathLower = "abcdefghijklmnopqrstuvwxyz"
)

// textContainsXPath builds a case-insensitive text-contains XPath. XPath 1.0
// has no lower-case(), so translate() does the folding.
func textContainsXPath(pattern string) string {
	needle := xpathLiteral(strings.ToLower(pattern))
	return fmt.Sprintf(
		`//*[contains(translate(normalize-space(.), '%s', '%s'), %s) and not(.//*[contains(translate(normalize-space(.), '%s', '%s'), %s)])]`,
		xpathUpper, xpathLower, needle,
		xpathUpper, xpathLower, needle,
	)
}

// xpathLiteral quotes a string for embedding in an XPath expression. XPath
// 1.0 has no escape sequence inside string literals, so a value carrying a
// single quote has to be assembled with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, "'")
	pieces := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			pieces = append(pieces, `"'"`)
		}
		pieces = append(pieces, "'"+p+"'")
	}
	return "concat(" + strings.Join(pieces, ", ") + ")"
}
