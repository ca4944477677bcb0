// Package browser provides utilities for browser automation with Rod.
package browser

import (
	"time"

	"github.com/go-rod/rod"
)

// SettleFrames waits for DOM stability on the page and on every visible
// iframe, recursively. Reporting portals love to lazy-load their app shell
// into frames; interacting before the frames settle finds nothing.
func SettleFrames(page *rod.Page) {
	_ = page.WaitDOMStable(300*time.Millisecond, 0)

	iframes, err := page.Elements("iframe")
	if err != nil {
		return
	}

	for _, iframe := range iframes {
		if visible, _ := iframe.Visible(); !visible {
			continue
		}
		frame, err := iframe.Frame()
		if err != nil {
			continue
		}
		SettleFrames(frame)
	}
}

// DeepestVisibleFrame descends into the first visible iframe at each level
// and returns the innermost frame context. When the page hosts no visible
// iframe, the page itself is returned.
func DeepestVisibleFrame(page *rod.Page) *rod.Page {
	iframes, err := page.Elements("iframe")
	if err != nil {
		return page
	}

	for _, iframe := range iframes {
		if visible, _ := iframe.Visible(); !visible {
			continue
		}
		frame, err := iframe.Frame()
		if err != nil {
			continue
		}
		return DeepestVisibleFrame(frame)
	}

	return page
}
