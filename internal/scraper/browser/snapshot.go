// Package browser provides utilities for browser automation with Rod.
package browser

import "github.com/go-rod/rod"

// snapshotJS serializes the document with shadow DOM content inlined. Custom
// dropdowns built on web components keep their option lists behind shadow
// roots, where a plain outerHTML read only shows empty host shells. Shadow
// content is wrapped in a <div data-shadow-root> appended to a clone of its
// host, depth-first so nested roots serialize inner-most first. The live DOM
// is not modified.
const snapshotJS = `() => {
	const MAX_DEPTH = 50;

	function serialize(node, depth) {
		if (depth > MAX_DEPTH || node.nodeType !== Node.ELEMENT_NODE) {
			return node.nodeType === Node.TEXT_NODE ? node.textContent : '';
		}

		const clone = node.cloneNode(false);
		clone.innerHTML = '';

		let inner = '';
		for (const child of node.childNodes) {
			inner += serialize(child, depth + 1);
		}

		if (node.shadowRoot) {
			let shadowInner = '';
			for (const child of node.shadowRoot.childNodes) {
				shadowInner += serialize(child, depth + 1);
			}
			inner += '<div data-shadow-root="true" data-shadow-host="'
				+ node.tagName.toLowerCase() + '">' + shadowInner + '</div>';
		}

		clone.innerHTML = inner;
		return clone.outerHTML;
	}

	return serialize(document.documentElement, 0);
}`

// SnapshotHTML returns the page's HTML with shadow root content inlined, so
// offline heuristics (goquery) can see text that hides inside web components.
// If the inlining script fails, the plain page HTML is returned instead.
func SnapshotHTML(page *rod.Page) (string, error) {
	res, err := page.Eval(snapshotJS)
	if err != nil {
		return page.HTML()
	}
	return res.Value.Str(), nil
}
