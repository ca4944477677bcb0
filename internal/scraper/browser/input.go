// Package browser provides utilities for browser automation with Rod.
package browser

import "github.com/go-rod/rod"

// setValueJS assigns the value directly and dispatches synthetic input and
// change events so framework listeners fire. The readonly attribute is lifted
// first: date widgets commonly mark their backing input readonly and only
// accept values through their own picker UI.
const setValueJS = `(value) => {
	this.removeAttribute('readonly');
	this.value = value;
	this.dispatchEvent(new Event('input', { bubbles: true }));
	this.dispatchEvent(new Event('change', { bubbles: true }));
}`

// ForceValue sets an input's value by direct DOM manipulation. This is a
// fallback for widgets that reject simulated typing; it does not generalize
// to every date-widget implementation, so callers try Fill first.
func ForceValue(el *rod.Element, value string) error {
	_, err := el.Eval(setValueJS, value)
	return err
}

// InputValue returns the element's current value property.
func InputValue(el *rod.Element) (string, error) {
	v, err := el.Property("value")
	if err != nil {
		return "", err
	}
	return v.Str(), nil
}
