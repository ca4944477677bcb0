// Package browser provides utilities for browser automation with Rod.
package browser

import (
	"math/rand"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
)

// Fill clears the element's current value and types the text with real
// keyboard events (keydown/keyup per character). Widgets that listen for key
// events ignore a plain programmatic value assignment, so typing is always
// the first strategy.
func Fill(el *rod.Element, text string) error {
	if err := el.SelectAllText(); err != nil {
		return err
	}
	keys := make([]input.Key, 0, len(text))
	for _, char := range text {
		keys = append(keys, input.Key(char))
	}
	return el.Type(keys...)
}

// FillHuman is Fill with 50-150ms pauses between keystrokes. Login forms are
// the one place worth typing slowly: bot-detection heuristics watch keystroke
// timing there.
func FillHuman(el *rod.Element, text string) error {
	if err := el.SelectAllText(); err != nil {
		return err
	}
	for _, char := range text {
		if err := el.Type(input.Key(char)); err != nil {
			return err
		}
		time.Sleep(time.Duration(50+rand.Intn(100)) * time.Millisecond)
	}
	return nil
}
