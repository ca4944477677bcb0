package portal

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/tmahajan/capflow-bot/internal/scraper/browser"
)

// Selectors holds the ordered candidate locators for every UI element the
// flow touches. Each list is tried top to bottom and the first match wins.
// The portal's markup is unowned and shifts without notice, so the lists live
// in data: an optional selectors.yaml overrides any of them without a
// rebuild.
type Selectors struct {
	UserField      []browser.Candidate `mapstructure:"user_field"`
	PasswordField  []browser.Candidate `mapstructure:"password_field"`
	LoginButton    []browser.Candidate `mapstructure:"login_button"`
	LoginError     []browser.Candidate `mapstructure:"login_error"`
	ReportsNav     []browser.Candidate `mapstructure:"reports_nav"`
	DropdownOpener []browser.Candidate `mapstructure:"dropdown_opener"`
	DateInput      []browser.Candidate `mapstructure:"date_input"`
	GenerateButton []browser.Candidate `mapstructure:"generate_button"`
	ReportsTable   []browser.Candidate `mapstructure:"reports_table"`
}

func css(patterns ...string) []browser.Candidate {
	out := make([]browser.Candidate, len(patterns))
	for i, p := range patterns {
		out[i] = browser.Candidate{Kind: browser.KindCSS, Pattern: p}
	}
	return out
}

func text(pattern string) browser.Candidate {
	return browser.Candidate{Kind: browser.KindText, Pattern: pattern}
}

// DefaultSelectors returns the compiled-in candidate lists, ordered from the
// selectors last seen on the portal down to generic guesses.
func DefaultSelectors() Selectors {
	return Selectors{
		UserField: css(
			"input#username",
			"input[name=username]",
			"input[name=userId]",
			"input[type=text][id*=user i]",
			"input[type=text]",
		),
		PasswordField: css(
			"input#password",
			"input[name=password]",
			"input[type=password]",
		),
		LoginButton: append(css(
			"button[type=submit]",
			"input[type=submit]",
			"button#loginBtn",
		), text("login"), text("sign in")),
		LoginError: css(
			".login-error",
			".alert-danger",
			"div.error",
		),
		ReportsNav: append(css(
			"a[href*=report i]",
			"li[id*=report i] a",
		), text("reports"), text("report")),
		DropdownOpener: css(
			".select2-selection",
			".dropdown-toggle",
			"div[class*=dropdown i]",
			"div[class*=combobox i]",
			"input[role=combobox]",
		),
		DateInput: css(
			"input[type=date]",
			"input[id*=date i]",
			"input[name*=date i]",
			"input[class*=date i]",
			"input[placeholder*=date i]",
		),
		GenerateButton: append(css(
			"button#generate",
			"button[type=submit]",
			"input[type=submit]",
		), text("generate"), text("submit")),
		ReportsTable: css(
			"table[id*=report i]",
			"table[class*=report i]",
			"div[id*=generated i] table",
			"table",
		),
	}
}

// LoadSelectors builds the Selectors, layering an optional YAML file over the
// defaults. An empty path means defaults only. A path that doesn't point at a
// readable config file is an error: a typo'd override must not silently fall
// back to stale selectors.
func LoadSelectors(path string) (Selectors, error) {
	sel := DefaultSelectors()
	if path == "" {
		return sel, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Selectors{}, fmt.Errorf("read selectors file %s: %w", path, err)
	}

	var override Selectors
	if err := v.Unmarshal(&override); err != nil {
		return Selectors{}, fmt.Errorf("parse selectors file %s: %w", path, err)
	}

	sel.merge(override)
	return sel, nil
}

// merge replaces each candidate list that the override actually sets,
// leaving unset lists at their defaults.
func (s *Selectors) merge(o Selectors) {
	if len(o.UserField) > 0 {
		s.UserField = o.UserField
	}
	if len(o.PasswordField) > 0 {
		s.PasswordField = o.PasswordField
	}
	if len(o.LoginButton) > 0 {
		s.LoginButton = o.LoginButton
	}
	if len(o.LoginError) > 0 {
		s.LoginError = o.LoginError
	}
	if len(o.ReportsNav) > 0 {
		s.ReportsNav = o.ReportsNav
	}
	if len(o.DropdownOpener) > 0 {
		s.DropdownOpener = o.DropdownOpener
	}
	if len(o.DateInput) > 0 {
		s.DateInput = o.DateInput
	}
	if len(o.GenerateButton) > 0 {
		s.GenerateButton = o.GenerateButton
	}
	if len(o.ReportsTable) > 0 {
		s.ReportsTable = o.ReportsTable
	}
}
