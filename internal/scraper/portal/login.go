package portal

import (
	"context"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/tmahajan/capflow-bot/internal/scraper/browser"
)

// Credentials authenticate against the portal.
type Credentials struct {
	User     string
	Password string
}

// Login navigates to the login page, fills the credential fields, and
// submits. The field and button locations are resolved heuristically; any
// element that can't be found aborts the run.
func (s *Scraper) Login(ctx context.Context, creds Credentials) error {
	const op = "Login"

	page := s.page.Context(ctx)

	nav := page.Timeout(s.stepTimeout)
	if err := nav.Navigate(s.loginURL); err != nil {
		return flowErr(op, err, "navigate to "+s.loginURL)
	}
	if err := nav.WaitLoad(); err != nil {
		return flowErr(op, err, "wait for login page load")
	}
	browser.SettleFrames(page)

	userEl, err := browser.ResolveFirstDeep(page, "username field", s.sel.UserField)
	if err != nil {
		return flowErr(op, err, "")
	}
	passEl, err := browser.ResolveFirstDeep(page, "password field", s.sel.PasswordField)
	if err != nil {
		return flowErr(op, err, "")
	}

	if err := browser.FillHuman(userEl, creds.User); err != nil {
		return flowErr(op, err, "fill username")
	}
	if err := browser.FillHuman(passEl, creds.Password); err != nil {
		return flowErr(op, err, "fill password")
	}

	submitEl, err := browser.ResolveFirstDeep(page, "login button", s.sel.LoginButton)
	if err != nil {
		return flowErr(op, err, "")
	}

	// Some deployments submit via full navigation, others via XHR; the
	// bounded wait covers the first and simply expires on the second.
	wait := page.Timeout(s.stepTimeout).WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := submitEl.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return flowErr(op, err, "click login button")
	}
	wait()
	browser.SettleFrames(page)

	if msg := s.loginErrorText(page); msg != "" {
		return flowErr(op, ErrLoginFailed, msg)
	}

	return nil
}

// loginErrorText returns the text of a visible login error banner, or "".
// The banner selectors are heuristic too, so absence of a match means the
// login is assumed to have succeeded; the next step fails loudly if not.
func (s *Scraper) loginErrorText(page *rod.Page) string {
	el, err := browser.ResolveFirst(page, "login error banner", s.sel.LoginError)
	if err != nil {
		return ""
	}
	if visible, _ := el.Visible(); !visible {
		return ""
	}
	text, err := el.Text()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
