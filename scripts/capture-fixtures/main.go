// Capture-fixtures opens a visible browser against the live portal and saves
// an HTML fixture (shadow DOM inlined) plus a screenshot for each flow page.
// The operator drives the portal by hand; the tool snapshots on ENTER.
//
// Scrub credentials, account numbers, and holder names from the captured
// HTML before committing anything under testdata.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	browserutil "github.com/tmahajan/capflow-bot/internal/scraper/browser"
)

type pageCapture struct {
	Name         string
	Instructions string
}

var capturePages = []pageCapture{
	{Name: "login_page", Instructions: "Navigate to the login page (don't login yet)"},
	{Name: "login_error", Instructions: "Enter INVALID credentials and submit (or skip)"},
	{Name: "home", Instructions: "Login with VALID credentials, wait for the landing page"},
	{Name: "reports_page", Instructions: "Open the Reports section"},
	{Name: "report_selected", Instructions: "Select 'Statement of Capital Flows' and set yesterday's date"},
	{Name: "reports_generated", Instructions: "Trigger generation and wait for the Reports Generated table"},
	{Name: "logout", Instructions: "Logout before quitting (or skip)"},
}

func main() {
	outputDir := flag.String("output", filepath.Join("internal", "scraper", "portal", "testdata", "fixtures"),
		"Output directory for captured fixtures")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Printf("Error creating directory: %v\n", err)
		os.Exit(1)
	}

	url := launcher.New().
		Headless(false).
		Set("disable-blink-features", "AutomationControlled").
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("window-size", "1920,1080").
		MustLaunch()

	browser := rod.New().ControlURL(url).MustConnect()
	defer browser.MustClose()

	page := stealth.MustPage(browser)
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("Portal fixture capture")
	fmt.Println("  - A browser window has opened; follow the prompts")
	fmt.Println("  - Press ENTER after completing each step, or type 'skip'/'quit'")
	fmt.Println()

	for _, capture := range capturePages {
		fmt.Printf("Capturing %s.html\n", capture.Name)
		fmt.Printf("  %s\n", capture.Instructions)
		fmt.Print("  ENTER when ready (or 'skip'/'quit'): ")

		input, _ := reader.ReadString('\n')
		switch strings.TrimSpace(strings.ToLower(input)) {
		case "quit":
			fmt.Println("Exiting.")
			return
		case "skip":
			fmt.Printf("  skipped %s\n\n", capture.Name)
			continue
		}

		browserutil.SettleFrames(page)

		// Screenshot before serializing, for visual reference.
		if buf, err := page.Screenshot(false, nil); err == nil {
			_ = os.WriteFile(filepath.Join(*outputDir, capture.Name+".png"), buf, 0o644)
		}

		html, err := browserutil.SnapshotHTML(page)
		if err != nil {
			fmt.Printf("  error capturing HTML: %v\n\n", err)
			continue
		}

		htmlPath := filepath.Join(*outputDir, capture.Name+".html")
		if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
			fmt.Printf("  error saving HTML: %v\n\n", err)
			continue
		}

		fmt.Printf("  saved %s\n\n", htmlPath)
	}

	fmt.Println("Capture complete. Sanitize sensitive data before committing!")
}
