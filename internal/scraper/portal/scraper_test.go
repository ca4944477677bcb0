package portal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmahajan/capflow-bot/internal/scraper/testutil"
)

// TestMode selects how scraper tests interact with the portal.
type TestMode string

const (
	TestModeMock   TestMode = "mock"   // static fixtures only (default)
	TestModeReplay TestMode = "replay" // replay a recorded session
	TestModeLive   TestMode = "live"   // hit the real portal (dangerous!)
)

func getTestMode() TestMode {
	mode := os.Getenv("SCRAPER_TEST_MODE")
	if mode == "" {
		return TestModeMock
	}
	return TestMode(mode)
}

func skipUnlessMode(t *testing.T, required TestMode) {
	if getTestMode() != required {
		t.Skipf("Skipping: requires SCRAPER_TEST_MODE=%s", required)
	}
}

// Integration test - runs only in replay mode with a captured recording.
func TestScraper_Login_ReplaySuccess_Integration(t *testing.T) {
	skipUnlessMode(t, TestModeReplay)

	recPath := filepath.Join("testdata", "recordings", "login-success.json")
	if _, err := os.Stat(recPath); os.IsNotExist(err) {
		t.Skipf("Recording not found: %s", recPath)
	}

	rec := testutil.MustLoadRecording(t, recPath)
	replayer := testutil.NewReplayer(rec)

	scraper, err := New(
		"https://eclientreporting.example.com/wealthspectrum/app/loginWith",
		WithHijacker(replayer.Middleware()),
		WithStepTimeout(10*time.Second),
		WithDownloadDir(t.TempDir()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = scraper.Close() })

	// Credentials don't matter in replay mode.
	err = scraper.Login(context.Background(), Credentials{
		User:     "test-user",
		Password: "test-password",
	})

	require.NoError(t, err, "login should succeed against the recorded session")
}

func TestScraper_Login_ReplayBadCredentials_Integration(t *testing.T) {
	skipUnlessMode(t, TestModeReplay)

	recPath := filepath.Join("testdata", "recordings", "login-rejected.json")
	if _, err := os.Stat(recPath); os.IsNotExist(err) {
		t.Skipf("Recording not found: %s", recPath)
	}

	rec := testutil.MustLoadRecording(t, recPath)
	replayer := testutil.NewReplayer(rec)

	scraper, err := New(
		"https://eclientreporting.example.com/wealthspectrum/app/loginWith",
		WithHijacker(replayer.Middleware()),
		WithStepTimeout(10*time.Second),
		WithDownloadDir(t.TempDir()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = scraper.Close() })

	err = scraper.Login(context.Background(), Credentials{User: "bad", Password: "bad"})

	require.Error(t, err)
	var ferr *FlowError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "Login", ferr.Operation)
}
