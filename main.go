// Command capflow-bot fetches the daily Statement of Capital Flows from the
// wealth-reporting portal and emails it to the distribution list.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmahajan/capflow-bot/internal/archive"
	"github.com/tmahajan/capflow-bot/internal/config"
	"github.com/tmahajan/capflow-bot/internal/dateutil"
	"github.com/tmahajan/capflow-bot/internal/mailer"
	"github.com/tmahajan/capflow-bot/internal/scraper/portal"
)

var version = "dev"

var (
	selectorsPath   string
	downloadDir     string
	headless        bool
	stepTimeout     time.Duration
	downloadTimeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "capflow-bot",
		Short:   "Fetch yesterday's Statement of Capital Flows and email it",
		Version: version,
		Long: `capflow-bot logs into the wealth-reporting portal, generates the
Statement of Capital Flows for yesterday (IST), downloads the file, and
emails it to the configured distribution list.

Configuration is read from the environment (or a .env file): LOGIN_URL,
PORTAL_USER, PORTAL_PASS, EMAIL_FROM, EMAIL_TO, SMTP_HOST, SMTP_PORT,
SMTP_USER, SMTP_PASS, DOWNLOAD_DIR, REPORT_NAME.`,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVar(&selectorsPath, "selectors", "", "YAML file overriding the candidate selector lists")
	rootCmd.Flags().StringVar(&downloadDir, "download-dir", "", "Download directory (overrides DOWNLOAD_DIR)")
	rootCmd.Flags().BoolVar(&headless, "headless", true, "Run the browser headless")
	rootCmd.Flags().DurationVar(&stepTimeout, "step-timeout", 45*time.Second, "Timeout per navigation/interaction step")
	rootCmd.Flags().DurationVar(&downloadTimeout, "download-timeout", 2*time.Minute, "Timeout for a triggered download to complete")

	if err := rootCmd.Execute(); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	if downloadDir != "" {
		cfg.DownloadDir = downloadDir
	}

	sel, err := portal.LoadSelectors(selectorsPath)
	if err != nil {
		return err
	}

	reportDate := dateutil.Yesterday(time.Now())
	dateLabel := reportDate.Format(dateutil.LayoutDayMonAbb)
	slog.Info("starting run", "report", cfg.ReportName, "date", dateLabel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	statementPath, err := fetchStatement(ctx, cfg, sel, reportDate)
	if err != nil {
		return err
	}

	if !cfg.NotifyEnabled() {
		slog.Warn("EMAIL_TO not set, statement left on disk", "path", statementPath)
		return nil
	}

	m := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.EmailFrom, cfg.EmailTo)
	subject := fmt.Sprintf("%s - %s", cfg.ReportName, dateLabel)
	body := fmt.Sprintf("Please find attached the %s for %s.\n\n-- capflow-bot",
		cfg.ReportName, dateLabel)

	if err := m.SendStatement(subject, body, statementPath); err != nil {
		// The download succeeded; leave the file in place so the statement
		// can be sent by hand, and fail the run.
		slog.Error("statement downloaded but not sent", "path", statementPath)
		return err
	}

	slog.Info("statement delivered", "path", statementPath, "recipients", len(cfg.EmailTo))
	return nil
}

// fetchStatement runs the browser flow start to finish and returns the path
// of the materialized statement file. The browser session is torn down on
// every exit path.
func fetchStatement(ctx context.Context, cfg *config.Config, sel portal.Selectors, reportDate time.Time) (string, error) {
	scraper, err := portal.New(cfg.LoginURL,
		portal.WithSelectors(sel),
		portal.WithDownloadDir(cfg.DownloadDir),
		portal.WithHeadless(headless),
		portal.WithStepTimeout(stepTimeout),
		portal.WithDownloadTimeout(downloadTimeout),
	)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := scraper.Close(); cerr != nil {
			slog.Warn("browser teardown", "error", cerr)
		}
	}()

	slog.Info("logging in", "url", cfg.LoginURL)
	if err := scraper.Login(ctx, portal.Credentials{User: cfg.PortalUser, Password: cfg.PortalPass}); err != nil {
		return "", err
	}

	slog.Info("opening reports section")
	if err := scraper.OpenReports(ctx); err != nil {
		return "", err
	}

	slog.Info("selecting report", "name", cfg.ReportName)
	if err := scraper.SelectReport(ctx, cfg.ReportName); err != nil {
		return "", err
	}

	slog.Info("setting statement date", "date", reportDate.Format(dateutil.LayoutISO))
	if err := scraper.SetStatementDate(ctx, dateutil.Renderings(reportDate)); err != nil {
		return "", err
	}

	slog.Info("triggering generation")
	if err := scraper.GenerateReport(ctx); err != nil {
		return "", err
	}

	slog.Info("downloading statement")
	downloaded, err := scraper.DownloadStatement(ctx)
	if err != nil {
		return "", err
	}
	slog.Info("downloaded", "file", filepath.Base(downloaded))

	statementPath, err := archive.Materialize(downloaded, cfg.DownloadDir)
	if err != nil {
		return "", err
	}
	if statementPath != downloaded {
		slog.Info("extracted from archive", "file", filepath.Base(statementPath))
	}

	return statementPath, nil
}
