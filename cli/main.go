package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/urfave/cli"

	"ytingest/analytics"
	"ytingest/auth"
	"ytingest/config"
	ythttp "ytingest/http"
	"ytingest/internal/storage"
	"ytingest/reporting"
)

const (
	timestampLayout = "20060102_150405"
	dateLayout      = "2006-01-02"
	envFile         = "./.env"
)

// appVersion should be populated at build time using ldflags, e.g.
// go build -v -ldflags="-X main.appVersion=$(git describe --tags)"
var appVersion = "undefined"

var (
	log = logger.GetOrCreate("ytingest")

	logLevel = cli.StringFlag{
		Name: "log-level",
		Usage: "This flag specifies the logger `level(s)`. It can contain multiple comma-separated values. For example," +
			" if set to *:INFO the logs for all packages will have the INFO level, while *:INFO,reporting:DEBUG" +
			" raises only the reporting package to DEBUG.",
		Value: "*:" + logger.LogInfo.String(),
	}

	videoFlag = cli.StringSliceFlag{
		Name:  "video",
		Usage: "Video `id` to fetch analytics for. Can be specified multiple times.",
	}
	videoConfigFlag = cli.StringFlag{
		Name:  "config",
		Usage: "`path` to a JSON file with video ids, either a plain array or {\"video_ids\": [...]}.",
	}
	analyticsFormatFlag = cli.StringFlag{
		Name:  "format",
		Usage: "Output `format` for analytics results (json or csv).",
		Value: "json",
	}
	outputFlag = cli.StringFlag{
		Name:  "output",
		Usage: "Output filename `base` (no extension). Results print to stdout when unset.",
	}

	jobIDFlag = cli.StringFlag{
		Name:  "job-id",
		Usage: "Existing reporting job `id`, used verbatim without validation.",
	}
	forceNewFlag = cli.BoolFlag{
		Name:  "force-new",
		Usage: "Force creation of a new reporting job even when one already exists.",
	}
	reportTypeFlag = cli.StringFlag{
		Name:  "report-type-id",
		Usage: "Report type `id` for job lookup or creation (default channel_basic_a2).",
	}
	reportingFormatFlag = cli.StringFlag{
		Name:  "format",
		Usage: "Output `format` for downloaded reports (csv or json).",
		Value: "csv",
	}
	maxPollTimeFlag = cli.IntFlag{
		Name:  "max-poll-time",
		Usage: "Total polling budget in `seconds`; the attempt count is budget divided by poll interval (default 1200).",
	}
	startDateFlag = cli.StringFlag{
		Name:  "start-date",
		Usage: "Keep only reports whose period ends on or after this `date` (YYYY-MM-DD).",
	}
	endDateFlag = cli.StringFlag{
		Name:  "end-date",
		Usage: "Keep only reports whose period ends on or before this `date` (YYYY-MM-DD).",
	}
	listOnlyFlag = cli.BoolFlag{
		Name:  "list-only",
		Usage: "List available report types and existing jobs instead of polling.",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "ytingest"
	app.Version = fmt.Sprintf("%s/%s/%s-%s", appVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	app.Usage = "Fetches YouTube Analytics metrics and YouTube Reporting API report files for an authenticated channel"
	app.Flags = []cli.Flag{
		logLevel,
	}
	app.Before = func(c *cli.Context) error {
		// Optional env file for YTINGEST_* overrides.
		_ = godotenv.Load(envFile)
		return logger.SetLogLevel(c.GlobalString(logLevel.Name))
	}
	app.Commands = []cli.Command{
		{
			Name:  "analytics",
			Usage: "Fetch daily analytics metrics for one or more videos",
			Flags: []cli.Flag{
				videoFlag,
				videoConfigFlag,
				analyticsFormatFlag,
				outputFlag,
			},
			Action: runAnalytics,
		},
		{
			Name:  "reporting",
			Usage: "Resolve a reporting job, poll for its report files and download them",
			Flags: []cli.Flag{
				jobIDFlag,
				forceNewFlag,
				reportTypeFlag,
				reportingFormatFlag,
				outputFlag,
				maxPollTimeFlag,
				startDateFlag,
				endDateFlag,
				listOnlyFlag,
			},
			Action: runReporting,
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func runAnalytics(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var videoIDs []string
	if path := c.String(videoConfigFlag.Name); path != "" {
		fromFile, err := config.LoadVideoIDs(path)
		if err != nil {
			return err
		}
		log.Info("loaded video ids from config", "path", path, "count", len(fromFile))
		videoIDs = append(videoIDs, fromFile...)
	}
	videoIDs = append(videoIDs, c.StringSlice(videoFlag.Name)...)
	if len(videoIDs) == 0 {
		return cli.NewExitError("no video ids provided, use --video or --config to supply them", 1)
	}

	format, err := normalizeFormat(c.String(analyticsFormatFlag.Name))
	if err != nil {
		return err
	}

	ctx := context.Background()
	provider, err := auth.NewProvider(cfg.ClientSecretPath, cfg.TokenDir)
	if err != nil {
		return err
	}
	ts, err := provider.TokenSource(ctx, auth.TokenAnalytics)
	if err != nil {
		return err
	}
	client, err := analytics.NewClient(ctx, ts)
	if err != nil {
		return err
	}

	output := c.String(outputFlag.Name)
	timestamp := time.Now().Format(timestampLayout)

	// A failing video never aborts the run; the remaining ids still get
	// their turn.
	for _, videoID := range videoIDs {
		err = emitVideoStats(ctx, client, os.Stdout, videoID, format, output, timestamp)
		if err != nil {
			log.Error("fetching analytics failed", "video", videoID, "error", err.Error())
		}
	}
	return nil
}

// emitVideoStats fetches one video's metrics and writes them to a file or
// the given writer.
func emitVideoStats(ctx context.Context, client *analytics.Client, w io.Writer,
	videoID, format, output, timestamp string) error {
	resp, err := client.FetchVideoStats(ctx, videoID)
	if err != nil {
		return err
	}

	var data string
	if format == "csv" {
		data, err = analytics.ToCSV(resp, videoID)
		if err != nil {
			return err
		}
	} else {
		raw, err := json.MarshalIndent(resp, "", "    ")
		if err != nil {
			return fmt.Errorf("encode analytics response: %w", err)
		}
		data = string(raw)
	}

	if output == "" {
		fmt.Fprintf(w, "Analytics for video %s:\n%s\n", videoID, data)
		return nil
	}

	filename := analyticsFileName(output, videoID, timestamp, format)
	err = storage.WriteFile(filename, []byte(data))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Analytics for video %s saved to %s\n", videoID, filename)
	return nil
}

func runReporting(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	format, err := normalizeFormat(c.String(reportingFormatFlag.Name))
	if err != nil {
		return err
	}
	window, err := parseWindow(c.String(startDateFlag.Name), c.String(endDateFlag.Name))
	if err != nil {
		return err
	}

	ctx := context.Background()
	provider, err := auth.NewProvider(cfg.ClientSecretPath, cfg.TokenDir)
	if err != nil {
		return err
	}
	ts, err := provider.TokenSource(ctx, auth.TokenReporting)
	if err != nil {
		return err
	}
	client, err := reporting.NewGoogleClient(ctx, ts)
	if err != nil {
		return err
	}

	if c.Bool(listOnlyFlag.Name) {
		return listReportInventory(ctx, client, os.Stdout)
	}

	reportTypeID := c.String(reportTypeFlag.Name)
	if reportTypeID == "" {
		reportTypeID = cfg.ReportTypeID
	}
	jobID, err := client.ResolveJobID(ctx, reporting.ResolveOptions{
		JobID:        c.String(jobIDFlag.Name),
		ForceNew:     c.Bool(forceNewFlag.Name),
		ReportTypeID: reportTypeID,
	})
	if err != nil {
		return err
	}

	httpClient, err := provider.Client(ctx, auth.TokenReporting)
	if err != nil {
		return err
	}
	downloader := ythttp.NewWithBase(downloadConfig(cfg), httpClient)
	defer func() {
		_ = downloader.Close()
	}()

	maxPollTime := cfg.MaxPollTime
	if seconds := c.Int(maxPollTimeFlag.Name); seconds > 0 {
		maxPollTime = time.Duration(seconds) * time.Second
	}
	poller, err := reporting.NewPoller(client, downloader, cfg.PollInterval,
		pollAttempts(maxPollTime, cfg.PollInterval))
	if err != nil {
		return err
	}

	log.Info("polling reporting job", "jobID", jobID,
		"interval", cfg.PollInterval, "budget", maxPollTime)
	reports, err := poller.Poll(ctx, jobID, window)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Println("No reports downloaded.")
		return nil
	}

	return writeReports(os.Stdout, reports, c.String(outputFlag.Name), format,
		time.Now().Format(timestampLayout))
}

// listReportInventory prints the available report types and the account's
// existing reporting jobs.
func listReportInventory(ctx context.Context, client *reporting.Client, w io.Writer) error {
	types, err := client.ListReportTypes(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Available Report Types:")
	for _, rt := range types {
		fmt.Fprintf(w, "ID: %s, Name: %s\n", rt.ID, rt.Name)
	}

	jobs, err := client.ListJobs(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\nExisting Reporting Jobs:")
	for _, job := range jobs {
		fmt.Fprintf(w, "Job ID: %s, Name: %s, Type: %s\n", job.ID, job.Name, job.ReportTypeID)
	}
	return nil
}

// writeReports emits the downloaded reports to files named after output, or
// to w when output is empty.
func writeReports(w io.Writer, reports []reporting.DownloadedReport, output, format, timestamp string) error {
	for i, report := range reports {
		data, err := encodeReport(report.Content, format)
		if err != nil {
			return err
		}

		if output == "" {
			fmt.Fprintf(w, "--- Report %d ---\n%s\n", i+1, data)
			continue
		}

		filename := reportFileName(output, timestamp, i+1, len(reports), format)
		err = storage.WriteFile(filename, []byte(data))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved to %s\n", filename)
	}
	return nil
}

// encodeReport renders raw report content in the requested format. CSV is
// the native report format and passes through verbatim; json re-encodes the
// parsed rows.
func encodeReport(content, format string) (string, error) {
	if format != "json" {
		return content, nil
	}
	rows, err := reporting.ParseReport(content)
	if err != nil {
		return "", err
	}
	raw, err := json.MarshalIndent(rows, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encode report rows: %w", err)
	}
	return string(raw), nil
}

func normalizeFormat(v string) (string, error) {
	format := strings.ToLower(v)
	if format != "json" && format != "csv" {
		return "", fmt.Errorf("unsupported format %q, expected json or csv", v)
	}
	return format, nil
}

// parseWindow builds the report filter window from optional date strings.
func parseWindow(startDate, endDate string) (reporting.Window, error) {
	var window reporting.Window
	var err error
	if startDate != "" {
		window.Start, err = time.Parse(dateLayout, startDate)
		if err != nil {
			return reporting.Window{}, fmt.Errorf("invalid start date %q: %w", startDate, err)
		}
	}
	if endDate != "" {
		window.End, err = time.Parse(dateLayout, endDate)
		if err != nil {
			return reporting.Window{}, fmt.Errorf("invalid end date %q: %w", endDate, err)
		}
	}
	return window, nil
}

// downloadConfig maps the application settings onto the download client.
func downloadConfig(cfg *config.Config) *ythttp.Config {
	hc := ythttp.DefaultConfig()
	hc.Timeout = cfg.RequestTimeout
	hc.RequestsPerSecond = cfg.DownloadRPS
	hc.Retry.MaxRetries = cfg.DownloadRetries
	return hc
}

// pollAttempts derives the attempt ceiling from the wall-clock budget.
func pollAttempts(budget, interval time.Duration) int {
	if interval <= 0 {
		return 0
	}
	return int(budget / interval)
}

func analyticsFileName(output, videoID, timestamp, format string) string {
	return fmt.Sprintf("%s_%s_%s.%s", output, videoID, timestamp, format)
}

// reportFileName appends an ordinal only when more than one report was
// downloaded.
func reportFileName(output, timestamp string, index, total int, format string) string {
	if total > 1 {
		return fmt.Sprintf("%s_%s_%d.%s", output, timestamp, index, format)
	}
	return fmt.Sprintf("%s_%s.%s", output, timestamp, format)
}
