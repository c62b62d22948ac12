package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/1pactus/netstat/internal/api"
	"github.com/1pactus/netstat/internal/config"
	"github.com/1pactus/netstat/internal/fetch"
	"github.com/1pactus/netstat/internal/i18n"
	"github.com/1pactus/netstat/internal/logging"
	"github.com/1pactus/netstat/internal/models"
	"github.com/1pactus/netstat/internal/render"
	"github.com/1pactus/netstat/internal/series"
)

// Command netstat fetches network status from statusd and prints one
// summary row per chart, optionally writing each chart as a PNG.
//
// Usage:
//
//	netstat [flags]
//
// The flags are:
//
//	-config string
//	      path to config file; built-in defaults when empty
//	-days int
//	      trailing days to fetch, -1 for all (default client.range_days)
//	-encoding string
//	      pb or json (default client.encoding)
//	-base-url string
//	      statusd address (default client.base_url)
//	-locale string
//	      caption language (default client.locale)
//	-detail string
//	      also print every point of this metric
//	-out string
//	      directory for <metric>.png charts
func main() {
	flags := parseFlags()

	_ = godotenv.Load()

	appConfig := config.Default()
	if flags.ConfigPath != "" {
		var err error
		if appConfig, err = config.Load(flags.ConfigPath); err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	flags.apply(&appConfig.Client)

	// Logs go to stderr so they do not interleave with the table.
	if appConfig.Logging.File == "" {
		appConfig.Logging.File = "stderr"
	}
	logger, err := logging.New(appConfig.Logging)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := &App{
		Client: appConfig.Client,
		Detail: series.MetricKey(flags.Detail),
		OutDir: flags.OutDir,
		Logger: logger,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
	if err := app.Run(ctx); err != nil {
		logger.WithError(err).Error("netstat failed")
		os.Exit(1)
	}
}

type Flags struct {
	ConfigPath string
	Days       int
	Encoding   string
	BaseURL    string
	Locale     string
	Detail     string
	OutDir     string

	set map[string]bool
}

func parseFlags() *Flags {
	f := &Flags{}

	flag.StringVar(&f.ConfigPath, "config", "", "Path to the config file")
	flag.IntVar(&f.Days, "days", 30, "Trailing days to fetch, -1 for all")
	flag.StringVar(&f.Encoding, "encoding", "json", "Response encoding: pb or json")
	flag.StringVar(&f.BaseURL, "base-url", "", "statusd address")
	flag.StringVar(&f.Locale, "locale", "", "Caption language")
	flag.StringVar(&f.Detail, "detail", "", "Also print every point of this metric")
	flag.StringVar(&f.OutDir, "out", "", "Directory for PNG charts")

	flag.Parse()

	f.set = make(map[string]bool)
	flag.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })

	return f
}

// apply overrides cfg with explicitly given flags only.
func (f *Flags) apply(cfg *config.ClientConfig) {
	if f.set["days"] {
		cfg.RangeDays = int32(f.Days)
	}
	if f.set["encoding"] {
		cfg.Encoding = f.Encoding
	}
	if f.set["base-url"] {
		cfg.BaseURL = f.BaseURL
	}
	if f.set["locale"] {
		cfg.Locale = f.Locale
	}
}

// App is one interactive fetch: it loads, prints the outcome and offers a
// retry on failure.
type App struct {
	Client config.ClientConfig
	Detail series.MetricKey
	OutDir string
	Logger *logrus.Logger
	In     io.Reader
	Out    io.Writer
}

var errQuit = errors.New("quit after failed fetch")

func (a *App) Run(ctx context.Context) error {
	catalog, err := i18n.Load(a.Client.Locale)
	if err != nil {
		return err
	}
	statusText := catalog.T("status")

	enc, err := models.ParseEncoding(a.Client.Encoding)
	if err != nil {
		// The controller reports an unsupported encoding as an Error state.
		a.Logger.WithError(err).Warn("Unsupported encoding")
	}

	client := api.NewStatusClient(a.Client.BaseURL, &http.Client{Timeout: a.Client.Timeout})
	ctrl := fetch.NewController(client,
		fetch.WithLogger(a.Logger),
		fetch.WithTimeout(a.Client.Timeout),
		fetch.WithContext(ctx),
	)
	defer ctrl.Close()

	settled := make(chan fetch.State, 1)
	ctrl.Subscribe(func(s fetch.State) {
		switch s.Status {
		case fetch.Loading:
			fmt.Fprintln(a.Out, statusText("loading"))
		case fetch.Success, fetch.Error:
			settled <- s
		}
	})

	input := bufio.NewScanner(a.In)
	ctrl.Start(models.TelemetryRequest{RangeDays: a.Client.RangeDays, Encoding: enc})
	for {
		var s fetch.State
		select {
		case s = <-settled:
		case <-ctx.Done():
			return ctx.Err()
		}

		if s.Status == fetch.Success {
			return a.show(s.Response, catalog.T(i18n.NetworkOverview))
		}

		fmt.Fprintf(a.Out, "%s: %s\n%s\n", statusText("error"), s.Message, statusText("retry"))
		if !input.Scan() || strings.EqualFold(strings.TrimSpace(input.Text()), "q") {
			return errQuit
		}
		ctrl.Retry()
	}
}

func (a *App) show(resp *models.NetworkStatus, t series.Translator) error {
	charts := series.Charts(resp, t)
	if err := render.Table(a.Out, charts); err != nil {
		return err
	}

	if a.Detail != "" {
		if _, ok := series.Lookup(a.Detail); !ok {
			return fmt.Errorf("%w: %q", series.ErrUnknownMetric, a.Detail)
		}
		for _, c := range charts {
			if c.Series.Metric == a.Detail {
				fmt.Fprintln(a.Out)
				if err := render.Detail(a.Out, c); err != nil {
					return err
				}
			}
		}
	}

	if a.OutDir != "" {
		written, err := render.WritePNGs(a.OutDir, charts)
		if err != nil {
			return err
		}
		a.Logger.WithFields(logrus.Fields{
			"dir":    a.OutDir,
			"charts": len(written),
		}).Info("Charts written")
	}
	return nil
}
