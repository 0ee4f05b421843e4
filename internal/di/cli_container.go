package di

import (
	"flag"
	"io"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phish-dashboard/internal/adapters/cli"
	"github.com/mikey/phish-dashboard/internal/config"
	"github.com/mikey/phish-dashboard/internal/core"
	"github.com/mikey/phish-dashboard/internal/display"
	"github.com/mikey/phish-dashboard/internal/evidence"
	"github.com/mikey/phish-dashboard/internal/logging"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Detection service flags
	BaseURL  string
	ProxyURL string

	// URL check flags
	URL          string
	FetchContent bool

	// Email check flags
	InputFile string
	Subject   string
	Sender    string
	Body      string

	// History and stats flags
	History string
	Limit   int
	Stats   bool

	// Output flags
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags(args []string, output io.Writer) (*CLIFlags, error) {
	flags := &CLIFlags{}
	fs := flag.NewFlagSet("phish-check", flag.ContinueOnError)
	fs.SetOutput(output)

	// Detection service flags
	fs.StringVar(&flags.BaseURL, "detector", "", "Detection service base URL (overrides config)")
	fs.StringVar(&flags.ProxyURL, "proxy", "", "Proxy URL for the detection service, e.g. socks5://127.0.0.1:1080")

	// URL check flags
	fs.StringVar(&flags.URL, "url", "", "URL to check")
	fs.BoolVar(&flags.FetchContent, "fetch-content", true, "Fetch and analyze the page content")

	// Email check flags
	fs.StringVar(&flags.InputFile, "file", "", "RFC 5322 message to check (- for stdin)")
	fs.StringVar(&flags.Subject, "subject", "", "Email subject")
	fs.StringVar(&flags.Sender, "sender", "", "Email sender")
	fs.StringVar(&flags.Body, "body", "", "Email body")

	// History and stats flags
	fs.StringVar(&flags.History, "history", "", "Show check history (urls, emails)")
	fs.IntVar(&flags.Limit, "limit", 0, "Number of history records (default from config)")
	fs.BoolVar(&flags.Stats, "stats", false, "Show detection statistics")

	// Output flags
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

// Request converts the flags into the operation the CLI runs
func (f *CLIFlags) Request() cli.Request {
	return cli.Request{
		URL:          f.URL,
		FetchContent: f.FetchContent,
		InputFile:    f.InputFile,
		Subject:      f.Subject,
		Sender:       f.Sender,
		Body:         f.Body,
		History:      f.History,
		Limit:        f.Limit,
		Stats:        f.Stats,
	}
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags, stdin io.Reader, stdout io.Writer) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		return createConfigFromFlags(flags, logger)
	}); err != nil {
		return nil, err
	}

	if err := provideDomain(container); err != nil {
		return nil, err
	}

	// Register runner
	if err := container.Provide(func(
		cfg *config.Config,
		logger *zap.Logger,
		service *core.DashboardService,
		formatter *display.Formatter,
		vocab evidence.Vocabulary,
	) *cli.Runner {
		return cli.NewRunner(service, formatter, vocab, cfg.GetViews(), logger, stdin, stdout)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags loads the config file when given and applies the
// flag overrides; the CLI never caches history
func createConfigFromFlags(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	if flags.ConfigFile != "" {
		loaded, err := config.NewFromFile(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded configuration from file", zap.String("file", loaded.FileUsed()))
		cfg = loaded
	} else {
		cfg = config.Defaults()
	}

	cfg.Set("cache.enabled", false)
	if flags.BaseURL != "" {
		cfg.Set("detection.base_url", flags.BaseURL)
	}
	if flags.ProxyURL != "" {
		cfg.Set("detection.proxy_url", flags.ProxyURL)
	}
	if flags.Limit > 0 {
		cfg.Set("history.limit", flags.Limit)
	}

	return cfg, nil
}
