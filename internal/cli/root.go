// Package cli implements reviewctl, a terminal front end for browsing and
// moderating a model's reviews.
package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"modelreviews/internal/apiclient"
	"modelreviews/internal/cache"
	"modelreviews/internal/config"
	"modelreviews/internal/log"
	"modelreviews/internal/moderation"
	"modelreviews/internal/notify"
)

var (
	ui       = NewUI()
	cfg      *config.CLIConfig
	cfgStore *viper.Viper

	cfgFile string
	apiURL  string
	verbose bool
)

// configPathFunc returns where login writes the token, replaceable in tests.
var configPathFunc = defaultConfigPath

func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "reviewctl", "config.yaml"), nil
}

var rootCmd = &cobra.Command{
	Use:   "reviewctl",
	Short: "Browse and moderate model reviews",
	Long: `reviewctl lists a model's reviews and lets you delete your own
reviews or report other people's.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

func Execute(version string) {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.config/reviewctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Reviews api base URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

func loadConfig() error {
	c, v, err := config.LoadCLI(cfgFile)
	if err != nil {
		return err
	}
	if apiURL != "" {
		c.APIURL = apiURL
	}
	cfg, cfgStore = c, v
	ui.Verbose = verbose
	return nil
}

func newClient() *apiclient.Client {
	opts := []apiclient.Option{apiclient.WithToken(cfg.Token)}
	if cfg.Timeout > 0 {
		opts = append(opts, apiclient.WithTimeout(cfg.Timeout))
	}
	return apiclient.New(cfg.APIURL, opts...)
}

func currentSession() *moderation.Session {
	return apiclient.TokenSession{Token: cfg.Token}.Session()
}

// newWorkflow wires the moderation workflow to the api, the terminal and,
// when configured, the shared review cache. The returned func releases
// the cache connection.
func newWorkflow(ctx context.Context, client *apiclient.Client) (*moderation.Workflow, func()) {
	level := "error"
	if ui.Verbose {
		level = "debug"
	}
	logger := log.NewWithWriter(ui.ErrOut, "cli", level)

	invalidator, release := reviewCache(ctx, logger)
	channel := notify.NewChannel(notify.TerminalSink{Out: ui.Out, Verbose: ui.Verbose})

	opts := []moderation.Option{moderation.WithLogger(logger)}
	if cfg.ScopeKey {
		opts = append(opts, moderation.WithScopedReportKey())
	}

	wf := moderation.NewWorkflow(
		apiclient.TokenSession{Token: cfg.Token},
		client,
		invalidator,
		channel,
		loginLink{webURL: cfg.WebURL},
		opts...,
	)
	return wf, release
}

func reviewCache(ctx context.Context, logger zerolog.Logger) (moderation.CacheInvalidator, func()) {
	if cfg.Redis.Addr == "" {
		return moderation.NopInvalidator, func() {}
	}
	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("review cache unavailable")
		return moderation.NopInvalidator, func() {}
	}
	return cache.NewReviewCache(client, 0), func() { _ = client.Close() }
}

// loginLink prints the sign-in address instead of opening a browser.
type loginLink struct {
	webURL string
}

func (l loginLink) RedirectToLogin(returnPath string) {
	ui.Info("Sign in to report reviews: %s", LoginURL(l.webURL, returnPath))
}

func LoginURL(webURL, returnPath string) string {
	u := strings.TrimSuffix(webURL, "/") + "/login"
	if returnPath == "" {
		return u
	}
	return u + "?returnUrl=" + url.QueryEscape(returnPath)
}
