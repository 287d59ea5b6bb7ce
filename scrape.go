package main

import (
	"context"

	http "github.com/bogdanfinn/fhttp"
	"github.com/spf13/cobra"
)

// clientFactory builds the HTTP client a run's Session is wrapped around.
type clientFactory func(proxyURL string, timeoutSeconds int) (Doer, error)

func newTLSClient(proxyURL string, timeoutSeconds int) (Doer, error) {
	return NewHTTPClient(nil, proxyURL, timeoutSeconds)
}

func newScrapeCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "scrape [--username <user>] [--password <password>]",
		Short: "Command to scrape the games transfer market",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			if username != "" {
				cfg.Username = username
			}
			if password != "" {
				cfg.Password = password
			}

			logger, logFile, err := setupLogging(cfg.LogFile, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer logFile.Close()

			return runScrape(cmd.Context(), cfg, logger, newTLSClient)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Game account username (overrides GAME_USERNAME).")
	cmd.Flags().StringVar(&password, "password", "", "Game account password (overrides GAME_PASSWORD).")
	return cmd
}

// runScrape performs one scrape run: it logs in when credentials are
// configured. Market pages are not fetched yet.
func runScrape(ctx context.Context, cfg Config, logger Logger, newClient clientFactory, opts ...SessionOption) error {
	logger.Log("Beginning Transfer Market Scrape")

	random := RandomSource(globalRand{})
	proxyURL := ""
	if cfg.ProxyFile != "" {
		proxies, err := LoadProxies(cfg.ProxyFile)
		if err != nil {
			return err
		}
		proxy := PickProxy(proxies, random)
		proxyURL = proxy.URL
		logger.Log("Using proxy %s (%d loaded)", proxy.Display, len(proxies))
	}

	httpClient, err := newClient(proxyURL, cfg.TimeoutSeconds)
	if err != nil {
		return err
	}

	sessionOpts := append([]SessionOption{WithDefaultDelay(cfg.Delay), WithRandomSource(random)}, opts...)
	session := NewSession(httpClient, sessionOpts...)

	game, err := NewGameClient(cfg, session)
	if err != nil {
		session.Close()
		return err
	}
	defer game.Close()

	if !cfg.HasCredentials() {
		logger.Log("No credentials configured, skipping login")
	} else {
		logger.Log("Logging in to %s as %s (delay %s)", game.BaseURL(), cfg.Username, cfg.Delay)
		resp, err := game.Login(ctx, cfg.Username, cfg.Password)
		if err != nil {
			return err
		}
		if err := logLanding(logger, resp); err != nil {
			return err
		}
	}

	logger.Log("Finished Transfer Market Scrape")
	return nil
}

func logLanding(logger Logger, resp *http.Response) error {
	defer resp.Body.Close()

	landed, err := readPage(resp)
	if err != nil {
		return err
	}
	logger.Log("Logged in, landed on %s -> %d (%d bytes)", landed.URL, landed.Status, len(landed.Body))
	return nil
}
