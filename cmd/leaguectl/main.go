package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/leaguectl"
	"github.com/SamHedgehogs/nba2k-league-bot/pkg/logger"
)

func main() {
	var (
		baseURL     = flag.String("url", leaguectl.DefaultBaseURL, "Base URL of the service")
		user        = flag.String("user", os.Getenv("LEAGUE_USER"), "Acting user id")
		roles       = flag.String("roles", os.Getenv("LEAGUE_ROLES"), "Comma separated roles of the acting user")
		timeout     = flag.Duration("timeout", leaguectl.DefaultTimeout, "HTTP request timeout")
		wait        = flag.Duration("wait", leaguectl.DefaultWait, "How long to wait for a deferred follow-up")
		interaction = flag.String("interaction", "", "Show an existing interaction instead of running a command")
		asJSON      = flag.Bool("json", false, "Print the raw interaction as JSON")
		verbose     = flag.Bool("verbose", false, "Enable debug logging on stderr")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help || (flag.NArg() == 0 && *interaction == "") {
		leaguectl.ShowHelp(os.Stdout)
		return
	}

	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger.SetLevel(slog.LevelWarn)
	if *verbose {
		logger.SetLevel(slog.LevelDebug)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := leaguectl.Config{
		BaseURL: *baseURL,
		User:    *user,
		Roles:   leaguectl.SplitRoles(*roles),
		Timeout: *timeout,
		Wait:    *wait,
		JSON:    *asJSON,
	}
	req := leaguectl.Request{Interaction: *interaction}
	if flag.NArg() > 0 {
		req.Command = flag.Arg(0)
		req.Pairs = flag.Args()[1:]
	}

	if err := leaguectl.Run(ctx, cfg, req, os.Stdout); err != nil {
		os.Stderr.WriteString("leaguectl: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
