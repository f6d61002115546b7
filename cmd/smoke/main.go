package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/okian/nutrilookup/internal/smoketest"
	"github.com/okian/nutrilookup/pkg/logger"
)

// Default configuration constants.
const (
	defaultURL        = "http://localhost:3000"
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 2 * time.Minute
	defaultCountryID  = 1
	defaultBranchID   = 1
	defaultLocationID = 1
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := smokeCmd(os.Stdout).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "smoke test failed:", err)
		os.Exit(1)
	}
}

func smokeCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "smoke",
		Usage: "Exercise a running nutrition lookup server end to end",
		Description: `Walks one branch location through the item lifecycle:

  health, countries, branches, create, read, list, delete, read again

The created item is removed on success and on failure.

# Examples

Run against a local server:
  smoke --country 1 --branch 2 --location 3

Run against another host with per-step output:
  smoke --url http://lookup.internal:3000 -v`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Usage:   "Base URL of the service",
				Value:   defaultURL,
				Sources: cli.EnvVars("NUTRI_SMOKE_URL"),
			},
			&cli.IntFlag{
				Name:  "country",
				Usage: "Country id the branch operates in",
				Value: defaultCountryID,
			},
			&cli.IntFlag{
				Name:  "branch",
				Usage: "Branch id whose menu is exercised",
				Value: defaultBranchID,
			},
			&cli.IntFlag{
				Name:  "location",
				Usage: "Branch location id new items are attached to",
				Value: defaultLocationID,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "HTTP request timeout",
				Value: defaultTimeout,
			},
			&cli.DurationFlag{
				Name:  "run-timeout",
				Usage: "Upper bound for the whole run",
				Value: defaultRunTimeout,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "info",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log every step",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := logger.InitWith(logger.FormatText, out); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			if err := logger.SetLevelString(cmd.String("log-level")); err != nil {
				return err
			}

			ids, err := positiveIDs(cmd, "country", "branch", "location")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("run-timeout"))
			defer cancel()

			cfg := &smoketest.Config{
				BaseURL:          cmd.String("url"),
				CountryID:        ids[0],
				BranchID:         ids[1],
				BranchLocationID: ids[2],
				Timeout:          cmd.Duration("timeout"),
				Verbose:          cmd.Bool("verbose"),
			}
			stats, err := smoketest.Run(ctx, cfg, nil)
			printSummary(out, stats)
			return err
		},
	}
}

// positiveIDs reads the named int flags and rejects values below one.
func positiveIDs(cmd *cli.Command, names ...string) ([]uint64, error) {
	ids := make([]uint64, 0, len(names))
	for _, name := range names {
		v := cmd.Int(name)
		if v < 1 {
			return nil, fmt.Errorf("--%s must be a positive id, got %d", name, v)
		}
		ids = append(ids, uint64(v))
	}
	return ids, nil
}

func printSummary(w io.Writer, stats *smoketest.Stats) {
	if stats == nil {
		return
	}
	for _, st := range stats.Steps {
		result := "ok"
		if st.Err != nil {
			result = "FAIL"
		}
		fmt.Fprintf(w, "%-18s %-4s %3d %s\n", st.Name, result, st.Status, st.Duration.Round(time.Microsecond))
	}
	fmt.Fprintf(w, "%d steps, %d failed, %s\n", len(stats.Steps), stats.Failed(), stats.Duration.Round(time.Millisecond))
}
