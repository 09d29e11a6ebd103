// Package cli implements the traderctl subcommands on top of the same
// application wiring the HTTP server uses.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/subcommands"

	"github.com/mamadbah2/traders/internal/app"
	"github.com/mamadbah2/traders/internal/config"
	"github.com/mamadbah2/traders/pkg/logger"
)

// Opener builds the application for one command invocation.
type Opener func(ctx context.Context) (*app.App, error)

// Env is shared by every command.
type Env struct {
	Out  io.Writer
	Err  io.Writer
	Open Opener
}

// NewEnv returns an environment that loads configuration from envFile and
// logs to stderr in console format.
func NewEnv(envFile *string) *Env {
	return &Env{
		Out: os.Stdout,
		Err: os.Stderr,
		Open: func(ctx context.Context) (*app.App, error) {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return nil, err
			}
			log, err := logger.New(config.LogConfig{Level: cfg.Log.Level, Format: "console"})
			if err != nil {
				return nil, err
			}
			return app.New(ctx, cfg, log)
		},
	}
}

// Commands lists every traderctl subcommand bound to env.
func Commands(env *Env) []subcommands.Command {
	return []subcommands.Command{
		&purchaseCmd{env: env},
		&saleCmd{env: env},
		&listCmd{env: env},
		&deleteCmd{env: env},
		&resetCmd{env: env},
		&summaryCmd{env: env},
		&modelsCmd{env: env},
	}
}

// run opens the application, hands it to fn and closes it afterwards.
func (e *Env) run(ctx context.Context, fn func(*app.App) error) subcommands.ExitStatus {
	a, err := e.Open(ctx)
	if err != nil {
		fmt.Fprintf(e.Err, "Error opening records: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close(context.Background())

	if err := fn(a); err != nil {
		fmt.Fprintf(e.Err, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// parseIndices returns the distinct indices in argument order.
func parseIndices(args []string) ([]int, error) {
	indices := make([]int, 0, len(args))
	seen := make(map[int]struct{}, len(args))
	for _, arg := range args {
		idx, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid index %q", arg)
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		indices = append(indices, idx)
	}
	return indices, nil
}
