package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/sandevgo/bloombot/internal/config"
	"github.com/sandevgo/bloombot/internal/service/orchestrator"
	"github.com/sandevgo/bloombot/pkg/log"
)

const defaultUserID = "cli-local"

type ReadLine struct {
	cfg  *config.AppConfig
	orch *orchestrator.Orchestrator
	rl   *readline.Instance
}

func NewReadLine(orch *orchestrator.Orchestrator, cfg *config.AppConfig) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg:  cfg,
		orch: orch,
		rl:   rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("Chat started. Type 'exit' to quit.")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		result := r.orch.ProcessMessage(ctx, line, defaultUserID)

		fmt.Fprintf(r.rl.Stdout(), "%s\n", result.Response)

		if len(result.Products) > 0 {
			fmt.Fprintf(r.rl.Stdout(), "\033[38;5;240m[%d matching products, served by %s in %s]\033[0m\n",
				len(result.Products), result.ServiceUsed, result.ProcessingTime.Round(time.Millisecond))
		}
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
