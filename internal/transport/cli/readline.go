// Package cli is a local chat transport for trying the pipeline without a
// messenger attached.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sandevgo/concierge/internal/config"
	"github.com/sandevgo/concierge/internal/core"
	"github.com/sandevgo/concierge/internal/service/pipeline"
	"github.com/sandevgo/concierge/internal/service/ui"
	"github.com/sandevgo/concierge/pkg/log"
)

const (
	defaultSessionID = "cli-local"
	defaultTenantID  = 1
)

type ReadLine struct {
	cfg      *config.AppConfig
	pipeline *pipeline.Pipeline
	channel  core.Channel
	rl       *readline.Instance
}

func NewReadLine(p *pipeline.Pipeline, cfg *config.AppConfig) (*ReadLine, error) {
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
		cfg:      cfg,
		pipeline: p,
		channel:  core.ChannelTelegram,
		rl:       rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("chat started. Type 'exit' to quit, '/channel <name>' to switch the output channel.")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil
				}
				continue
			}
			if errors.Is(err, io.EOF) {
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
		if name, ok := strings.CutPrefix(line, "/channel "); ok {
			r.switchChannel(core.Channel(strings.TrimSpace(name)))
			continue
		}

		reply, err := r.pipeline.HandleMessage(ctx, pipeline.Request{
			SessionID: defaultSessionID,
			TenantID:  defaultTenantID,
			Channel:   r.channel,
			UserText:  line,
		})
		if err != nil {
			logger.Error().Err(err).Msg("message handling failed")
			fmt.Fprintf(r.rl.Stdout(), "Error: %v\n", err)
			continue
		}

		if reply.Degraded {
			fmt.Fprintln(r.rl.Stdout(), ui.NoticeStyle.Render("[no grounding: "+reply.GateReason+"]"))
		}
		fmt.Fprintln(r.rl.Stdout(), ui.AnswerStyle.Render(reply.Text))
	}
}

func (r *ReadLine) switchChannel(ch core.Channel) {
	if !ch.Valid() {
		fmt.Fprintf(r.rl.Stdout(), "unknown channel %q (telegram, widget, vk, max)\n", ch)
		return
	}
	r.channel = ch
	fmt.Fprintf(r.rl.Stdout(), "channel switched to %s\n", ch)
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
