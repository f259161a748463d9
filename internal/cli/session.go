package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/ariel-frischer/multistage/internal/config"
	apperrors "github.com/ariel-frischer/multistage/internal/errors"
	"github.com/ariel-frischer/multistage/internal/logging"
	"github.com/ariel-frischer/multistage/internal/output"
	"github.com/ariel-frischer/multistage/internal/progress"
	"github.com/ariel-frischer/multistage/internal/stage"
)

// session is everything a command needs to build a controller.
type session struct {
	env    config.Environment
	design progress.Design
	log    *zap.Logger
	out    io.Writer
	json   bool
}

// setup loads settings, the design theme and the logger for one command.
func (g *globalFlags) setup(out io.Writer) (*session, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}

	env := cfg.Resolve()
	if g.ci || (!cfg.DisableCIMode && !isTerminal(out)) {
		env.CIMode = true
	}

	design := progress.DefaultDesign(progress.DetectTerminalCapabilities())
	path := g.designPath
	if path == "" {
		path = cfg.DesignFile
	}
	if path != "" {
		if design, err = progress.LoadDesignFile(path, design); err != nil {
			return nil, err
		}
	}

	log, err := logging.New(g.logLevel, g.logFile)
	if err != nil {
		return nil, apperrors.WrapWithMessage(err, apperrors.Argument,
			"failed to create logger",
			"check --log-level and that --log-file is writable",
		)
	}

	return &session{env: env, design: design, log: log, out: out, json: g.json}, nil
}

// options fills the controller options every command shares.
func (r *session) options(title string, stages []string) output.Options {
	return output.Options{
		Stages:      stages,
		Title:       title,
		JSONEnabled: r.json,
		Design:      &r.design,
		Environment: r.env,
		Writer:      r.out,
		Logger:      r.log,
	}
}

// OnCommandStart implements lifecycle.Handler.
func (r *session) OnCommandStart(name string) {
	r.log.Info("command started", zap.String("command", name), zap.Bool("ci", r.env.CIMode))
}

// OnCommandComplete implements lifecycle.Handler.
func (r *session) OnCommandComplete(name string, success bool, d time.Duration) {
	r.log.Info("command finished",
		zap.String("command", name),
		zap.Bool("success", success),
		zap.Duration("duration", d),
	)
}

func (r *session) close() {
	_ = r.log.Sync()
}

type stageSummary struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

// printSummary writes the final stage table as JSON when --json is set.
func (r *session) printSummary(snap stage.Snapshot) error {
	if !r.json {
		return nil
	}
	rows := make([]stageSummary, 0, snap.Len())
	for _, e := range snap.Entries {
		rows = append(rows, stageSummary{
			Name:      e.Name,
			Status:    e.Status.String(),
			ElapsedMS: e.Elapsed.Milliseconds(),
		})
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"stages": rows})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// pause sleeps for d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
