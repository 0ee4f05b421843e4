package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mikey/phish-dashboard/internal/adapters/intake"
	"github.com/mikey/phish-dashboard/internal/config"
	"github.com/mikey/phish-dashboard/internal/core"
	"github.com/mikey/phish-dashboard/internal/display"
	"github.com/mikey/phish-dashboard/internal/evidence"
	"github.com/mikey/phish-dashboard/internal/views"
	"go.uber.org/zap"
)

// ErrNoOperation is returned when no operation flag was given
var ErrNoOperation = errors.New("no operation selected: use -url, -file, -body, -history or -stats")

// Request is the single operation selected on the command line
type Request struct {
	URL          string
	FetchContent bool
	InputFile    string
	Subject      string
	Sender       string
	Body         string
	History      string
	Limit        int
	Stats        bool
}

func (r Request) operation() (string, error) {
	var ops []string
	if r.URL != "" {
		ops = append(ops, "url")
	}
	if r.InputFile != "" || r.Body != "" || r.Subject != "" || r.Sender != "" {
		ops = append(ops, "email")
	}
	if r.History != "" {
		ops = append(ops, "history")
	}
	if r.Stats {
		ops = append(ops, "stats")
	}

	switch len(ops) {
	case 0:
		return "", ErrNoOperation
	case 1:
		return ops[0], nil
	default:
		return "", fmt.Errorf("choose one operation, got %s", strings.Join(ops, ", "))
	}
}

// Runner executes one CLI operation through the same coordinators the dashboard uses
type Runner struct {
	service   *core.DashboardService
	formatter *display.Formatter
	vocab     evidence.Vocabulary
	viewCfg   config.ViewConfig
	logger    *zap.Logger
	stdin     io.Reader
	render    *Renderer
}

// NewRunner creates a CLI runner
func NewRunner(
	service *core.DashboardService,
	formatter *display.Formatter,
	vocab evidence.Vocabulary,
	viewCfg config.ViewConfig,
	logger *zap.Logger,
	stdin io.Reader,
	stdout io.Writer,
) *Runner {
	return &Runner{
		service:   service,
		formatter: formatter,
		vocab:     vocab,
		viewCfg:   viewCfg,
		logger:    logger,
		stdin:     stdin,
		render:    NewRenderer(stdout),
	}
}

// Run executes the selected operation. Validation and transport failures are
// printed and returned so the caller can exit non-zero.
func (r *Runner) Run(ctx context.Context, req Request) error {
	op, err := req.operation()
	if err != nil {
		return err
	}

	start := time.Now()
	defer func() {
		r.logger.Debug("Operation finished", zap.String("operation", op), zap.Duration("duration", time.Since(start)))
	}()

	switch op {
	case "url":
		return r.checkURL(ctx, core.URLCheckRequest{URL: req.URL, FetchContent: req.FetchContent})
	case "email":
		emailReq, err := r.emailRequest(req)
		if err != nil {
			return err
		}
		return r.checkEmail(ctx, emailReq)
	case "history":
		kind, err := core.ParseCheckKind(req.History)
		if err != nil {
			return err
		}
		return r.history(ctx, kind, req.Limit)
	default:
		return r.stats(ctx)
	}
}

func (r *Runner) checkURL(ctx context.Context, req core.URLCheckRequest) error {
	state, err := views.NewURLChecker(r.service, r.logger).Submit(ctx, req)
	if err != nil {
		r.render.Error(state.Error)
		return err
	}
	r.render.Result(views.NewResultView(core.KindURL, state.Result, r.vocab, r.formatter))
	return nil
}

func (r *Runner) checkEmail(ctx context.Context, req core.EmailCheckRequest) error {
	state, err := views.NewEmailChecker(r.service, r.logger).Submit(ctx, req)
	if err != nil {
		r.render.Error(state.Error)
		return err
	}
	r.render.Result(views.NewResultView(core.KindEmail, state.Result, r.vocab, r.formatter))
	return nil
}

// emailRequest reads the message file when given; explicit flags override its headers
func (r *Runner) emailRequest(req Request) (core.EmailCheckRequest, error) {
	out := core.EmailCheckRequest{Subject: req.Subject, Sender: req.Sender, Body: req.Body}
	if req.InputFile == "" {
		return out, nil
	}

	var in io.Reader = r.stdin
	if req.InputFile != "-" {
		file, err := os.Open(req.InputFile)
		if err != nil {
			return out, fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		in = file
		r.logger.Info("Reading email from file", zap.String("file", req.InputFile))
	} else {
		r.logger.Info("Reading email from stdin")
	}

	parsed, err := intake.ParseMessage(in)
	if err != nil {
		return out, err
	}
	if out.Subject == "" {
		out.Subject = parsed.Subject
	}
	if out.Sender == "" {
		out.Sender = parsed.Sender
	}
	if out.Body == "" {
		out.Body = r.formatter.SanitizeUTF8(parsed.Body)
	}
	return out, nil
}

func (r *Runner) history(ctx context.Context, kind core.CheckKind, limit int) error {
	if limit <= 0 {
		limit = r.viewCfg.HistoryLimit
	}
	state, err := views.NewHistoryView(r.service, r.formatter, limit, r.logger).SelectTab(ctx, kind)
	if err != nil {
		r.render.Error(state.Error)
		return err
	}
	r.render.History(state)
	return nil
}

func (r *Runner) stats(ctx context.Context) error {
	state, err := views.NewStatsView(r.service, r.formatter, r.viewCfg.RecentLimit, r.logger).Load(ctx)
	if err != nil {
		r.render.Error(state.Error)
		return err
	}
	r.render.Dashboard(state.Dashboard)
	return nil
}
