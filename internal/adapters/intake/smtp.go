package intake

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/phish-dashboard/internal/core"
	"github.com/mikey/phish-dashboard/internal/display"
	"github.com/mikey/phish-dashboard/internal/evidence"
	"github.com/mikey/phish-dashboard/internal/views"
	"go.uber.org/zap"
)

var (
	errSenderNotAllowed = &smtp.SMTPError{
		Code:         550,
		EnhancedCode: smtp.EnhancedCode{5, 7, 1},
		Message:      "Sender domain is not allowed to submit",
	}
	errNoBody = &smtp.SMTPError{
		Code:         550,
		EnhancedCode: smtp.EnhancedCode{5, 6, 0},
		Message:      "Message has no text content to analyze",
	}
	errPhishing = &smtp.SMTPError{
		Code:         550,
		EnhancedCode: smtp.EnhancedCode{5, 7, 1},
		Message:      "Rejected as phishing",
	}
)

// Server accepts forwarded messages over SMTP and checks them
type Server struct {
	svc            views.CheckService
	vocab          evidence.Vocabulary
	formatter      *display.Formatter
	allowList      *DomainAllowList
	logger         *zap.Logger
	listenAddr     string
	domain         string
	rejectPhishing bool
	checkTimeout   time.Duration
	server         *smtp.Server
}

// NewServer creates an SMTP intake server
func NewServer(
	svc views.CheckService,
	vocab evidence.Vocabulary,
	formatter *display.Formatter,
	allowList *DomainAllowList,
	logger *zap.Logger,
	listenAddr string,
	domain string,
	rejectPhishing bool,
) *Server {
	if domain == "" {
		domain = "localhost"
	}
	return &Server{
		svc:            svc,
		vocab:          vocab,
		formatter:      formatter,
		allowList:      allowList,
		logger:         logger,
		listenAddr:     listenAddr,
		domain:         domain,
		rejectPhishing: rejectPhishing,
		checkTimeout:   30 * time.Second,
	}
}

// Start starts the SMTP listener in the background
func (s *Server) Start() error {
	s.server = smtp.NewServer(&backend{intake: s})
	s.server.Addr = s.listenAddr
	s.server.Domain = s.domain
	s.server.ReadTimeout = 30 * time.Second
	s.server.WriteTimeout = 30 * time.Second
	s.server.MaxMessageBytes = 10 * 1024 * 1024
	s.server.MaxRecipients = 10

	s.logger.Info("Mail intake starting", zap.String("address", s.listenAddr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			s.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the SMTP listener
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// Check runs one forwarded message through a fresh email checker.
// Each message gets its own coordinator since SMTP sessions run concurrently.
func (s *Server) Check(ctx context.Context, req core.EmailCheckRequest) (*views.ResultView, error) {
	checker := views.NewEmailChecker(s.svc, s.logger)
	state, err := checker.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	return views.NewResultView(core.KindEmail, state.Result, s.vocab, s.formatter), nil
}

type backend struct {
	intake *Server
}

func (b *backend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &session{intake: b.intake}, nil
}

type session struct {
	intake *Server
	from   string
}

func (s *session) Reset() {
	s.from = ""
}

func (s *session) Logout() error {
	return nil
}

func (s *session) Mail(from string, _ *smtp.MailOptions) error {
	if !s.intake.allowList.Allows(from) {
		s.intake.logger.Warn("Rejected sender", zap.String("from", from))
		return errSenderNotAllowed
	}
	s.from = from
	return nil
}

func (s *session) Rcpt(_ string, _ *smtp.RcptOptions) error {
	return nil
}

func (s *session) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.intake.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	req, err := ParseMessage(bytes.NewReader(raw))
	if err != nil {
		s.intake.logger.Error("Failed to parse forwarded message", zap.String("from", s.from), zap.Error(err))
		return err
	}
	if req.Sender == "" {
		req.Sender = s.from
	}
	req.Body = s.intake.formatter.SanitizeUTF8(req.Body)

	ctx, cancel := context.WithTimeout(context.Background(), s.intake.checkTimeout)
	defer cancel()

	view, err := s.intake.Check(ctx, req)
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		return errNoBody
	case err != nil:
		// Accept the message; an unavailable detector must not bounce mail
		s.intake.logger.Error("Failed to check forwarded message",
			zap.String("from", s.from),
			zap.String("reason", core.UserMessage(err, views.MsgEmailCheckFailed)),
			zap.Error(err))
		return nil
	}

	fields := []zap.Field{
		zap.String("from", s.from),
		zap.String("subject", req.Subject),
		zap.Bool("is_phishing", view.IsPhishing),
		zap.String("confidence", view.Confidence),
		zap.Int("analyzed_urls", len(view.AnalyzedURLs)),
	}
	for _, row := range view.Features {
		fields = append(fields, zap.String(row.Label, row.Value))
	}
	s.intake.logger.Info(view.Title, fields...)

	if view.IsPhishing && s.intake.rejectPhishing {
		return errPhishing
	}
	return nil
}
