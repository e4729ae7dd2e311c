package accounts

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/AntonStoeckl/library-lending-ledger/library/accessgate"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/command/registerreader"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/command/verifyreaderemail"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/query/readerbyemail"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

const (
	verificationCodeTTL = 10 * time.Minute
	defaultTimeout      = 5 * time.Second
)

// TokenIssuer signs access tokens. *accessgate.Gate satisfies it.
type TokenIssuer interface {
	Issue(identity accessgate.Identity) (string, error)
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Token  string
	Reader core.Reader
}

// Service runs the account operations.
type Service struct {
	register registerreader.CommandHandler
	verify   verifyreaderemail.CommandHandler
	readers  readerbyemail.QueryHandler

	tokens     TokenIssuer
	mailer     Mailer
	logger     shell.Logger
	clock      func() time.Time
	newID      func() uuid.UUID
	newCode    func() (string, error)
	bcryptCost int
	timeout    time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithMailer sets the mailer for verification codes.
func WithMailer(mailer Mailer) Option {
	return func(s *Service) {
		s.mailer = mailer
	}
}

// WithLogger sets the logger.
func WithLogger(logger shell.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithCodeGenerator replaces the random 6-digit verification code generator.
func WithCodeGenerator(newCode func() (string, error)) Option {
	return func(s *Service) {
		s.newCode = newCode
	}
}

// WithBcryptCost sets the bcrypt cost of new password hashes.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

// WithOperationTimeout bounds every operation. Non-positive values are ignored.
func WithOperationTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// NewService creates a Service on top of the event store.
func NewService(eventStore shell.EventStore, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		register:   registerreader.NewCommandHandler(eventStore),
		verify:     verifyreaderemail.NewCommandHandler(eventStore),
		readers:    readerbyemail.NewQueryHandler(eventStore),
		tokens:     tokens,
		clock:      time.Now,
		newID:      uuid.New,
		newCode:    randomCode,
		bcryptCost: bcrypt.DefaultCost,
		timeout:    defaultTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = discardLogger{}
	}

	if s.mailer == nil {
		s.mailer = NewLogMailer(s.logger)
	}

	return s
}

// Register creates an unverified reader and sends the verification code.
// A failing mailer is logged, the registration stands.
func (s *Service) Register(ctx context.Context, name string, email string, password string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return core.ErrAllFieldsRequired
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	code, err := s.newCode()
	if err != nil {
		return fmt.Errorf("generating verification code: %w", err)
	}

	now := s.clock()
	command := registerreader.BuildCommand(
		s.newID(),
		core.Registration{
			Name:                      name,
			Email:                     email,
			PasswordHash:              string(passwordHash),
			Role:                      core.RoleUser,
			VerificationCode:          code,
			VerificationCodeExpiresAt: now.Add(verificationCodeTTL),
		},
		now,
	)

	if _, err = s.register.Handle(ctx, command); err != nil {
		return shell.ClassifyError(err)
	}

	s.logger.Info("reader registered", "reader_id", command.ReaderID, "email", command.Registration.Email)

	if err = s.mailer.SendVerificationCode(ctx, command.Registration.Email, command.Registration.Name, code); err != nil {
		s.logger.Error("sending verification code failed", "email", command.Registration.Email, "error", err.Error())
	}

	return nil
}

// VerifyEmail marks the email as verified when the code matches and has not expired.
func (s *Service) VerifyEmail(ctx context.Context, email string, code string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.verify.Handle(ctx, verifyreaderemail.BuildCommand(email, code, s.clock()))
	if err != nil {
		return shell.ClassifyError(err)
	}

	if !result.Idempotent {
		s.logger.Info("reader email verified", "email", email)
	}

	return nil
}

// Login checks the credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email string, password string) (LoginResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if strings.TrimSpace(email) == "" || password == "" {
		return LoginResult{}, core.ErrEmailAndPasswordRequired
	}

	reader, err := s.readers.Handle(ctx, readerbyemail.BuildQuery(email))
	if err != nil {
		return LoginResult{}, shell.ClassifyError(err)
	}

	if !reader.Verified {
		return LoginResult{}, core.ErrEmailNotVerified
	}

	if err = bcrypt.CompareHashAndPassword([]byte(reader.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, core.ErrIncorrectPassword
	}

	token, err := s.tokens.Issue(accessgate.Identity{ID: reader.ReaderID, Role: reader.Role})
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Token: token, Reader: reader}, nil
}

// CreateAdmin registers an already verified admin account.
func (s *Service) CreateAdmin(ctx context.Context, name string, email string, password string) (core.ReaderIDString, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return "", core.ErrAllFieldsRequired
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	command := registerreader.BuildCommand(
		s.newID(),
		core.Registration{
			Name:         name,
			Email:        email,
			PasswordHash: string(passwordHash),
			Role:         core.RoleAdmin,
			Verified:     true,
		},
		s.clock(),
	)

	if _, err = s.register.Handle(ctx, command); err != nil {
		return "", shell.ClassifyError(err)
	}

	s.logger.Info("admin created", "reader_id", command.ReaderID, "email", command.Registration.Email)

	return command.ReaderID.String(), nil
}

// randomCode returns a uniformly random 6-digit code.
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

type discardLogger struct{}

func (discardLogger) Debug(string, ...any) {}
func (discardLogger) Info(string, ...any)  {}
func (discardLogger) Warn(string, ...any)  {}
func (discardLogger) Error(string, ...any) {}
