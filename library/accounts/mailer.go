package accounts

import (
	"context"

	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

// Mailer delivers verification codes to readers.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email string, name string, code string) error
}

// LogMailer writes verification codes to the log instead of sending emails.
type LogMailer struct {
	logger shell.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger shell.Logger) LogMailer {
	return LogMailer{logger: logger}
}

// SendVerificationCode logs the code.
func (m LogMailer) SendVerificationCode(_ context.Context, email string, name string, code string) error {
	m.logger.Info("verification code issued", "email", email, "name", name, "code", code)

	return nil
}
