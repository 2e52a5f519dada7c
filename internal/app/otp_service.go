package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"docassist/internal/model"
	"docassist/internal/pkg/jwtutil"
)

var (
	ErrEmailEmpty  = errors.New("email is empty")
	ErrOTPNotFound = errors.New("otp not found")
	ErrOTPMismatch = errors.New("otp mismatch")
)

// OTPStore persists one code per email address.
type OTPStore interface {
	Create(otp *model.OTP) error
	GetByEmail(email string) (*model.OTP, error)
	GetByID(id uint) (*model.OTP, error)
	UpdateCode(id uint, code string) error
}

// EmailJobPublisher enqueues a code for asynchronous delivery.
type EmailJobPublisher interface {
	Publish(ctx context.Context, job model.OTPEmailJob) error
}

type OTPService struct {
	store         OTPStore
	publisher     EmailJobPublisher
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewOTPService(store OTPStore, publisher EmailJobPublisher, jwtSecret string, jwtExpiration time.Duration) *OTPService {
	return &OTPService{
		store:         store,
		publisher:     publisher,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

type IssueResult struct {
	UserID  uint
	Email   string
	Code    string
	Message string
}

// Issue draws a fresh 6-digit code for the email. An existing record keeps
// its id and gets the code overwritten; otherwise a new row is inserted.
// Delivery is queued after the code is persisted; a queue failure is logged
// and the issuance still succeeds.
func (s *OTPService) Issue(ctx context.Context, email string) (*IssueResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, ErrEmailEmpty
	}

	code := generateCode()

	existing, err := s.store.GetByEmail(email)
	if err != nil {
		return nil, err
	}

	var id uint
	var message string
	if existing != nil {
		if err := s.store.UpdateCode(existing.ID, code); err != nil {
			return nil, err
		}
		id = existing.ID
		message = "OTP updated for existing user"
	} else {
		otp := &model.OTP{Email: email, Code: code}
		if err := s.store.Create(otp); err != nil {
			return nil, err
		}
		id = otp.ID
		message = "OTP generated for new user"
	}

	if err := s.publisher.Publish(ctx, model.OTPEmailJob{Email: email, Code: code}); err != nil {
		log.Error().Err(err).Str("email", email).Msg("queue otp email failed")
	}

	return &IssueResult{
		UserID:  id,
		Email:   email,
		Code:    code,
		Message: message,
	}, nil
}

// Verify compares the submitted code against the stored one by exact string
// equality and mints a session token on match. Codes are not consumed and
// stay valid until the next issuance overwrites them.
func (s *OTPService) Verify(id uint, code string) (string, error) {
	otp, err := s.store.GetByID(id)
	if err != nil {
		return "", err
	}
	if otp == nil {
		return "", ErrOTPNotFound
	}
	if otp.Code != code {
		return "", ErrOTPMismatch
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, otp.ID, otp.Email)
	if err != nil {
		return "", fmt.Errorf("mint session token failed: %w", err)
	}
	return token, nil
}

func generateCode() string {
	return fmt.Sprintf("%06d", rand.IntN(1000000))
}
