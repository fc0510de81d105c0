package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"league-portal/models"
	"league-portal/repository"
	"league-portal/session"

	"github.com/nyaruka/phonenumbers"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type SignupInput struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Gender      string `json:"gender"`
	PhoneNumber string `json:"phone_number"`
}

type LoginInput struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type AuthOptions struct {
	SessionTTL  time.Duration
	RequireOTP  bool
	PhoneRegion string
}

// AuthService owns accounts and which session is logged in as whom.
type AuthService struct {
	users    repository.UserRepository
	otp      *OTPService
	sessions session.Store
	opts     AuthOptions
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewAuthService(users repository.UserRepository, otp *OTPService, sessions session.Store, opts AuthOptions, log logrus.FieldLogger) *AuthService {
	if opts.PhoneRegion == "" {
		opts.PhoneRegion = "CN"
	}
	return &AuthService{
		users:    users,
		otp:      otp,
		sessions: sessions,
		opts:     opts,
		log:      log,
		now:      time.Now,
	}
}

// CreateUser validates in and inserts the account.
func (s *AuthService) CreateUser(ctx context.Context, in SignupInput) (*models.User, error) {
	email := models.NormalizeEmail(in.Email)
	if email == "" {
		return nil, newError(ErrInvalidInput, MsgEmailMissing)
	}
	firstName := strings.TrimSpace(in.FirstName)
	if firstName == "" {
		return nil, newError(ErrInvalidInput, MsgFirstNameMissing)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, newError(ErrInvalidInput, MsgIncorrectEmail)
	}

	phone, err := s.normalizePhone(in.PhoneNumber)
	if err != nil {
		return nil, err
	}

	gender := strings.ToLower(strings.TrimSpace(in.Gender))
	if gender == "" {
		gender = models.DefaultGender
	}

	user := &models.User{
		Email:       email,
		FirstName:   firstName,
		LastName:    optional(in.LastName),
		Gender:      gender,
		PhoneNumber: phone,
		IsActive:    true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, newError(ErrDuplicateUser, MsgUserExists)
		}
		return nil, err
	}
	s.log.WithField("email", email).Info("User created")
	return user, nil
}

func (s *AuthService) normalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	num, err := phonenumbers.Parse(raw, s.opts.PhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", newError(ErrInvalidInput, MsgIncorrectPhone)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func (s *AuthService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, MsgUserMissing)
		}
		return nil, err
	}
	return user, nil
}

// EstablishSession logs sessionKey in as user. Calling it again just refreshes
// the expiry.
func (s *AuthService) EstablishSession(ctx context.Context, sessionKey string, user *models.User) error {
	if err := s.sessions.Put(ctx, sessionKey, session.FieldAuthEmail, user.Email, s.opts.SessionTTL); err != nil {
		return err
	}
	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.Email, now); err != nil {
		return err
	}
	user.LastLogin = &now
	return nil
}

func (s *AuthService) TerminateSession(ctx context.Context, sessionKey string) error {
	return s.sessions.Delete(ctx, sessionKey, session.FieldAuthEmail, session.FieldChallenge, session.FieldAttempts)
}

// CurrentUser returns the logged-in user or ErrNotFound.
func (s *AuthService) CurrentUser(ctx context.Context, sessionKey string) (*models.User, error) {
	email, found, err := s.sessions.Get(ctx, sessionKey, session.FieldAuthEmail)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, newError(ErrNotFound, "not logged in")
	}
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_ = s.TerminateSession(ctx, sessionKey)
		}
		return nil, err
	}
	if !user.IsActive {
		_ = s.TerminateSession(ctx, sessionKey)
		return nil, newError(ErrNotFound, "account disabled")
	}
	return user, nil
}

// Signup creates the account and mails the first code.
func (s *AuthService) Signup(ctx context.Context, sessionKey string, in SignupInput) (Result, error) {
	user, err := s.CreateUser(ctx, in)
	if err != nil {
		if res, ok := ResultFor(err); ok {
			return res, nil
		}
		return Result{}, err
	}
	if err := s.otp.Issue(ctx, sessionKey, user.Email); err != nil {
		if res, ok := ResultFor(err); ok {
			return res, nil
		}
		return Result{}, err
	}
	return succeed(MsgOTPSentToEmail), nil
}

// SendOTP mails a new code for email without requiring the account to exist.
func (s *AuthService) SendOTP(ctx context.Context, sessionKey, email string) (Result, error) {
	if err := s.otp.Issue(ctx, sessionKey, models.NormalizeEmail(email)); err != nil {
		if res, ok := ResultFor(err); ok {
			return res, nil
		}
		return Result{}, err
	}
	return succeed(MsgOTPSent), nil
}

// Login authenticates the session. With RequireOTP the code mailed by SendOTP
// or Signup must be presented; otherwise the email alone is enough.
func (s *AuthService) Login(ctx context.Context, sessionKey string, in LoginInput) (Result, error) {
	email := models.NormalizeEmail(in.Email)
	if email == "" {
		return fail(MsgEmailMissing), nil
	}
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		if res, ok := ResultFor(err); ok {
			return res, nil
		}
		return Result{}, err
	}
	if !user.IsActive {
		return fail(MsgUserMissing), nil
	}

	if s.opts.RequireOTP {
		res, err := s.otp.Verify(ctx, sessionKey, strings.TrimSpace(in.OTP), email)
		if err != nil {
			return Result{}, err
		}
		if !res.Success {
			return res, nil
		}
	}

	if err := s.EstablishSession(ctx, sessionKey, user); err != nil {
		return Result{}, err
	}
	s.log.WithField("email", email).Info("User logged in")
	return succeed(MsgLoggedIn), nil
}

func (s *AuthService) Logout(ctx context.Context, sessionKey string) error {
	return s.TerminateSession(ctx, sessionKey)
}

// CreateSuperuser creates or promotes a staff account with a password for the
// admin API.
func (s *AuthService) CreateSuperuser(ctx context.Context, email, firstName, password string) (*models.User, error) {
	if len(password) < 8 {
		return nil, newError(ErrInvalidInput, "password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt: %w", err)
	}

	user, err := s.CreateUser(ctx, SignupInput{Email: email, FirstName: firstName})
	if err != nil && !errors.Is(err, ErrDuplicateUser) {
		return nil, err
	}
	email = models.NormalizeEmail(email)
	if err := s.users.Promote(ctx, email, string(hash)); err != nil {
		return nil, err
	}
	if user, err = s.users.FindByEmail(ctx, email); err != nil {
		return nil, err
	}
	s.log.WithField("email", email).Info("Superuser ready")
	return user, nil
}

// AuthenticateStaff checks email and password of a staff account.
func (s *AuthService) AuthenticateStaff(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !user.IsStaff || !user.IsActive || user.Password == "" {
		return nil, newError(ErrChallengeMismatch, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, newError(ErrChallengeMismatch, "invalid credentials")
	}
	return user, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
