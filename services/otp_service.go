package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"math/big"
	"net/mail"
	"time"

	"league-portal/session"
	"league-portal/utils"

	"github.com/sirupsen/logrus"
)

// MaxOTPAttempts wrong codes burn the challenge.
const MaxOTPAttempts = 5

// challenge is what a session remembers between "send code" and "verify code".
type challenge struct {
	Code     string    `json:"code"`
	Email    string    `json:"email"`
	IssuedAt time.Time `json:"issued_at"`
}

type OTPService struct {
	store  session.Store
	mailer utils.Mailer
	length int
	ttl    time.Duration
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewOTPService(store session.Store, mailer utils.Mailer, length int, ttl time.Duration, log logrus.FieldLogger) *OTPService {
	if length <= 0 {
		length = 6
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &OTPService{
		store:  store,
		mailer: mailer,
		length: length,
		ttl:    ttl,
		log:    log,
		now:    time.Now,
	}
}

// Generate returns a numeric code of the configured length.
func (s *OTPService) Generate() (string, error) {
	ten := big.NewInt(10)
	code := make([]byte, s.length)
	for i := range code {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("otp: read random: %w", err)
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}

// Deliver mails code to email. It reports failure instead of returning errors.
func (s *OTPService) Deliver(ctx context.Context, email, code string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		s.log.WithField("email", email).Warn("OTP not sent: malformed address")
		return false
	}

	minutes := int(s.ttl / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	body := fmt.Sprintf("Your login code is %s. It expires in %d minute(s).", code, minutes)
	if err := s.mailer.Send(ctx, email, "Your login code", body); err != nil {
		s.log.WithError(err).WithField("email", email).Error("OTP delivery failed")
		return false
	}
	return true
}

// Issue sends a fresh code and binds it to the session, replacing any earlier
// challenge. Nothing is stored when delivery fails.
func (s *OTPService) Issue(ctx context.Context, sessionKey, email string) error {
	code, err := s.Generate()
	if err != nil {
		return err
	}
	if !s.Deliver(ctx, email, code) {
		return newError(ErrDeliveryFailure, MsgIncorrectEmail)
	}
	data, err := json.Marshal(challenge{Code: code, Email: email, IssuedAt: s.now()})
	if err != nil {
		return fmt.Errorf("otp: encode challenge: %w", err)
	}
	if err := s.store.Put(ctx, sessionKey, session.FieldChallenge, string(data), s.ttl); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, sessionKey, session.FieldAttempts); err != nil {
		return err
	}
	s.log.WithField("email", email).Info("OTP challenge issued")
	return nil
}

// Validate compares a submitted code and email with the expected pair. Both
// must match exactly; the message never says which one did not.
func Validate(submittedCode, expectedCode, submittedEmail, expectedEmail string) Result {
	if expectedCode == "" || expectedEmail == "" {
		return fail(MsgOTPInvalid)
	}
	codeOK := subtle.ConstantTimeCompare([]byte(submittedCode), []byte(expectedCode)) == 1
	if !codeOK || submittedEmail != expectedEmail {
		return fail(MsgOTPInvalid)
	}
	return succeed(MsgOTPVerified)
}

// Verify checks code and email against the session's challenge and consumes
// it on success. Of two concurrent successful calls only one wins.
func (s *OTPService) Verify(ctx context.Context, sessionKey, code, email string) (Result, error) {
	raw, found, err := s.store.Get(ctx, sessionKey, session.FieldChallenge)
	if err != nil {
		return Result{}, err
	}
	if !found {
		return fail(MsgOTPInvalid), nil
	}

	var ch challenge
	if err := json.Unmarshal([]byte(raw), &ch); err != nil {
		s.log.WithError(err).Warn("Dropping unreadable OTP challenge")
		return fail(MsgOTPInvalid), s.burn(ctx, sessionKey)
	}
	if s.now().Sub(ch.IssuedAt) >= s.ttl {
		return fail(MsgOTPInvalid), s.burn(ctx, sessionKey)
	}

	res := Validate(code, ch.Code, email, ch.Email)
	if !res.Success {
		n, err := s.store.Incr(ctx, sessionKey, session.FieldAttempts, s.ttl)
		if err != nil {
			return Result{}, err
		}
		if n >= MaxOTPAttempts {
			s.log.WithField("email", ch.Email).Warn("Too many wrong OTPs, challenge burned")
			return res, s.burn(ctx, sessionKey)
		}
		return res, nil
	}

	taken, took, err := s.store.Take(ctx, sessionKey, session.FieldChallenge)
	if err != nil {
		return Result{}, err
	}
	if !took {
		return fail(MsgOTPInvalid), nil
	}
	if taken != raw {
		// A newer challenge was issued between Get and Take. The code checked
		// above belongs to the old one, so put the new one back untouched.
		return fail(MsgOTPInvalid), s.restore(ctx, sessionKey, taken)
	}
	return res, s.store.Delete(ctx, sessionKey, session.FieldAttempts)
}

func (s *OTPService) restore(ctx context.Context, sessionKey, raw string) error {
	var ch challenge
	if err := json.Unmarshal([]byte(raw), &ch); err != nil {
		return nil
	}
	left := s.ttl - s.now().Sub(ch.IssuedAt)
	if left <= 0 {
		return nil
	}
	return s.store.Put(ctx, sessionKey, session.FieldChallenge, raw, left)
}

func (s *OTPService) burn(ctx context.Context, sessionKey string) error {
	return s.store.Delete(ctx, sessionKey, session.FieldChallenge, session.FieldAttempts)
}
