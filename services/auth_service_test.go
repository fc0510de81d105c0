package services

import (
	"context"
	"errors"
	"testing"

	"league-portal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_Validation(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	tests := []struct {
		name string
		in   SignupInput
		kind error
		msg  string
	}{
		{"missing email", SignupInput{FirstName: "A"}, ErrInvalidInput, MsgEmailMissing},
		{"blank email", SignupInput{Email: "   ", FirstName: "A"}, ErrInvalidInput, MsgEmailMissing},
		{"missing first name", SignupInput{Email: "a@x.com"}, ErrInvalidInput, MsgFirstNameMissing},
		{"malformed email", SignupInput{Email: "a-at-x", FirstName: "A"}, ErrInvalidInput, MsgIncorrectEmail},
		{"bad phone", SignupInput{Email: "a@x.com", FirstName: "A", PhoneNumber: "12"}, ErrInvalidInput, MsgIncorrectPhone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.CreateUser(ctx, tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.msg, err.Error())
		})
	}

	var n int64
	env.db.Model(&models.User{}).Count(&n)
	assert.Zero(t, n)
}

func TestCreateUser_DefaultsAndNormalisation(t *testing.T) {
	env := newTestEnv(t, true)

	u, err := env.auth.CreateUser(context.Background(), SignupInput{
		Email:       " Li@Example.COM ",
		FirstName:   " Li ",
		PhoneNumber: "138 0013 8000",
	})
	require.NoError(t, err)
	assert.Equal(t, "Li@example.com", u.Email)
	assert.Equal(t, "Li", u.FirstName)
	assert.Equal(t, models.DefaultGender, u.Gender)
	assert.Equal(t, "+8613800138000", u.PhoneNumber)
	assert.Nil(t, u.LastName)
}

func TestCreateUser_Duplicate(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	_, err := env.auth.CreateUser(ctx, SignupInput{Email: "a@x.com", FirstName: "A"})
	require.NoError(t, err)

	_, err = env.auth.CreateUser(ctx, SignupInput{Email: "a@X.com", FirstName: "B"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateUser)
	assert.Equal(t, MsgUserExists, err.Error())

	var n int64
	env.db.Model(&models.User{}).Count(&n)
	assert.Equal(t, int64(1), n)
}

func TestSignup(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	res, err := env.auth.Signup(ctx, "s1", SignupInput{Email: "a@x.com", FirstName: "A"})
	require.NoError(t, err)
	assert.Equal(t, Result{Success: true, Message: MsgOTPSentToEmail}, res)
	assert.Equal(t, 1, env.mailer.count())

	res, err = env.auth.Signup(ctx, "s2", SignupInput{Email: "a@x.com", FirstName: "A"})
	require.NoError(t, err)
	assert.Equal(t, Result{Success: false, Message: MsgUserExists}, res)
	assert.Equal(t, 1, env.mailer.count(), "no mail for a rejected signup")
}

func TestSignup_DeliveryFailure(t *testing.T) {
	env := newTestEnv(t, true)
	env.mailer.err = errors.New("mailbox unavailable")

	res, err := env.auth.Signup(context.Background(), "s1", SignupInput{Email: "a@x.com", FirstName: "A"})
	require.NoError(t, err)
	assert.Equal(t, Result{Success: false, Message: MsgIncorrectEmail}, res)
}

func TestLogin_UnknownUser(t *testing.T) {
	for _, requireOTP := range []bool{true, false} {
		env := newTestEnv(t, requireOTP)
		res, err := env.auth.Login(context.Background(), "s", LoginInput{Email: "unknown@x.com"})
		require.NoError(t, err)
		assert.Equal(t, Result{Success: false, Message: MsgUserMissing}, res)
	}
}

func TestLogin_EmailOnlyWhenOTPNotRequired(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	_, err := env.auth.CreateUser(ctx, SignupInput{Email: "a@x.com", FirstName: "A"})
	require.NoError(t, err)

	res, err := env.auth.Login(ctx, "s", LoginInput{Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, Result{Success: true, Message: MsgLoggedIn}, res)

	u, err := env.auth.CurrentUser(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
	assert.NotNil(t, u.LastLogin)
}

func TestLogin_RequiresOTP(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	_, err := env.auth.CreateUser(ctx, SignupInput{Email: "a@x.com", FirstName: "A"})
	require.NoError(t, err)

	res, err := env.auth.Login(ctx, "s", LoginInput{Email: "a@x.com"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	_, err = env.auth.CurrentUser(ctx, "s")
	assert.ErrorIs(t, err, ErrNotFound)

	res, err = env.auth.SendOTP(ctx, "s", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, Result{Success: true, Message: MsgOTPSent}, res)
	code := env.mailer.lastCode(t)

	res, err = env.auth.Login(ctx, "s", LoginInput{Email: "a@x.com", OTP: code})
	require.NoError(t, err)
	assert.Equal(t, Result{Success: true, Message: MsgLoggedIn}, res)

	u, err := env.auth.CurrentUser(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)

	// idempotent: a second establish keeps the session valid
	require.NoError(t, env.auth.EstablishSession(ctx, "s", u))
	_, err = env.auth.CurrentUser(ctx, "s")
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(ctx, "s"))
	_, err = env.auth.CurrentUser(ctx, "s")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendOTP_BadAddress(t *testing.T) {
	env := newTestEnv(t, true)
	res, err := env.auth.SendOTP(context.Background(), "s", "nobody")
	require.NoError(t, err)
	assert.Equal(t, Result{Success: false, Message: MsgIncorrectEmail}, res)
}

func TestCreateSuperuserAndAuthenticateStaff(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	_, err := env.auth.CreateSuperuser(ctx, "boss@x.com", "Boss", "short")
	assert.ErrorIs(t, err, ErrInvalidInput)

	u, err := env.auth.CreateSuperuser(ctx, "boss@x.com", "Boss", "correct horse")
	require.NoError(t, err)
	assert.True(t, u.IsSuperuser)

	// running it again only resets the password
	_, err = env.auth.CreateSuperuser(ctx, "boss@x.com", "Boss", "battery staple")
	require.NoError(t, err)

	_, err = env.auth.AuthenticateStaff(ctx, "boss@x.com", "correct horse")
	assert.ErrorIs(t, err, ErrChallengeMismatch)
	staff, err := env.auth.AuthenticateStaff(ctx, "boss@x.com", "battery staple")
	require.NoError(t, err)
	assert.True(t, staff.IsStaff)

	_, err = env.auth.CreateUser(ctx, SignupInput{Email: "fan@x.com", FirstName: "Fan"})
	require.NoError(t, err)
	_, err = env.auth.AuthenticateStaff(ctx, "fan@x.com", "")
	assert.ErrorIs(t, err, ErrChallengeMismatch)
}
