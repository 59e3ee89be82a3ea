package services

import (
	"context"
	"testing"
	"time"

	"stayfinder-backend/config"
	"stayfinder-backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture() (*AuthService, *fakeUserRepo, *fakeOtpRepo, *fakeMailer) {
	users := newFakeUserRepo()
	otps := newFakeOtpRepo()
	mail := &fakeMailer{}
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: 1, OtpTTL: 10}
	return NewAuthService(users, otps, mail, cfg), users, otps, mail
}

func TestRequestOtpStoresPendingRegistrationAndMailsCode(t *testing.T) {
	svc, _, otps, mail := newAuthFixture()
	ctx := context.Background()

	err := svc.RequestOtp(ctx, "alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "alice@example.com", mail.sent[0].to)
	assert.Len(t, mail.sent[0].code, 6)

	otp, err := otps.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, mail.sent[0].code, otp.Code)
	assert.False(t, otp.Expired(time.Now()))

	// Password is stored hashed, never in the clear.
	assert.NotEqual(t, "hunter22", otp.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(otp.Password), []byte("hunter22")))
}

func TestRequestOtpSupersedesPreviousCode(t *testing.T) {
	svc, _, otps, mail := newAuthFixture()
	ctx := context.Background()

	require.NoError(t, svc.RequestOtp(ctx, "alice", "alice@example.com", "hunter22"))
	require.NoError(t, svc.RequestOtp(ctx, "alice", "alice@example.com", "hunter22"))

	require.Len(t, mail.sent, 2)
	otp, err := otps.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, mail.sent[1].code, otp.Code)
}

func TestRequestOtpRejectsTakenEmail(t *testing.T) {
	svc, users, _, _ := newAuthFixture()
	users.add("alice", "alice@example.com")

	err := svc.RequestOtp(context.Background(), "other", "alice@example.com", "hunter22")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAlreadyExists, apperrors.CodeOf(err))
}

func TestVerifyOtpCreatesUserAndIssuesToken(t *testing.T) {
	svc, users, otps, mail := newAuthFixture()
	ctx := context.Background()

	require.NoError(t, svc.RequestOtp(ctx, "alice", "alice@example.com", "hunter22"))

	token, user, err := svc.VerifyOtp(ctx, "alice@example.com", mail.sent[0].code)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Name)
	assert.False(t, user.ID.IsZero())

	uid, name, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), uid)
	assert.Equal(t, "alice", name)

	// The otp is gone and the user can now log in with the password.
	_, err = otps.FindByEmail(ctx, "alice@example.com")
	assert.Error(t, err)

	_, logged, err := svc.Login(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.Len(t, users.users, 1)
}

func TestVerifyOtpRejectsWrongCode(t *testing.T) {
	svc, users, _, _ := newAuthFixture()
	ctx := context.Background()

	require.NoError(t, svc.RequestOtp(ctx, "alice", "alice@example.com", "hunter22"))

	_, _, err := svc.VerifyOtp(ctx, "alice@example.com", "000000")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthenticated, apperrors.CodeOf(err))
	assert.Empty(t, users.users)
}

func TestVerifyOtpRejectsExpiredCode(t *testing.T) {
	svc, users, otps, mail := newAuthFixture()
	ctx := context.Background()

	require.NoError(t, svc.RequestOtp(ctx, "alice", "alice@example.com", "hunter22"))

	otp, err := otps.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	otp.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, otps.Upsert(ctx, otp))

	_, _, err = svc.VerifyOtp(ctx, "alice@example.com", mail.sent[0].code)
	require.Error(t, err)
	assert.Empty(t, users.users)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc, _, _, mail := newAuthFixture()
	ctx := context.Background()

	require.NoError(t, svc.RequestOtp(ctx, "alice", "alice@example.com", "hunter22"))
	_, _, err := svc.VerifyOtp(ctx, "alice@example.com", mail.sent[0].code)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthenticated, apperrors.CodeOf(err))

	_, _, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthenticated, apperrors.CodeOf(err))
}

func TestUpdateProfileValidatesAndRehashes(t *testing.T) {
	svc, _, _, mail := newAuthFixture()
	ctx := context.Background()

	require.NoError(t, svc.RequestOtp(ctx, "alice", "alice@example.com", "hunter22"))
	_, user, err := svc.VerifyOtp(ctx, "alice@example.com", mail.sent[0].code)
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, user.ID, "alice2", "newpassword")
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Name)

	_, _, err = svc.Login(ctx, "alice@example.com", "newpassword")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, user.ID, "x", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
}
