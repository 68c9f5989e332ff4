package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labpoint/labportal/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOtpFixture() (*OtpService, *fakeOtpRepo, *fakeMailer) {
	repo := newFakeOtpRepo()
	mail := &fakeMailer{}
	return NewOtpService(repo, mail, zap.NewNop()), repo, mail
}

func issuedCode(t *testing.T, repo *fakeOtpRepo, contact string, purpose identity.OtpPurpose) string {
	t.Helper()
	o, err := repo.Get(context.Background(), contact, purpose)
	require.NoError(t, err)
	return o.Code
}

func TestOtpIssueAndVerify(t *testing.T) {
	svc, repo, mail := newOtpFixture()
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "asha@example.com", identity.PurposeEmailVerification))
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "asha@example.com", mail.sent[0].To)

	code := issuedCode(t, repo, "asha@example.com", identity.PurposeEmailVerification)
	assert.Len(t, code, 6)
	assert.Contains(t, mail.sent[0].Body, code)

	require.NoError(t, svc.Verify(ctx, "asha@example.com", identity.PurposeEmailVerification, code))

	// Consumed on success: the same code cannot be replayed.
	err := svc.Verify(ctx, "asha@example.com", identity.PurposeEmailVerification, code)
	require.ErrorIs(t, err, identity.ErrOtpNotFound)
}

func TestOtpAttemptLimit(t *testing.T) {
	svc, repo, _ := newOtpFixture()
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "asha@example.com", identity.PurposeEmailVerification))
	code := issuedCode(t, repo, "asha@example.com", identity.PurposeEmailVerification)
	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}

	for i := 1; i < identity.MaxOtpAttempts; i++ {
		err := svc.Verify(ctx, "asha@example.com", identity.PurposeEmailVerification, wrong)
		require.ErrorIs(t, err, identity.ErrOtpInvalid, "attempt %d", i)
	}

	err := svc.Verify(ctx, "asha@example.com", identity.PurposeEmailVerification, wrong)
	require.ErrorIs(t, err, identity.ErrOtpAttemptsExceeded)

	// The row is gone, so even the right code no longer works.
	err = svc.Verify(ctx, "asha@example.com", identity.PurposeEmailVerification, code)
	require.ErrorIs(t, err, identity.ErrOtpNotFound)
}

func TestOtpExpired(t *testing.T) {
	svc, repo, _ := newOtpFixture()
	ctx := context.Background()

	expired := &identity.Otp{
		ID:        uuid.New(),
		Contact:   "asha@example.com",
		Purpose:   identity.PurposePasswordReset,
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, repo.Replace(ctx, expired))

	err := svc.Verify(ctx, "asha@example.com", identity.PurposePasswordReset, "123456")
	require.ErrorIs(t, err, identity.ErrOtpExpired)

	// Expiry deletes the row.
	_, err = repo.Get(ctx, "asha@example.com", identity.PurposePasswordReset)
	require.ErrorIs(t, err, identity.ErrOtpNotFound)
}

func TestOtpReissueReplacesLiveCode(t *testing.T) {
	svc, repo, _ := newOtpFixture()
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "asha@example.com", identity.PurposeEmailVerification))
	first := issuedCode(t, repo, "asha@example.com", identity.PurposeEmailVerification)

	require.NoError(t, svc.Issue(ctx, "asha@example.com", identity.PurposeEmailVerification))
	second := issuedCode(t, repo, "asha@example.com", identity.PurposeEmailVerification)

	if first != second {
		err := svc.Verify(ctx, "asha@example.com", identity.PurposeEmailVerification, first)
		if !errors.Is(err, identity.ErrOtpInvalid) {
			t.Fatalf("superseded code: got %v, want ErrOtpInvalid", err)
		}
	}
	require.NoError(t, svc.Verify(ctx, "asha@example.com", identity.PurposeEmailVerification, second))
}

func TestOtpMailFailureIsNotFatal(t *testing.T) {
	repo := newFakeOtpRepo()
	mail := &fakeMailer{err: errors.New("smtp refused")}
	svc := NewOtpService(repo, mail, zap.NewNop())

	require.NoError(t, svc.Issue(context.Background(), "asha@example.com", identity.PurposeEmailVerification))

	// The code is stored and verifiable even when delivery failed.
	code := issuedCode(t, repo, "asha@example.com", identity.PurposeEmailVerification)
	require.NoError(t, svc.Verify(context.Background(), "asha@example.com", identity.PurposeEmailVerification, code))
}

func TestOtpIssueValidation(t *testing.T) {
	svc, _, _ := newOtpFixture()

	var vErr *ValidationError
	err := svc.Issue(context.Background(), "", identity.PurposeEmailVerification)
	require.ErrorAs(t, err, &vErr)

	err = svc.Issue(context.Background(), "asha@example.com", "totp")
	require.ErrorAs(t, err, &vErr)
}
