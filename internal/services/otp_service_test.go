package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/eduauthsvc/domain"
	"github.com/you/eduauthsvc/internal/mocks"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

func TestOTPService_Issue(t *testing.T) {
	t.Run("stores a hashed record and returns the plaintext", func(t *testing.T) {
		otpRepo := mocks.NewMockOTPRepository()
		hasher := mocks.NewMockHasher()

		var stored *domain.OneTimeCode
		otpRepo.CreateFunc = func(ctx context.Context, code *domain.OneTimeCode) error {
			stored = code
			return nil
		}

		svc := NewOTPService(otpRepo, hasher, nil, OTPConfig{Length: 6, TTL: 10 * time.Minute})

		before := time.Now()
		code, err := svc.Issue(context.Background(), 7, "bob@example.com")

		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "code should be digits, got %q", code)
		}

		require.NotNil(t, stored)
		assert.Equal(t, "bob@example.com", stored.Email)
		assert.Equal(t, uint(7), stored.UserID)
		assert.Equal(t, "hashed:"+code, stored.CodeHash)
		assert.False(t, stored.Used)
		assert.WithinDuration(t, before.Add(10*time.Minute), stored.ExpiresAt, 2*time.Second)
	})

	t.Run("throttles a second issue inside the resend window", func(t *testing.T) {
		rdb, _ := newTestRedis(t)
		svc := NewOTPService(mocks.NewMockOTPRepository(), mocks.NewMockHasher(), rdb, OTPConfig{
			Length:       6,
			TTL:          10 * time.Minute,
			ResendWindow: time.Minute,
		})

		_, err := svc.Issue(context.Background(), 7, "bob@example.com")
		require.NoError(t, err)

		_, err = svc.Issue(context.Background(), 7, "bob@example.com")
		assert.ErrorIs(t, err, domain.ErrOTPResendLimit)
	})

	t.Run("allows a new issue after the window elapses", func(t *testing.T) {
		rdb, mr := newTestRedis(t)
		svc := NewOTPService(mocks.NewMockOTPRepository(), mocks.NewMockHasher(), rdb, OTPConfig{
			Length:       6,
			TTL:          10 * time.Minute,
			ResendWindow: time.Minute,
		})

		_, err := svc.Issue(context.Background(), 7, "bob@example.com")
		require.NoError(t, err)

		mr.FastForward(61 * time.Second)

		_, err = svc.Issue(context.Background(), 7, "bob@example.com")
		assert.NoError(t, err)
	})

	t.Run("throttle is scoped per email", func(t *testing.T) {
		rdb, _ := newTestRedis(t)
		svc := NewOTPService(mocks.NewMockOTPRepository(), mocks.NewMockHasher(), rdb, OTPConfig{
			Length:       6,
			TTL:          10 * time.Minute,
			ResendWindow: time.Minute,
		})

		_, err := svc.Issue(context.Background(), 7, "bob@example.com")
		require.NoError(t, err)

		_, err = svc.Issue(context.Background(), 8, "carol@example.com")
		assert.NoError(t, err)
	})

	t.Run("works without redis", func(t *testing.T) {
		svc := NewOTPService(mocks.NewMockOTPRepository(), mocks.NewMockHasher(), nil, OTPConfig{
			Length:       6,
			TTL:          10 * time.Minute,
			ResendWindow: time.Minute,
		})

		_, err := svc.Issue(context.Background(), 7, "bob@example.com")
		require.NoError(t, err)
		_, err = svc.Issue(context.Background(), 7, "bob@example.com")
		assert.NoError(t, err)
	})
}

func TestOTPService_Verify(t *testing.T) {
	record := func() *domain.OneTimeCode {
		return &domain.OneTimeCode{
			ID:        3,
			Email:     "bob@example.com",
			UserID:    7,
			CodeHash:  "hashed:654321",
			ExpiresAt: time.Now().Add(10 * time.Minute),
		}
	}

	t.Run("consumes a matching code", func(t *testing.T) {
		otpRepo := mocks.NewMockOTPRepository()
		otpRepo.FindActiveFunc = func(ctx context.Context, email string) (*domain.OneTimeCode, error) {
			return record(), nil
		}

		var consumed uint
		otpRepo.ConsumeFunc = func(ctx context.Context, id uint) error {
			consumed = id
			return nil
		}

		svc := NewOTPService(otpRepo, mocks.NewMockHasher(), nil, OTPConfig{})

		err := svc.Verify(context.Background(), "bob@example.com", "654321")

		require.NoError(t, err)
		assert.Equal(t, uint(3), consumed)
	})

	t.Run("a mismatch does not consume the record", func(t *testing.T) {
		otpRepo := mocks.NewMockOTPRepository()
		otpRepo.FindActiveFunc = func(ctx context.Context, email string) (*domain.OneTimeCode, error) {
			return record(), nil
		}

		consumeCalled := false
		otpRepo.ConsumeFunc = func(ctx context.Context, id uint) error {
			consumeCalled = true
			return nil
		}

		svc := NewOTPService(otpRepo, mocks.NewMockHasher(), nil, OTPConfig{})

		err := svc.Verify(context.Background(), "bob@example.com", "000000")

		assert.ErrorIs(t, err, domain.ErrOTPInvalid)
		assert.False(t, consumeCalled)
	})

	t.Run("no active record", func(t *testing.T) {
		svc := NewOTPService(mocks.NewMockOTPRepository(), mocks.NewMockHasher(), nil, OTPConfig{})

		err := svc.Verify(context.Background(), "bob@example.com", "654321")
		assert.ErrorIs(t, err, domain.ErrOTPNotFound)
	})

	t.Run("a lost consume race surfaces as invalid", func(t *testing.T) {
		otpRepo := mocks.NewMockOTPRepository()
		otpRepo.FindActiveFunc = func(ctx context.Context, email string) (*domain.OneTimeCode, error) {
			return record(), nil
		}
		otpRepo.ConsumeFunc = func(ctx context.Context, id uint) error {
			return domain.ErrOTPInvalid
		}

		svc := NewOTPService(otpRepo, mocks.NewMockHasher(), nil, OTPConfig{})

		err := svc.Verify(context.Background(), "bob@example.com", "654321")
		assert.ErrorIs(t, err, domain.ErrOTPInvalid)
	})
}

func TestOTPService_CanResend(t *testing.T) {
	t.Run("reports the remaining wait", func(t *testing.T) {
		rdb, _ := newTestRedis(t)
		svc := NewOTPService(mocks.NewMockOTPRepository(), mocks.NewMockHasher(), rdb, OTPConfig{
			ResendWindow: time.Minute,
		})

		_, err := svc.Issue(context.Background(), 7, "bob@example.com")
		require.NoError(t, err)

		ok, wait, err := svc.CanResend(context.Background(), "bob@example.com")

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Greater(t, wait, int64(0))
	})

	t.Run("unknown email can always send", func(t *testing.T) {
		rdb, _ := newTestRedis(t)
		svc := NewOTPService(mocks.NewMockOTPRepository(), mocks.NewMockHasher(), rdb, OTPConfig{
			ResendWindow: time.Minute,
		})

		ok, wait, err := svc.CanResend(context.Background(), "nobody@example.com")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Zero(t, wait)
	})
}
