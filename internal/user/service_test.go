package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookseller/internal/entity"
	"bookseller/internal/platform/crypto"
)

const testSecret = "test-secret"

func TestService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	svc := NewService(repo, testSecret, time.Hour)

	repo.EXPECT().GetByUserName(gomock.Any(), "alice").Return(entity.User{}, ErrNotFound)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *entity.User) error {
		assert.Equal(t, "alice", u.UserName)
		assert.True(t, VerifyPassword(u.PasswordHash, "Password1!"))
		u.ID = 1
		return nil
	})

	tok, err := svc.Register(context.Background(), Credentials{UserName: "alice", Password: "Password1!"})
	require.NoError(t, err)

	claims, err := crypto.ParseToken(testSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
}

func TestService_RegisterRejects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	svc := NewService(repo, testSecret, time.Hour)

	t.Run("short user name", func(t *testing.T) {
		_, err := svc.Register(context.Background(), Credentials{UserName: "al", Password: "Password1!"})
		verrs, ok := entity.AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "userName", verrs[0].Field)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := svc.Register(context.Background(), Credentials{UserName: "alice", Password: "password"})
		verrs, ok := entity.AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "password", verrs[0].Field)
		assert.Equal(t, ErrPasswordNoUpper.Error(), verrs[0].Message)
	})

	t.Run("taken", func(t *testing.T) {
		repo.EXPECT().GetByUserName(gomock.Any(), "bob").Return(entity.User{UserName: "bob"}, nil)
		_, err := svc.Register(context.Background(), Credentials{UserName: "bob", Password: "Password1!"})
		assert.ErrorIs(t, err, ErrUserNameTaken)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo.EXPECT().GetByUserName(gomock.Any(), "carol").Return(entity.User{}, errors.New("db down"))
		_, err := svc.Register(context.Background(), Credentials{UserName: "carol", Password: "Password1!"})
		assert.EqualError(t, err, "db down")
	})
}

func TestService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	svc := NewService(repo, testSecret, time.Hour)

	hash, err := HashPassword("Password1!")
	require.NoError(t, err)
	stored := entity.User{ID: 1, UserName: "alice", PasswordHash: hash}

	repo.EXPECT().GetByUserName(gomock.Any(), "alice").Return(stored, nil).Times(2)
	repo.EXPECT().GetByUserName(gomock.Any(), "nobody").Return(entity.User{}, ErrNotFound)

	tok, err := svc.Login(context.Background(), Credentials{UserName: "alice", Password: "Password1!"})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.True(t, tok.Expiration.After(time.Now()))

	_, err = svc.Login(context.Background(), Credentials{UserName: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), Credentials{UserName: "nobody", Password: "Password1!"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"Test123!@#", nil},
		{"SecureP@ss1", nil},
		{"Test1!", ErrPasswordTooShort},
		{"test123!@#", ErrPasswordNoUpper},
		{"TEST123!@#", ErrPasswordNoLower},
		{"TestPass!@#", ErrPasswordNoNumber},
		{"TestPass123", ErrPasswordNoSpecialChar},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePasswordStrength(tt.password))
		})
	}
}

func TestMemoryRepo(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	u := &entity.User{UserName: "alice", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, int64(1), u.ID)
	assert.ErrorIs(t, repo.Create(ctx, &entity.User{UserName: "alice"}), ErrUserNameTaken)

	got, err := repo.GetByUserName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h", got.PasswordHash)

	_, err = repo.GetByUserName(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}
