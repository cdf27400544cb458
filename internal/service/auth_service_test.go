package service

import (
	"context"
	"testing"
	"time"

	"vidtube-go/internal/api/dto"
	infraMinio "vidtube-go/internal/infra/minio"
	"vidtube-go/internal/model"
	"vidtube-go/internal/repository"
	"vidtube-go/internal/testutil"
	"vidtube-go/pkg/errcode"
	"vidtube-go/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestTokens() *utils.TokenManager {
	return utils.NewTokenManager("vidtube-test", "access-secret", 15*time.Minute, "refresh-secret", 24*time.Hour)
}

func setupAuth(t *testing.T) (*AuthService, *gorm.DB, *fakeStorage) {
	db := testutil.NewDB(t)
	storage := &fakeStorage{}
	svc := NewAuthService(repository.NewUserRepository(db), storage, newTestTokens())
	return svc, db, storage
}

func registerUser(t *testing.T, svc *AuthService, username string) *dto.UserInfo {
	t.Helper()
	info, err := svc.Register(context.Background(), &dto.RegisterRequest{
		RegisterForm: dto.RegisterForm{
			FullName: "Full " + username,
			Email:    username + "@example.com",
			Username: username,
			Password: "secret123",
		},
		AvatarPath: tempFile(t, "avatar.png"),
	})
	require.NoError(t, err)
	return info
}

func TestRegisterUploadsAndNormalizes(t *testing.T) {
	svc, db, storage := setupAuth(t)

	avatar := tempFile(t, "avatar.png")
	cover := tempFile(t, "cover.jpg")
	info, err := svc.Register(context.Background(), &dto.RegisterRequest{
		RegisterForm: dto.RegisterForm{
			FullName: "  Alice Doe ",
			Email:    "Alice@Example.com",
			Username: " Alice ",
			Password: "secret123",
		},
		AvatarPath: avatar,
		CoverPath:  cover,
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", info.Username)
	assert.Equal(t, "alice@example.com", info.Email)
	assert.Equal(t, "Alice Doe", info.FullName)
	assert.Contains(t, info.Avatar, infraMinio.KindAvatar)
	assert.Contains(t, info.CoverImage, infraMinio.KindCover)
	assert.Len(t, storage.uploaded, 2)
	assertRemoved(t, avatar, cover)

	var stored model.User
	require.NoError(t, db.First(&stored, info.ID).Error)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.True(t, utils.VerifyPassword("secret123", stored.Password))
}

func TestRegisterValidation(t *testing.T) {
	svc, _, storage := setupAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		RegisterForm: dto.RegisterForm{FullName: " ", Email: "a@example.com", Username: "a", Password: "x"},
		AvatarPath:   tempFile(t, "a.png"),
	})
	assert.ErrorIs(t, err, ErrRegisterFieldsRequired)
	assert.Equal(t, []string{"fullName is required"}, errcode.From(err).Errors)

	_, err = svc.Register(ctx, &dto.RegisterRequest{
		RegisterForm: dto.RegisterForm{FullName: "A", Email: "a@example.com", Username: "a", Password: "x"},
	})
	assert.ErrorIs(t, err, ErrAvatarRequired)
	assert.Empty(t, storage.uploaded)
}

func TestRegisterConflict(t *testing.T) {
	svc, _, storage := setupAuth(t)
	registerUser(t, svc, "bob")

	avatar := tempFile(t, "avatar.png")
	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		RegisterForm: dto.RegisterForm{FullName: "Other", Email: "other@example.com", Username: "BOB", Password: "pw"},
		AvatarPath:   avatar,
	})
	assert.ErrorIs(t, err, ErrUserExists)
	assert.Equal(t, errcode.KindConflict, errcode.KindOf(err))
	assert.Len(t, storage.uploaded, 1)
	assertRemoved(t, avatar)
}

func TestRegisterRemovesSiblingUploadOnFailure(t *testing.T) {
	svc, db, storage := setupAuth(t)
	storage.failKind = infraMinio.KindCover

	avatar := tempFile(t, "avatar.png")
	cover := tempFile(t, "cover.png")
	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		RegisterForm: dto.RegisterForm{FullName: "C", Email: "c@example.com", Username: "carol", Password: "pw"},
		AvatarPath:   avatar,
		CoverPath:    cover,
	})
	assert.ErrorIs(t, err, ErrMediaUpload)
	assert.Equal(t, errcode.KindUpstream, errcode.KindOf(err))
	assert.ElementsMatch(t, storage.uploaded, storage.removed)
	assertRemoved(t, avatar, cover)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLoginUnifiedFailure(t *testing.T) {
	svc, _, _ := setupAuth(t)
	registerUser(t, svc, "dave")
	ctx := context.Background()

	_, err := svc.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "dave", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.Login(ctx, &dto.LoginRequest{Password: "secret123"})
	assert.ErrorIs(t, err, ErrLoginIDRequired)

	data, err := svc.Login(ctx, &dto.LoginRequest{Email: "DAVE@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "dave", data.User.Username)
	assert.NotEmpty(t, data.AccessToken)
	assert.NotEmpty(t, data.RefreshToken)
}

func TestSessionLifecycle(t *testing.T) {
	svc, _, _ := setupAuth(t)
	user := registerUser(t, svc, "erin")
	ctx := context.Background()

	first, err := svc.Login(ctx, &dto.LoginRequest{Username: "erin", Password: "secret123"})
	require.NoError(t, err)

	uid, err := svc.Authenticate(first.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, uid)

	// 刷新令牌不能当作访问令牌使用
	_, err = svc.Authenticate(first.RefreshToken)
	assert.Error(t, err)

	rotated, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, rotated.RefreshToken)

	// 轮换后旧令牌失效
	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	require.NoError(t, svc.Logout(ctx, user.ID))
	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	_, err = svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}
