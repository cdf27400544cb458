package service

import (
	"context"
	"testing"

	"vidtube-go/internal/api/dto"
	"vidtube-go/internal/repository"
	"vidtube-go/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAccountUpdates(t *testing.T) {
	db := testutil.NewDB(t)
	storage := &fakeStorage{}
	userRepo := repository.NewUserRepository(db)
	auth := NewAuthService(userRepo, storage, newTestTokens())
	users := NewUserService(userRepo, repository.NewChannelRepository(db), storage)
	ctx := context.Background()

	frank := registerUser(t, auth, "frank")
	registerUser(t, auth, "grace")

	_, err := users.UpdateAccount(ctx, frank.ID, &dto.UpdateAccountRequest{})
	assert.ErrorIs(t, err, ErrNoFieldsToUpdate)

	_, err = users.UpdateAccount(ctx, frank.ID, &dto.UpdateAccountRequest{FullName: strPtr("   ")})
	assert.ErrorIs(t, err, ErrFullNameRequired)

	_, err = users.UpdateAccount(ctx, frank.ID, &dto.UpdateAccountRequest{Email: strPtr("Grace@example.com")})
	assert.ErrorIs(t, err, ErrEmailTaken)

	info, err := users.UpdateAccount(ctx, frank.ID, &dto.UpdateAccountRequest{
		FullName: strPtr(" Frank F "),
		Email:    strPtr("frank@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Frank F", info.FullName)

	err = users.ChangePassword(ctx, frank.ID, &dto.ChangePasswordRequest{OldPassword: "nope", NewPassword: "newsecret"})
	assert.ErrorIs(t, err, ErrWrongOldPassword)

	require.NoError(t, users.ChangePassword(ctx, frank.ID, &dto.ChangePasswordRequest{OldPassword: "secret123", NewPassword: "newsecret"}))
	_, err = auth.Login(ctx, &dto.LoginRequest{Username: "frank", Password: "newsecret"})
	assert.NoError(t, err)
}

func TestReplaceAvatarRemovesPreviousObject(t *testing.T) {
	db := testutil.NewDB(t)
	storage := &fakeStorage{}
	userRepo := repository.NewUserRepository(db)
	auth := NewAuthService(userRepo, storage, newTestTokens())
	users := NewUserService(userRepo, repository.NewChannelRepository(db), storage)
	ctx := context.Background()

	u := registerUser(t, auth, "henry")
	oldObject := storage.uploaded[0]

	file := tempFile(t, "new.png")
	info, err := users.UpdateAvatar(ctx, u.ID, file)
	require.NoError(t, err)
	assert.NotEqual(t, u.Avatar, info.Avatar)
	assert.Equal(t, []string{oldObject}, storage.removed)
	assertRemoved(t, file)

	_, err = users.UpdateCoverImage(ctx, u.ID, "")
	assert.ErrorIs(t, err, ErrImageRequired)
}

func TestChannelProfileAndHistory(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserService(repository.NewUserRepository(db), repository.NewChannelRepository(db), &fakeStorage{})
	videos := NewVideoService(repository.NewVideoRepository(db), repository.NewChannelRepository(db), &fakeStorage{}, nil, nil, nil)
	ctx := context.Background()

	creator := testutil.CreateUser(t, db, "creator")
	fan := testutil.CreateUser(t, db, "fan")
	testutil.Subscribe(t, db, fan, creator)
	v := testutil.CreateVideo(t, db, creator, "clip")

	profile, err := users.GetChannelProfile(ctx, fan.ID, "CREATOR")
	require.NoError(t, err)
	assert.True(t, profile.IsSubscribed)
	assert.Equal(t, int64(1), profile.SubscribersCount)

	profile, err = users.GetChannelProfile(ctx, 0, "creator")
	require.NoError(t, err)
	assert.False(t, profile.IsSubscribed)

	_, err = users.GetChannelProfile(ctx, 0, "ghost")
	assert.ErrorIs(t, err, ErrChannelNotFound)

	history, err := users.GetWatchHistory(ctx, fan.ID)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)

	_, err = videos.Get(ctx, fan.ID, v.ID)
	require.NoError(t, err)

	history, err = users.GetWatchHistory(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, v.ID, history[0].ID)
	assert.Equal(t, "creator", history[0].Owner.Username)
}
