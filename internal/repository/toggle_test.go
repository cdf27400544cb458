package repository

import (
	"context"
	"errors"
	"testing"

	"vidtube-go/internal/infra/database"
	"vidtube-go/internal/model"
	"vidtube-go/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), database.GormConfig())
	require.NoError(t, err)

	return gormDB, mock
}

func TestToggleParity(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner")
	fan := testutil.CreateUser(t, db, "fan")
	video := testutil.CreateVideo(t, db, owner, "intro")

	for n := 1; n <= 5; n++ {
		on, err := repo.ToggleVideo(ctx, fan.ID, video.ID)
		require.NoError(t, err)
		assert.Equal(t, n%2 == 1, on, "after %d toggles", n)

		var count int64
		require.NoError(t, db.Model(&model.Like{}).Where("liked_by = ? AND video_id = ?", fan.ID, video.ID).Count(&count).Error)
		assert.Equal(t, int64(n%2), count)
	}
}

func TestToggleKindsAreIndependent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "u")

	// 同一个数字 ID 在不同目标类型上互不影响
	on, err := repo.ToggleVideo(ctx, u.ID, 1)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = repo.ToggleComment(ctx, u.ID, 1)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = repo.ToggleTweet(ctx, u.ID, 1)
	require.NoError(t, err)
	assert.True(t, on)

	var count int64
	require.NoError(t, db.Model(&model.Like{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestSubscriptionToggleAllowsSelf(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "me")

	on, err := repo.Toggle(ctx, u.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, on)

	exists, err := repo.Exists(ctx, u.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	on, err = repo.Toggle(ctx, u.ID, u.ID)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestToggleRetriesAfterConcurrentInsert(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)

	// 第一次：没有可删除的行，插入时撞上并发写入的唯一索引
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "likes" WHERE liked_by = \$1 AND video_id = \$2`).
		WithArgs(int64(7), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "likes"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	// 第二次：并发插入的那一行被删除，结果为取消点赞
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "likes" WHERE liked_by = \$1 AND video_id = \$2`).
		WithArgs(int64(7), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	on, err := repo.ToggleVideo(context.Background(), 7, 9)
	require.NoError(t, err)
	assert.False(t, on)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleGivesUpAfterMaxAttempts(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSubscriptionRepository(db)

	for i := 0; i < maxToggleAttempts; i++ {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "subscriptions"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`INSERT INTO "subscriptions"`).WillReturnError(&pgconn.PgError{Code: "23505"})
		mock.ExpectRollback()
	}

	_, err := repo.Toggle(context.Background(), 1, 2)
	assert.True(t, errors.Is(err, ErrToggleContention))
	assert.NoError(t, mock.ExpectationsWereMet())
}
