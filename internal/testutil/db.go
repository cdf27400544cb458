// Package testutil 测试用的内存数据库与数据构造
package testutil

import (
	"fmt"
	"testing"

	"vidtube-go/internal/infra/database"
	"vidtube-go/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB 每个测试独立的 SQLite 内存库，已迁移全部模型
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// 内存库按连接隔离，只保留一个连接
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// CreateUser 以用户名派生其余字段
func CreateUser(t testing.TB, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: "Full " + username,
		Avatar:   "http://media.test/avatars/" + username + ".png",
		Password: "not-a-real-hash",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// CreateVideo 创建已公开的视频
func CreateVideo(t testing.TB, db *gorm.DB, owner *model.User, title string) *model.Video {
	t.Helper()
	v := &model.Video{
		OwnerID:     owner.ID,
		Title:       title,
		Description: "about " + title,
		VideoFile:   fmt.Sprintf("http://media.test/videos/%s.mp4", title),
		Thumbnail:   fmt.Sprintf("http://media.test/thumbnails/%s.png", title),
		Duration:    60,
		IsPublished: true,
	}
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create video %s: %v", title, err)
	}
	return v
}

// Subscribe 直接写入订阅边
func Subscribe(t testing.TB, db *gorm.DB, subscriber, channel *model.User) {
	t.Helper()
	if err := db.Create(&model.Subscription{SubscriberID: subscriber.ID, ChannelID: channel.ID}).Error; err != nil {
		t.Fatalf("subscribe %d -> %d: %v", subscriber.ID, channel.ID, err)
	}
}
