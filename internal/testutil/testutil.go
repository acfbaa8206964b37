// Package testutil 测试用的 SQLite 数据库
package testutil

import (
	"path/filepath"
	"testing"

	"interview_prep_backend/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB 每个测试一个独立的临时库，已迁移并写入内置课程树
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}

	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
