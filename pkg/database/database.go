package database

import (
	"fmt"
	"interview_prep_backend/internal/config"
	"interview_prep_backend/internal/curriculum"
	"interview_prep_backend/internal/model"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, mode string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	logLevel := logger.Warn
	if mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")
	return db, nil
}

// Models 需要迁移的全部模型
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Topic{},
		&model.ProgressRecord{},
		&model.PerformanceTarget{},
		&model.ChatSession{},
		&model.ChatMessage{},
		&model.CodeSubmission{},
		&model.Question{},
	}
}

// Migrate 建表并写入内置课程树
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	log.Println("Database migration completed")

	return SeedCurriculum(db)
}

// SeedCurriculum 写入内置课程树，已存在的主题保持不变
func SeedCurriculum(db *gorm.DB) error {
	roots, err := curriculum.Default()
	if err != nil {
		return err
	}

	topics := curriculum.Flatten(roots)
	return db.Transaction(func(tx *gorm.DB) error {
		for i := range topics {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&topics[i]).Error; err != nil {
				return fmt.Errorf("seed topic %s: %w", topics[i].ID, err)
			}
		}
		return nil
	})
}
