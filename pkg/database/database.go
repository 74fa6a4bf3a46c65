package database

import (
	"fmt"
	"log"

	"sabdakrida_backend/internal/config"
	"sabdakrida_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		dialector = mysql.Open(dsn)
	default:
		path := cfg.Path
		if path == "" {
			path = "sabdakrida.db"
		}
		dialector = sqlite.Open(path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database connection established")
	return db, nil
}

// Migrate creates the learner-facing tables. Profiles are whole-row
// JSON documents; the phoneme error table is the only relational one.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.LearnerProfileRecord{},
		&model.TutorProgressRecord{},
		&model.PhonemeError{},
		&model.PronunciationScore{},
	)
}
