package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"gymku_backend/internals/configs"
)

var DB *gorm.DB

// GormConfig dipakai bersama oleh koneksi postgres & sqlite (test).
func GormConfig(debug bool) *gorm.Config {
	return &gorm.Config{
		Logger:                                   configs.NewGormLogger(debug),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc:                                  func() time.Time { return time.Now().UTC() },
	}
}

func ConnectDB(cfg *configs.Config) (*gorm.DB, error) {
	log.Info().Str("host", cfg.DB.Host).Str("db", cfg.DB.Name).Msg("🔌 Koneksi ke PostgreSQL...")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DB.DSN(),
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), GormConfig(cfg.AppDebug))
	if err != nil {
		return nil, fmt.Errorf("gagal konek DB: %w", err)
	}
	DB = db
	log.Info().Msg("✅ DB connected.")
	return db, nil
}

func TunePool(db *gorm.DB, cfg configs.DBConfig) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error().Err(err).Msg("pool tune err")
		return
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// WarmUp ping ringan supaya pool terisi sebelum request pertama.
func WarmUp(db *gorm.DB) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(db); err != nil {
			log.Warn().Err(err).Msg("warm-up ping err")
		}
	}()
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
