package database

import (
	"bytes"
	"errors"
	"io"

	"github.com/next-levels/go-cms/config"
	"github.com/next-levels/go-cms/database/model"
	"github.com/next-levels/go-cms/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	db     *gorm.DB
	dbPath string
)

func initModels() error {
	models := []any{
		&model.User{},
		&model.PasswordResetToken{},
		&model.Order{},
		&model.AuditLog{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			logger.Errorf("Error auto migrating model %T: %v", m, err)
			return err
		}
	}
	return nil
}

// InitDB opens a sqlite database at path and migrates it.
func InitDB(path string) error {
	return Open(&config.DatabaseConfig{Type: config.DatabaseTypeSQLite, URL: path})
}

// Open connects to the configured database and runs the migrations.
func Open(cfg *config.DatabaseConfig) error {
	if err := cfg.ValidateConfig(); err != nil {
		return err
	}
	if err := cfg.EnsureDirectoryExists(); err != nil {
		return err
	}

	var gormLogger gormlogger.Interface
	if config.IsDebug() {
		gormLogger = gormlogger.Default
	} else {
		gormLogger = gormlogger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	}

	var err error
	if cfg.IsPostgreSQL() {
		db, err = gorm.Open(postgres.Open(cfg.GetDSN()), c)
		if err != nil {
			return err
		}
	} else {
		dbPath = cfg.GetDSN()
		dsn := dbPath + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on"
		db, err = gorm.Open(sqlite.Open(dsn), c)
		if err != nil {
			return err
		}
	}

	return initModels()
}

func CloseDB() error {
	if db == nil {
		return nil
	}
	if IsSQLite() {
		if err := Checkpoint(); err != nil {
			logger.Warning("error executing checkpoint: ", err)
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func GetDB() *gorm.DB {
	return db
}

// IsSQLite reports whether the open connection uses the sqlite driver.
func IsSQLite() bool {
	return db != nil && db.Dialector.Name() == "sqlite"
}

// Path returns the sqlite file of the open connection.
func Path() string {
	return dbPath
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func IsSQLiteDB(file io.ReaderAt) (bool, error) {
	signature := []byte("SQLite format 3\x00")
	buf := make([]byte, len(signature))
	_, err := file.ReadAt(buf, 0)
	if err != nil {
		return false, err
	}
	return bytes.Equal(buf, signature), nil
}

// Checkpoint flushes the sqlite WAL into the main database file.
func Checkpoint() error {
	return db.Exec("PRAGMA wal_checkpoint;").Error
}
