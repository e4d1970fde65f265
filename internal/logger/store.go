package logger

import (
	"context"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/yanun0323/errors"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"main/pkg/exception"
)

// LogEntry is one append-only row in the durable log store.
// Rows are never updated or deleted by this package.
type LogEntry struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Timestamp time.Time `gorm:"index"`
	Message   string
}

// TableName keeps the original table name.
func (LogEntry) TableName() string {
	return "logs"
}

// Store persists log entries through gorm. Any dialector works; the
// toolkit ships SQLite as the default and Postgres through pkg/conn.
type Store struct {
	db *gorm.DB
}

// OpenStore opens (and migrates) a SQLite-backed store at path.
func OpenStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite log store")
	}

	return NewStore(db)
}

// NewStore wraps an existing gorm connection and migrates the schema.
func NewStore(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, exception.ErrNilInstance
	}

	if err := db.AutoMigrate(&LogEntry{}); err != nil {
		return nil, errors.Wrap(err, "migrate log store")
	}

	return &Store{db: db}, nil
}

// Append writes one row. The write is visible to subsequent reads.
func (s *Store) Append(entry LogEntry) error {
	if s == nil || s.db == nil {
		return nil
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return errors.Wrap(err, "append log entry")
	}

	return nil
}

// FetchAll returns every row, newest first. Equal timestamps fall back
// to id order so "newest first" stays stable.
func (s *Store) FetchAll(ctx context.Context) ([]LogEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}

	var entries []LogEntry
	if err := s.db.WithContext(ctx).
		Order("timestamp DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, errors.Wrap(err, "fetch log entries")
	}

	return entries, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
