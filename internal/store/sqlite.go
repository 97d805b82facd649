package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/campuslife/campus-climate/internal/climate"
)

// SQLiteStore is the durable climate.Store, backed by gorm over sqlite.
// Each tick is persisted in one transaction so a crash mid-tick leaves no
// partial state behind.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the database at path and migrates the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := db.AutoMigrate(&climate.Reading{}, &climate.DailyRecord{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// AppendReading inserts a new reading row.
func (s *SQLiteStore) AppendReading(r climate.Reading) error {
	return s.db.Create(&r).Error
}

// LatestReading returns the most recent reading by timestamp.
func (s *SQLiteStore) LatestReading() (climate.Reading, error) {
	var r climate.Reading
	err := s.db.Order("timestamp DESC").First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return climate.Reading{}, climate.ErrNotFound
	}
	if err != nil {
		return climate.Reading{}, err
	}
	return r, nil
}

// ReadingsBetween returns readings in [from, to], oldest first.
func (s *SQLiteStore) ReadingsBetween(from, to time.Time) ([]climate.Reading, error) {
	var readings []climate.Reading
	err := s.db.
		Where("timestamp >= ? AND timestamp <= ?", from, to).
		Order("timestamp ASC").
		Find(&readings).Error
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, climate.ErrNotFound
	}
	return readings, nil
}

// PruneReadingsBefore deletes readings older than cutoff and reports how many.
func (s *SQLiteStore) PruneReadingsBefore(cutoff time.Time) (int, error) {
	res := s.db.Where("timestamp < ?", cutoff).Delete(&climate.Reading{})
	return int(res.RowsAffected), res.Error
}

// DailyRecord returns the record for the given campus date.
func (s *SQLiteStore) DailyRecord(date time.Time) (climate.DailyRecord, error) {
	var rec climate.DailyRecord
	err := s.db.Where("campus_date = ?", date).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return climate.DailyRecord{}, climate.ErrNotFound
	}
	if err != nil {
		return climate.DailyRecord{}, err
	}
	return rec, nil
}

// UpsertDaily inserts the record or updates the existing row for its date.
func (s *SQLiteStore) UpsertDaily(rec climate.DailyRecord) error {
	return upsertDaily(s.db, rec)
}

// RecentDaily returns records for campus days on/after since, oldest first.
// No rows is not an error; callers treat empty history as a neutral baseline.
func (s *SQLiteStore) RecentDaily(since time.Time) ([]climate.DailyRecord, error) {
	var recs []climate.DailyRecord
	err := s.db.
		Where("campus_date >= ?", since).
		Order("campus_date ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// SaveTick appends the reading and upserts the daily record in a single
// transaction.
func (s *SQLiteStore) SaveTick(r climate.Reading, rec climate.DailyRecord) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&r).Error; err != nil {
			return err
		}
		return upsertDaily(tx, rec)
	})
}

func upsertDaily(db *gorm.DB, rec climate.DailyRecord) error {
	// Let the campus_date unique index drive conflict resolution, not a
	// carried-over primary key from an earlier read.
	rec.ID = 0
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "campus_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_post_count", "average_hourly_post_count"}),
	}).Create(&rec).Error
}
