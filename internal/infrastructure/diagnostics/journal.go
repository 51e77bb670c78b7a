// Package diagnostics keeps a local SQLite journal of failed polls and commands.
package diagnostics

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"ticketdash/internal/infrastructure/database"
	"ticketdash/internal/shared/config"
	"ticketdash/internal/shared/errors"
	"ticketdash/internal/shared/logger"
)

// FailureRecord is one journaled failure.
type FailureRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id" yaml:"id"`
	Source     string    `gorm:"size:64;index" json:"source" yaml:"source"`
	Kind       string    `gorm:"size:32" json:"kind" yaml:"kind"`
	Message    string    `gorm:"size:1024" json:"message" yaml:"message"`
	OccurredAt time.Time `gorm:"index" json:"occurredAt" yaml:"occurred_at"`
}

func (FailureRecord) TableName() string {
	return "failure_records"
}

const maxMessageLength = 1024

// Journal writes failures to the diagnostics database.
type Journal struct {
	db     *gorm.DB
	logger logger.Interface
	now    func() time.Time
}

// Open opens the configured database and prepares the journal table.
func Open(cfg *config.DiagnosticsConfig, log logger.Interface) (*Journal, error) {
	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	j, err := NewJournal(db, log)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return j, nil
}

// NewJournal wraps an open database.
func NewJournal(db *gorm.DB, log logger.Interface) (*Journal, error) {
	if err := db.AutoMigrate(&FailureRecord{}); err != nil {
		return nil, fmt.Errorf("migrate failure records: %w", err)
	}
	return &Journal{
		db:     db,
		logger: log.Named("diagnostics"),
		now:    time.Now,
	}, nil
}

// RecordFailure appends a failure. Write errors are logged, never returned, so a
// broken journal cannot take a panel down with it.
func (j *Journal) RecordFailure(source string, err error) {
	if err == nil {
		return
	}
	message := err.Error()
	if appErr := errors.GetAppError(err); appErr != nil {
		message = appErr.Message
		if appErr.Details != "" {
			message += ": " + appErr.Details
		}
	}
	message = truncate(message, maxMessageLength)

	rec := FailureRecord{
		Source:     source,
		Kind:       string(errors.TypeOf(err)),
		Message:    message,
		OccurredAt: j.now().UTC(),
	}
	if dbErr := j.db.Create(&rec).Error; dbErr != nil {
		j.logger.Warnw("failed to journal failure", "source", source, "error", dbErr)
	}
}

// Recent returns up to limit records, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]FailureRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []FailureRecord
	err := j.db.WithContext(ctx).
		Order("occurred_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list failure records: %w", err)
	}
	return records, nil
}

// CountBySource summarises the journal per source.
func (j *Journal) CountBySource(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Source string
		Total  int64
	}
	err := j.db.WithContext(ctx).
		Model(&FailureRecord{}).
		Select("source, COUNT(*) AS total").
		Group("source").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count failure records: %w", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Source] = row.Total
	}
	return counts, nil
}

// Prune deletes records older than retention and reports how many went.
func (j *Journal) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	cutoff := j.now().UTC().Add(-retention)
	result := j.db.WithContext(ctx).Where("occurred_at < ?", cutoff).Delete(&FailureRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("prune failure records: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return database.Close(j.db)
}

// Nop discards failures. It is used when diagnostics are disabled.
type Nop struct{}

func (Nop) RecordFailure(string, error) {}

// truncate cuts s to at most limit bytes without splitting a UTF-8 sequence.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
