// internal/repository/reading_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scope-service/internal/database"
	"scope-service/internal/model"
)

// readingRepository implements ReadingRepository interface
type readingRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewReadingRepository creates a new meter reading repository
func NewReadingRepository(db *database.DB, logger *zap.Logger) ReadingRepository {
	return &readingRepository{
		db:     db,
		logger: logger,
	}
}

// Create archives one multimeter reading
func (r *readingRepository) Create(ctx context.Context, reading *model.MeterReading) error {
	query := `
		INSERT INTO meter_readings (
			id, instrument_id, mode, value, unit, overload
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		reading.ID, reading.InstrumentID, reading.Mode,
		reading.Value, reading.Unit, reading.Overload,
	)

	if err != nil {
		r.logger.Error("Failed to create meter reading", zap.Error(err))
		return fmt.Errorf("failed to create meter reading: %w", err)
	}

	return nil
}

// List retrieves meter readings with filtering and pagination
func (r *readingRepository) List(ctx context.Context, filter *ReadingFilter) ([]*model.MeterReading, int, error) {
	whereConditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.InstrumentID != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("instrument_id = $%d", argIndex))
		args = append(args, *filter.InstrumentID)
		argIndex++
	}

	if filter.Mode != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("mode = $%d", argIndex))
		args = append(args, *filter.Mode)
		argIndex++
	}

	if filter.StartDate != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("recorded_at >= $%d", argIndex))
		args = append(args, *filter.StartDate)
		argIndex++
	}

	if filter.EndDate != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("recorded_at <= $%d", argIndex))
		args = append(args, *filter.EndDate)
		argIndex++
	}

	whereClause := ""
	if len(whereConditions) > 0 {
		whereClause = "WHERE " + strings.Join(whereConditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM meter_readings %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count meter readings: %w", err)
	}

	offset := (filter.Page - 1) * filter.PerPage
	query := fmt.Sprintf(`
		SELECT id, instrument_id, mode, value, unit, overload, recorded_at
		FROM meter_readings %s
		ORDER BY recorded_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)

	args = append(args, filter.PerPage, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list meter readings: %w", err)
	}
	defer rows.Close()

	readings := []*model.MeterReading{}
	for rows.Next() {
		reading := &model.MeterReading{}
		err := rows.Scan(
			&reading.ID, &reading.InstrumentID, &reading.Mode,
			&reading.Value, &reading.Unit, &reading.Overload, &reading.RecordedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan meter reading row", zap.Error(err))
			continue
		}
		readings = append(readings, reading)
	}

	return readings, total, nil
}

// GetLatest retrieves the most recent reading for an instrument and mode
func (r *readingRepository) GetLatest(ctx context.Context, instrumentID uuid.UUID, mode model.MeterMode) (*model.MeterReading, error) {
	query := `
		SELECT id, instrument_id, mode, value, unit, overload, recorded_at
		FROM meter_readings
		WHERE instrument_id = $1 AND mode = $2
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	reading := &model.MeterReading{}
	err := r.db.QueryRowContext(ctx, query, instrumentID, mode).Scan(
		&reading.ID, &reading.InstrumentID, &reading.Mode,
		&reading.Value, &reading.Unit, &reading.Overload, &reading.RecordedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no %s reading found for instrument: %s", mode, instrumentID)
		}
		return nil, fmt.Errorf("failed to get latest meter reading: %w", err)
	}

	return reading, nil
}

// DeleteOldReadings removes old meter readings
func (r *readingRepository) DeleteOldReadings(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `DELETE FROM meter_readings WHERE recorded_at < $1`

	result, err := r.db.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old meter readings: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	r.logger.Info("Deleted old meter readings",
		zap.Int64("rows_deleted", rowsAffected),
		zap.Time("older_than", olderThan),
	)

	return rowsAffected, nil
}
