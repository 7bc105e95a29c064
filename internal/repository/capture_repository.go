// internal/repository/capture_repository.go
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

// captureRepository implements CaptureRepository interface
type captureRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewCaptureRepository creates a new capture repository
func NewCaptureRepository(db *database.DB, logger *zap.Logger) CaptureRepository {
	return &captureRepository{
		db:     db,
		logger: logger,
	}
}

const sessionColumns = `id, instrument_id, mode, status, settings, frame_count,
	   started_at, completed_at, duration_ms, error_message, created_at`

func scanSession(row interface{ Scan(...interface{}) error }) (*model.CaptureSession, error) {
	session := &model.CaptureSession{}
	err := row.Scan(
		&session.ID, &session.InstrumentID, &session.Mode, &session.Status,
		&session.Settings, &session.FrameCount, &session.StartedAt,
		&session.CompletedAt, &session.DurationMs, &session.ErrorMessage,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// CreateSession creates a new capture session
func (r *captureRepository) CreateSession(ctx context.Context, session *model.CaptureSession) error {
	query := `
		INSERT INTO capture_sessions (
			id, instrument_id, mode, status, settings, frame_count, started_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.InstrumentID, session.Mode, session.Status,
		session.Settings, session.FrameCount, session.StartedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create capture session", zap.Error(err))
		return fmt.Errorf("failed to create capture session: %w", err)
	}

	r.logger.Debug("Capture session created",
		zap.String("session_id", session.ID.String()),
		zap.String("mode", string(session.Mode)),
	)
	return nil
}

// GetSession retrieves a capture session by ID
func (r *captureRepository) GetSession(ctx context.Context, id uuid.UUID) (*model.CaptureSession, error) {
	query := fmt.Sprintf(`SELECT %s FROM capture_sessions WHERE id = $1`, sessionColumns)

	session, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("capture session not found with id: %s", id)
		}
		return nil, fmt.Errorf("failed to get capture session: %w", err)
	}

	return session, nil
}

// UpdateSession updates a capture session
func (r *captureRepository) UpdateSession(ctx context.Context, session *model.CaptureSession) error {
	query := `
		UPDATE capture_sessions SET
			status = $2, frame_count = $3, completed_at = $4,
			duration_ms = $5, error_message = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		session.ID, session.Status, session.FrameCount,
		session.CompletedAt, session.DurationMs, session.ErrorMessage,
	)

	if err != nil {
		return fmt.Errorf("failed to update capture session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("capture session not found with id: %s", session.ID)
	}

	return nil
}

// ListSessions retrieves capture sessions with filtering and pagination
func (r *captureRepository) ListSessions(ctx context.Context, filter *CaptureFilter) ([]*model.CaptureSession, int, error) {
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

	if filter.Status != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.StartDate != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("created_at >= $%d", argIndex))
		args = append(args, *filter.StartDate)
		argIndex++
	}

	if filter.EndDate != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("created_at <= $%d", argIndex))
		args = append(args, *filter.EndDate)
		argIndex++
	}

	whereClause := ""
	if len(whereConditions) > 0 {
		whereClause = "WHERE " + strings.Join(whereConditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM capture_sessions %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count capture sessions: %w", err)
	}

	offset := (filter.Page - 1) * filter.PerPage
	query := fmt.Sprintf(`
		SELECT %s
		FROM capture_sessions %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, sessionColumns, whereClause, argIndex, argIndex+1)

	args = append(args, filter.PerPage, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list capture sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*model.CaptureSession{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			r.logger.Error("Failed to scan capture session row", zap.Error(err))
			continue
		}
		sessions = append(sessions, session)
	}

	return sessions, total, nil
}

// DeleteSession removes a capture session and its waveforms
func (r *captureRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM capture_sessions WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete capture session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("capture session not found with id: %s", id)
	}

	return nil
}

// CreateWaveform archives one waveform frame
func (r *captureRepository) CreateWaveform(ctx context.Context, record *model.WaveformRecord) error {
	query := `
		INSERT INTO waveform_records (
			id, session_id, sequence, triggered, ch1_samples, ch2_samples,
			ch1_overrange, ch2_overrange, raw_samples
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.SessionID, record.Sequence, record.Triggered,
		record.Ch1Samples, record.Ch2Samples, record.Ch1Overrange,
		record.Ch2Overrange, record.RawSamples,
	)

	if err != nil {
		r.logger.Error("Failed to create waveform record", zap.Error(err))
		return fmt.Errorf("failed to create waveform record: %w", err)
	}

	return nil
}

// ListWaveforms retrieves waveform frames for a session
func (r *captureRepository) ListWaveforms(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]*model.WaveformRecord, int, error) {
	countQuery := `SELECT COUNT(*) FROM waveform_records WHERE session_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, sessionID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count waveform records: %w", err)
	}

	query := `
		SELECT id, session_id, sequence, triggered, ch1_samples, ch2_samples,
			   ch1_overrange, ch2_overrange, raw_samples, recorded_at
		FROM waveform_records
		WHERE session_id = $1
		ORDER BY sequence ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list waveform records: %w", err)
	}
	defer rows.Close()

	records := []*model.WaveformRecord{}
	for rows.Next() {
		record := &model.WaveformRecord{}
		err := rows.Scan(
			&record.ID, &record.SessionID, &record.Sequence, &record.Triggered,
			&record.Ch1Samples, &record.Ch2Samples, &record.Ch1Overrange,
			&record.Ch2Overrange, &record.RawSamples, &record.RecordedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan waveform record row", zap.Error(err))
			continue
		}
		records = append(records, record)
	}

	return records, total, nil
}

// GetWaveform retrieves one waveform frame by ID
func (r *captureRepository) GetWaveform(ctx context.Context, id uuid.UUID) (*model.WaveformRecord, error) {
	query := `
		SELECT id, session_id, sequence, triggered, ch1_samples, ch2_samples,
			   ch1_overrange, ch2_overrange, raw_samples, recorded_at
		FROM waveform_records
		WHERE id = $1
	`

	record := &model.WaveformRecord{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID, &record.SessionID, &record.Sequence, &record.Triggered,
		&record.Ch1Samples, &record.Ch2Samples, &record.Ch1Overrange,
		&record.Ch2Overrange, &record.RawSamples, &record.RecordedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("waveform record not found with id: %s", id)
		}
		return nil, fmt.Errorf("failed to get waveform record: %w", err)
	}

	return record, nil
}

// DeleteOldSessions removes old capture sessions; waveform records go
// with them through the foreign key cascade
func (r *captureRepository) DeleteOldSessions(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `DELETE FROM capture_sessions WHERE created_at < $1`

	result, err := r.db.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old capture sessions: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	r.logger.Info("Deleted old capture sessions",
		zap.Int64("rows_deleted", rowsAffected),
		zap.Time("older_than", olderThan),
	)

	return rowsAffected, nil
}
