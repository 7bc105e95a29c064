// internal/repository/instrument_repository.go
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

// instrumentRepository implements InstrumentRepository interface
type instrumentRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewInstrumentRepository creates a new instrument repository
func NewInstrumentRepository(db *database.DB, logger *zap.Logger) InstrumentRepository {
	return &instrumentRepository{
		db:     db,
		logger: logger,
	}
}

const instrumentColumns = `id, instrument_id, instrument_type, brand, model, serial_number,
	   firmware_version, connection_type, connection_config, capabilities,
	   location, status, last_ping, error_info, performance_metrics,
	   created_at, updated_at`

func scanInstrument(row interface{ Scan(...interface{}) error }) (*model.Instrument, error) {
	inst := &model.Instrument{}
	err := row.Scan(
		&inst.ID, &inst.InstrumentID, &inst.InstrumentType, &inst.Brand,
		&inst.Model, &inst.SerialNumber, &inst.FirmwareVersion,
		&inst.ConnectionType, &inst.ConnectionConfig, &inst.Capabilities,
		&inst.Location, &inst.Status, &inst.LastPing, &inst.ErrorInfo,
		&inst.PerformanceMetrics, &inst.CreatedAt, &inst.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// Create creates a new instrument
func (r *instrumentRepository) Create(ctx context.Context, inst *model.Instrument) error {
	query := `
		INSERT INTO instruments (
			id, instrument_id, instrument_type, brand, model, serial_number,
			firmware_version, connection_type, connection_config, capabilities,
			location, status, error_info, performance_metrics
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.ExecContext(ctx, query,
		inst.ID, inst.InstrumentID, inst.InstrumentType, inst.Brand,
		inst.Model, inst.SerialNumber, inst.FirmwareVersion,
		inst.ConnectionType, inst.ConnectionConfig, inst.Capabilities,
		inst.Location, inst.Status, inst.ErrorInfo, inst.PerformanceMetrics,
	)

	if err != nil {
		r.logger.Error("Failed to create instrument", zap.Error(err), zap.String("instrument_id", inst.InstrumentID))
		return fmt.Errorf("failed to create instrument: %w", err)
	}

	r.logger.Info("Instrument created successfully", zap.String("instrument_id", inst.InstrumentID))
	return nil
}

// GetByID retrieves an instrument by its UUID
func (r *instrumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Instrument, error) {
	query := fmt.Sprintf(`SELECT %s FROM instruments WHERE id = $1`, instrumentColumns)

	inst, err := scanInstrument(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("instrument not found with id: %s", id)
		}
		r.logger.Error("Failed to get instrument by ID", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to get instrument: %w", err)
	}

	return inst, nil
}

// GetByInstrumentID retrieves an instrument by its external identifier
func (r *instrumentRepository) GetByInstrumentID(ctx context.Context, instrumentID string) (*model.Instrument, error) {
	query := fmt.Sprintf(`SELECT %s FROM instruments WHERE instrument_id = $1`, instrumentColumns)

	inst, err := scanInstrument(r.db.QueryRowContext(ctx, query, instrumentID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("instrument not found with instrument_id: %s", instrumentID)
		}
		r.logger.Error("Failed to get instrument by instrument_id", zap.Error(err), zap.String("instrument_id", instrumentID))
		return nil, fmt.Errorf("failed to get instrument: %w", err)
	}

	return inst, nil
}

// Update updates an existing instrument
func (r *instrumentRepository) Update(ctx context.Context, inst *model.Instrument) error {
	query := `
		UPDATE instruments SET
			instrument_type = $2, brand = $3, model = $4, serial_number = $5,
			firmware_version = $6, connection_type = $7, connection_config = $8,
			capabilities = $9, location = $10, status = $11, last_ping = $12,
			error_info = $13, performance_metrics = $14, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		inst.ID, inst.InstrumentType, inst.Brand, inst.Model,
		inst.SerialNumber, inst.FirmwareVersion, inst.ConnectionType,
		inst.ConnectionConfig, inst.Capabilities, inst.Location, inst.Status,
		inst.LastPing, inst.ErrorInfo, inst.PerformanceMetrics,
	)

	if err != nil {
		r.logger.Error("Failed to update instrument", zap.Error(err), zap.String("instrument_id", inst.InstrumentID))
		return fmt.Errorf("failed to update instrument: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("instrument not found with id: %s", inst.ID)
	}

	r.logger.Debug("Instrument updated successfully", zap.String("instrument_id", inst.InstrumentID))
	return nil
}

// UpdateStatus updates instrument status
func (r *instrumentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.InstrumentStatus) error {
	query := `
		UPDATE instruments SET status = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		r.logger.Error("Failed to update instrument status", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("failed to update instrument status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("instrument not found with id: %s", id)
	}

	return nil
}

// Delete removes an instrument
func (r *instrumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM instruments WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete instrument", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("failed to delete instrument: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("instrument not found with id: %s", id)
	}

	r.logger.Info("Instrument deleted successfully", zap.String("id", id.String()))
	return nil
}

// List retrieves instruments with filtering and pagination
func (r *instrumentRepository) List(ctx context.Context, filter *InstrumentFilter) ([]*model.Instrument, int, error) {
	// Build WHERE clause
	whereConditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.InstrumentType != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("instrument_type = $%d", argIndex))
		args = append(args, *filter.InstrumentType)
		argIndex++
	}

	if filter.Brand != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("brand = $%d", argIndex))
		args = append(args, *filter.Brand)
		argIndex++
	}

	if filter.Status != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.ConnectionType != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("connection_type = $%d", argIndex))
		args = append(args, *filter.ConnectionType)
		argIndex++
	}

	if filter.Location != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("location ILIKE $%d", argIndex))
		args = append(args, "%"+*filter.Location+"%")
		argIndex++
	}

	if filter.SearchTerm != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("(instrument_id ILIKE $%d OR model ILIKE $%d OR serial_number ILIKE $%d)", argIndex, argIndex, argIndex))
		args = append(args, "%"+*filter.SearchTerm+"%")
		argIndex++
	}

	whereClause := ""
	if len(whereConditions) > 0 {
		whereClause = "WHERE " + strings.Join(whereConditions, " AND ")
	}

	// Count total records
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM instruments %s", whereClause)
	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count instruments: %w", err)
	}

	// Build ORDER BY clause
	orderBy := "created_at DESC"
	if filter.SortBy != "" {
		order := "ASC"
		if filter.SortOrder == "desc" {
			order = "DESC"
		}
		orderBy = fmt.Sprintf("%s %s", filter.SortBy, order)
	}

	// Build main query with pagination
	offset := (filter.Page - 1) * filter.PerPage
	query := fmt.Sprintf(`
		SELECT %s
		FROM instruments %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, instrumentColumns, whereClause, orderBy, argIndex, argIndex+1)

	args = append(args, filter.PerPage, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list instruments", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list instruments: %w", err)
	}
	defer rows.Close()

	instruments := []*model.Instrument{}
	for rows.Next() {
		inst, err := scanInstrument(rows)
		if err != nil {
			r.logger.Error("Failed to scan instrument row", zap.Error(err))
			continue
		}
		instruments = append(instruments, inst)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate instrument rows: %w", err)
	}

	return instruments, total, nil
}

// ListByStatus retrieves instruments by status
func (r *instrumentRepository) ListByStatus(ctx context.Context, status model.InstrumentStatus) ([]*model.Instrument, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM instruments
		WHERE status = $1
		ORDER BY last_ping DESC
	`, instrumentColumns)

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		r.logger.Error("Failed to list instruments by status", zap.Error(err))
		return nil, fmt.Errorf("failed to list instruments by status: %w", err)
	}
	defer rows.Close()

	instruments := []*model.Instrument{}
	for rows.Next() {
		inst, err := scanInstrument(rows)
		if err != nil {
			r.logger.Error("Failed to scan instrument row", zap.Error(err))
			continue
		}
		instruments = append(instruments, inst)
	}

	return instruments, nil
}

// UpdateLastPing updates instrument last ping time
func (r *instrumentRepository) UpdateLastPing(ctx context.Context, id uuid.UUID, pingTime time.Time) error {
	query := `
		UPDATE instruments SET last_ping = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, pingTime)
	if err != nil {
		r.logger.Error("Failed to update last ping", zap.Error(err))
		return fmt.Errorf("failed to update last ping: %w", err)
	}

	return nil
}

// GetHealthLogs retrieves instrument health logs
func (r *instrumentRepository) GetHealthLogs(ctx context.Context, instrumentID uuid.UUID, limit int) ([]*model.InstrumentHealth, error) {
	query := `
		SELECT instrument_id, health_score, metrics, recorded_at
		FROM instrument_health_logs
		WHERE instrument_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, instrumentID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get health logs: %w", err)
	}
	defer rows.Close()

	logs := []*model.InstrumentHealth{}
	for rows.Next() {
		log := &model.InstrumentHealth{}
		var metrics model.JSONObject
		err := rows.Scan(&log.InstrumentID, &log.HealthScore, &metrics, &log.RecordedAt)
		if err != nil {
			r.logger.Error("Failed to scan health log", zap.Error(err))
			continue
		}

		// Extract metrics
		if responseTime, ok := metrics["response_time"]; ok {
			if rt, ok := responseTime.(float64); ok {
				rtInt := int(rt)
				log.ResponseTime = &rtInt
			}
		}
		if errorRate, ok := metrics["error_rate"]; ok {
			if er, ok := errorRate.(float64); ok {
				log.ErrorRate = &er
			}
		}
		if uptime, ok := metrics["uptime"]; ok {
			if ut, ok := uptime.(float64); ok {
				log.Uptime = &ut
			}
		}

		logs = append(logs, log)
	}

	return logs, nil
}

// CreateHealthLog creates an instrument health log
func (r *instrumentRepository) CreateHealthLog(ctx context.Context, health *model.InstrumentHealth) error {
	query := `
		INSERT INTO instrument_health_logs (instrument_id, health_score, metrics)
		VALUES ($1, $2, $3)
	`

	metrics := model.JSONObject{}
	if health.ResponseTime != nil {
		metrics["response_time"] = *health.ResponseTime
	}
	if health.ErrorRate != nil {
		metrics["error_rate"] = *health.ErrorRate
	}
	if health.Uptime != nil {
		metrics["uptime"] = *health.Uptime
	}

	_, err := r.db.ExecContext(ctx, query, health.InstrumentID, health.HealthScore, metrics)
	if err != nil {
		r.logger.Error("Failed to create health log", zap.Error(err))
		return fmt.Errorf("failed to create health log: %w", err)
	}

	return nil
}

// UpdateMultipleStatus updates status for multiple instruments
func (r *instrumentRepository) UpdateMultipleStatus(ctx context.Context, instrumentIDs []uuid.UUID, status model.InstrumentStatus) error {
	if len(instrumentIDs) == 0 {
		return nil
	}

	// Build placeholders for IN clause
	placeholders := make([]string, len(instrumentIDs))
	args := make([]interface{}, len(instrumentIDs)+1)

	for i, id := range instrumentIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	args[len(instrumentIDs)] = status

	query := fmt.Sprintf(`
		UPDATE instruments SET status = $%d, updated_at = CURRENT_TIMESTAMP
		WHERE id IN (%s)
	`, len(instrumentIDs)+1, strings.Join(placeholders, ","))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update multiple instrument status", zap.Error(err))
		return fmt.Errorf("failed to update multiple instrument status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.Info("Updated multiple instrument status",
		zap.Int64("rows_affected", rowsAffected),
		zap.String("status", string(status)),
	)

	return nil
}

// GetInstrumentStats retrieves instrument statistics
func (r *instrumentRepository) GetInstrumentStats(ctx context.Context) (*InstrumentStats, error) {
	query := `
		SELECT
			COUNT(*) as total,
			COUNT(CASE WHEN status IN ('ONLINE', 'STREAMING') THEN 1 END) as online,
			COUNT(CASE WHEN status = 'OFFLINE' THEN 1 END) as offline,
			COUNT(CASE WHEN status = 'ERROR' THEN 1 END) as error
		FROM instruments
	`

	stats := &InstrumentStats{
		ByType:  make(map[model.InstrumentType]int),
		ByBrand: make(map[model.InstrumentBrand]int),
	}

	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalInstruments,
		&stats.OnlineInstruments,
		&stats.OfflineInstruments,
		&stats.ErrorInstruments,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get instrument stats: %w", err)
	}

	typeQuery := `SELECT instrument_type, brand, COUNT(*) FROM instruments GROUP BY instrument_type, brand`
	rows, err := r.db.QueryContext(ctx, typeQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to get instrument type stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var instType model.InstrumentType
		var brand model.InstrumentBrand
		var count int
		if err := rows.Scan(&instType, &brand, &count); err != nil {
			continue
		}
		stats.ByType[instType] += count
		stats.ByBrand[brand] += count
	}

	return stats, nil
}
