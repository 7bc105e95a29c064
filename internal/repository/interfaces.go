// internal/repository/interfaces.go
package repository

import (
	"context"
	"time"

	"scope-service/internal/model"

	"github.com/google/uuid"
)

// InstrumentRepository defines instrument data access operations
type InstrumentRepository interface {
	// CRUD operations
	Create(ctx context.Context, inst *model.Instrument) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Instrument, error)
	GetByInstrumentID(ctx context.Context, instrumentID string) (*model.Instrument, error)
	Update(ctx context.Context, inst *model.Instrument) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.InstrumentStatus) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Listing and filtering
	List(ctx context.Context, filter *InstrumentFilter) ([]*model.Instrument, int, error)
	ListByStatus(ctx context.Context, status model.InstrumentStatus) ([]*model.Instrument, error)

	// Health and monitoring
	UpdateLastPing(ctx context.Context, id uuid.UUID, pingTime time.Time) error
	GetHealthLogs(ctx context.Context, instrumentID uuid.UUID, limit int) ([]*model.InstrumentHealth, error)
	CreateHealthLog(ctx context.Context, health *model.InstrumentHealth) error

	// Batch operations
	UpdateMultipleStatus(ctx context.Context, instrumentIDs []uuid.UUID, status model.InstrumentStatus) error
	GetInstrumentStats(ctx context.Context) (*InstrumentStats, error)
}

// OperationRepository defines operation data access operations
type OperationRepository interface {
	// CRUD operations
	Create(ctx context.Context, operation *model.InstrumentOperation) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.InstrumentOperation, error)
	Update(ctx context.Context, operation *model.InstrumentOperation) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OperationStatus) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Listing and filtering
	List(ctx context.Context, filter *OperationFilter) ([]*model.InstrumentOperation, int, error)
	ListByInstrument(ctx context.Context, instrumentID uuid.UUID, limit int) ([]*model.InstrumentOperation, error)
	ListPending(ctx context.Context, priority *model.OperationPriority) ([]*model.InstrumentOperation, error)

	// Analytics and reporting
	GetOperationStats(ctx context.Context, filter *OperationStatsFilter) (*OperationStats, error)
	GetInstrumentOperationSummary(ctx context.Context, instrumentID uuid.UUID, period time.Duration) (*OperationSummary, error)

	// Cleanup
	DeleteOldOperations(ctx context.Context, olderThan time.Time) (int64, error)
}

// CaptureRepository defines capture session and waveform data access
type CaptureRepository interface {
	// Session lifecycle
	CreateSession(ctx context.Context, session *model.CaptureSession) error
	GetSession(ctx context.Context, id uuid.UUID) (*model.CaptureSession, error)
	UpdateSession(ctx context.Context, session *model.CaptureSession) error
	ListSessions(ctx context.Context, filter *CaptureFilter) ([]*model.CaptureSession, int, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error

	// Waveform archive
	CreateWaveform(ctx context.Context, record *model.WaveformRecord) error
	ListWaveforms(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]*model.WaveformRecord, int, error)
	GetWaveform(ctx context.Context, id uuid.UUID) (*model.WaveformRecord, error)

	// Cleanup
	DeleteOldSessions(ctx context.Context, olderThan time.Time) (int64, error)
}

// ReadingRepository defines multimeter reading data access
type ReadingRepository interface {
	Create(ctx context.Context, reading *model.MeterReading) error
	List(ctx context.Context, filter *ReadingFilter) ([]*model.MeterReading, int, error)
	GetLatest(ctx context.Context, instrumentID uuid.UUID, mode model.MeterMode) (*model.MeterReading, error)
	DeleteOldReadings(ctx context.Context, olderThan time.Time) (int64, error)
}

// Filter structures

// InstrumentFilter represents instrument listing filters
type InstrumentFilter struct {
	InstrumentType *model.InstrumentType   `json:"instrument_type,omitempty"`
	Brand          *model.InstrumentBrand  `json:"brand,omitempty"`
	Status         *model.InstrumentStatus `json:"status,omitempty"`
	ConnectionType *model.ConnectionType   `json:"connection_type,omitempty"`
	Location       *string                 `json:"location,omitempty"`
	SearchTerm     *string                 `json:"search_term,omitempty"`
	Page           int                     `json:"page"`
	PerPage        int                     `json:"per_page"`
	SortBy         string                  `json:"sort_by"`
	SortOrder      string                  `json:"sort_order"`
}

// OperationFilter represents operation listing filters
type OperationFilter struct {
	InstrumentID  *uuid.UUID               `json:"instrument_id,omitempty"`
	OperationType *model.OperationType     `json:"operation_type,omitempty"`
	Status        *model.OperationStatus   `json:"status,omitempty"`
	Priority      *model.OperationPriority `json:"priority,omitempty"`
	StartDate     *time.Time               `json:"start_date,omitempty"`
	EndDate       *time.Time               `json:"end_date,omitempty"`
	Page          int                      `json:"page"`
	PerPage       int                      `json:"per_page"`
	SortBy        string                   `json:"sort_by"`
	SortOrder     string                   `json:"sort_order"`
}

// CaptureFilter represents capture session listing filters
type CaptureFilter struct {
	InstrumentID *uuid.UUID           `json:"instrument_id,omitempty"`
	Mode         *model.CaptureMode   `json:"mode,omitempty"`
	Status       *model.CaptureStatus `json:"status,omitempty"`
	StartDate    *time.Time           `json:"start_date,omitempty"`
	EndDate      *time.Time           `json:"end_date,omitempty"`
	Page         int                  `json:"page"`
	PerPage      int                  `json:"per_page"`
}

// ReadingFilter represents meter reading listing filters
type ReadingFilter struct {
	InstrumentID *uuid.UUID       `json:"instrument_id,omitempty"`
	Mode         *model.MeterMode `json:"mode,omitempty"`
	StartDate    *time.Time       `json:"start_date,omitempty"`
	EndDate      *time.Time       `json:"end_date,omitempty"`
	Page         int              `json:"page"`
	PerPage      int              `json:"per_page"`
}

// OperationStatsFilter represents operation statistics filters
type OperationStatsFilter struct {
	InstrumentID *uuid.UUID `json:"instrument_id,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}

// Statistics structures

// InstrumentStats represents instrument statistics
type InstrumentStats struct {
	TotalInstruments   int                           `json:"total_instruments"`
	OnlineInstruments  int                           `json:"online_instruments"`
	OfflineInstruments int                           `json:"offline_instruments"`
	ErrorInstruments   int                           `json:"error_instruments"`
	ByType             map[model.InstrumentType]int  `json:"by_type"`
	ByBrand            map[model.InstrumentBrand]int `json:"by_brand"`
}

// OperationStats represents operation statistics
type OperationStats struct {
	TotalOperations int                             `json:"total_operations"`
	SuccessfulOps   int                             `json:"successful_operations"`
	FailedOps       int                             `json:"failed_operations"`
	PendingOps      int                             `json:"pending_operations"`
	AvgDuration     time.Duration                   `json:"average_duration"`
	ByType          map[model.OperationType]int     `json:"by_type"`
	ByStatus        map[model.OperationStatus]int   `json:"by_status"`
	ByPriority      map[model.OperationPriority]int `json:"by_priority"`
}

// OperationSummary represents operation summary for an instrument
type OperationSummary struct {
	InstrumentID    uuid.UUID     `json:"instrument_id"`
	Period          time.Duration `json:"period"`
	TotalOps        int           `json:"total_operations"`
	SuccessRate     float64       `json:"success_rate"`
	AvgResponseTime time.Duration `json:"average_response_time"`
	ErrorCount      int           `json:"error_count"`
	LastOperation   *time.Time    `json:"last_operation,omitempty"`
}
