// internal/service/driver_manager_test.go
package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	internalDriver "scope-service/internal/driver"
	"scope-service/internal/model"
	"scope-service/pkg/instrument"
)

type stubDriver struct {
	mu          sync.Mutex
	connected   bool
	disconnects int
	closed      bool
	handler     instrument.EventHandler
}

func (d *stubDriver) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = true
	return nil
}

func (d *stubDriver) Disconnect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = false
	d.disconnects++
	return nil
}

func (d *stubDriver) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected
}

func (d *stubDriver) GetInstrumentInfo() (*instrument.InstrumentInfo, error) {
	return &instrument.InstrumentInfo{Brand: model.BrandHantek, Model: "2D72"}, nil
}

func (d *stubDriver) GetCapabilities() []model.Capability {
	return nil
}

func (d *stubDriver) GetStatus() (*instrument.InstrumentStatus, error) {
	return &instrument.InstrumentStatus{Status: model.InstrumentStatusOnline, IsReady: true}, nil
}

func (d *stubDriver) ExecuteOperation(ctx context.Context, op *model.InstrumentOperation) (*instrument.OperationResult, error) {
	return &instrument.OperationResult{Success: true}, nil
}

func (d *stubDriver) Ping(ctx context.Context) error {
	return nil
}

func (d *stubDriver) GetHealthMetrics() (*instrument.HealthMetrics, error) {
	return &instrument.HealthMetrics{HealthScore: 100}, nil
}

func (d *stubDriver) Configure(config interface{}) error {
	return nil
}

func (d *stubDriver) Reset(ctx context.Context) error {
	return nil
}

func (d *stubDriver) SetEventHandler(handler instrument.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handler = handler
}

func (d *stubDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

type nopEventHandler struct{}

func (nopEventHandler) OnInstrumentConnected(string)                                     {}
func (nopEventHandler) OnInstrumentDisconnected(string, string)                          {}
func (nopEventHandler) OnInstrumentError(string, error)                                  {}
func (nopEventHandler) OnOperationCompleted(string, string, *instrument.OperationResult) {}
func (nopEventHandler) OnStatusChanged(string, model.InstrumentStatus, model.InstrumentStatus) {
}
func (nopEventHandler) OnWaveformFrame(string, *instrument.WaveformFrame)   {}
func (nopEventHandler) OnMeterReading(string, *instrument.MeterMeasurement) {}

func newStubManager(t *testing.T) (*DriverManager, *int) {
	t.Helper()

	created := 0
	registry := internalDriver.NewRegistry(zap.NewNop())
	registry.Register(model.BrandHantek, model.InstrumentTypeOscilloscope, "2D72",
		func(inst *model.Instrument, connectionConfig interface{}, logger *zap.Logger) (instrument.InstrumentDriver, error) {
			created++
			return &stubDriver{}, nil
		})

	return NewDriverManager(registry, zap.NewNop()), &created
}

func testInstrument(instrumentID string) *model.Instrument {
	return &model.Instrument{
		ID:             uuid.New(),
		InstrumentID:   instrumentID,
		InstrumentType: model.InstrumentTypeOscilloscope,
		Brand:          model.BrandHantek,
		Model:          "2D72",
		ConnectionType: model.ConnectionTypeUSB,
		ConnectionConfig: model.JSONObject{
			"vendor_id":  "0x0483",
			"product_id": "0x2D42",
		},
	}
}

func TestAcquireCachesDriver(t *testing.T) {
	dm, created := newStubManager(t)
	inst := testInstrument("SCOPE_01")

	first, err := dm.Acquire(inst)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	second, err := dm.Acquire(inst)
	if err != nil {
		t.Fatalf("second Acquire() error = %v", err)
	}

	if first != second {
		t.Error("Acquire returned a different driver for the same instrument")
	}
	if *created != 1 {
		t.Errorf("factory called %d times, want 1", *created)
	}
}

func TestAcquireWiresEventHandler(t *testing.T) {
	dm, _ := newStubManager(t)
	dm.SetEventHandler(nopEventHandler{})

	driverInstance, err := dm.Acquire(testInstrument("SCOPE_01"))
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	stub := driverInstance.(*stubDriver)
	if stub.handler == nil {
		t.Error("event handler was not wired into the created driver")
	}
}

func TestGetAndRelease(t *testing.T) {
	dm, _ := newStubManager(t)
	inst := testInstrument("SCOPE_01")
	ctx := context.Background()

	if _, ok := dm.Get(inst.InstrumentID); ok {
		t.Fatal("Get returned a driver before Acquire")
	}

	driverInstance, err := dm.Acquire(inst)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := driverInstance.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	cached, ok := dm.Get(inst.InstrumentID)
	if !ok || cached != driverInstance {
		t.Fatal("Get did not return the acquired driver")
	}

	if err := dm.Release(ctx, inst.InstrumentID); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	stub := driverInstance.(*stubDriver)
	if stub.disconnects != 1 {
		t.Errorf("disconnects = %d, want 1", stub.disconnects)
	}
	if !stub.closed {
		t.Error("driver was not closed on release")
	}
	if _, ok := dm.Get(inst.InstrumentID); ok {
		t.Error("driver still cached after release")
	}

	// Releasing an unknown instrument is a no-op
	if err := dm.Release(ctx, inst.InstrumentID); err != nil {
		t.Errorf("second Release() error = %v", err)
	}
}

func TestCloseAll(t *testing.T) {
	dm, _ := newStubManager(t)
	ctx := context.Background()

	first, err := dm.Acquire(testInstrument("SCOPE_01"))
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	second, err := dm.Acquire(testInstrument("SCOPE_02"))
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if got := len(dm.ConnectedIDs()); got != 2 {
		t.Fatalf("ConnectedIDs() = %d entries, want 2", got)
	}

	dm.CloseAll(ctx)

	if got := len(dm.ConnectedIDs()); got != 0 {
		t.Errorf("ConnectedIDs() = %d entries after CloseAll, want 0", got)
	}
	for _, stub := range []*stubDriver{first.(*stubDriver), second.(*stubDriver)} {
		if !stub.closed {
			t.Error("driver not closed by CloseAll")
		}
		if stub.disconnects != 1 {
			t.Errorf("disconnects = %d, want 1", stub.disconnects)
		}
	}
}
