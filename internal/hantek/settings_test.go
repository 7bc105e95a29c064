// internal/hantek/settings_test.go
package hantek

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultSettingsValid(t *testing.T) {
	settings := DefaultSettings()
	if err := settings.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if settings.ActiveChannels() != 2 {
		t.Errorf("ActiveChannels() = %d, want 2", settings.ActiveChannels())
	}
	ch1, ch2 := settings.SampleCounts()
	if ch1 != 1200 || ch2 != 1200 {
		t.Errorf("SampleCounts() = (%d, %d), want (1200, 1200)", ch1, ch2)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CaptureSettings)
	}{
		{
			name: "no channel enabled",
			mutate: func(s *CaptureSettings) {
				s.Ch1.Enabled = false
				s.Ch2.Enabled = false
			},
		},
		{
			name:   "channel 1 scale off ladder",
			mutate: func(s *CaptureSettings) { s.Ch1.Scale = VoltScale(10) },
		},
		{
			name:   "channel 1 scale negative",
			mutate: func(s *CaptureSettings) { s.Ch1.Scale = VoltScale(-1) },
		},
		{
			name:   "channel 2 offset below window",
			mutate: func(s *CaptureSettings) { s.Ch2.Offset = 28 },
		},
		{
			name:   "channel 2 offset above window",
			mutate: func(s *CaptureSettings) { s.Ch2.Offset = 232 },
		},
		{
			name:   "timebase off ladder",
			mutate: func(s *CaptureSettings) { s.TimeScale = TimeScale(99) },
		},
		{
			name:   "time offset out of range",
			mutate: func(s *CaptureSettings) { s.TimeOffset = 300 },
		},
		{
			name:   "unknown trigger source",
			mutate: func(s *CaptureSettings) { s.Trigger.Source = TriggerSource(5) },
		},
		{
			name:   "unknown trigger slope",
			mutate: func(s *CaptureSettings) { s.Trigger.Slope = TriggerSlope(2) },
		},
		{
			name:   "unknown trigger mode",
			mutate: func(s *CaptureSettings) { s.Trigger.Mode = TriggerMode(7) },
		},
		{
			name:   "trigger level below window",
			mutate: func(s *CaptureSettings) { s.Trigger.Level = 0 },
		},
		{
			name: "trigger on disabled channel",
			mutate: func(s *CaptureSettings) {
				s.Ch2.Enabled = false
				s.Trigger.Source = TriggerSourceCh2
			},
		},
		{
			name:   "depth zero",
			mutate: func(s *CaptureSettings) { s.Depth = 0 },
		},
		{
			name:   "depth above limit",
			mutate: func(s *CaptureSettings) { s.Depth = 6001 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			tt.mutate(&settings)
			if err := settings.Validate(); !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("Validate() error = %v, want ErrInvalidSettings", err)
			}
		})
	}
}

func TestValidateSingleChannel(t *testing.T) {
	settings := DefaultSettings()
	settings.Ch2.Enabled = false
	settings.Trigger.Source = TriggerSourceCh1

	if err := settings.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	ch1, ch2 := settings.SampleCounts()
	if ch1 != settings.Depth || ch2 != 0 {
		t.Errorf("SampleCounts() = (%d, %d), want (%d, 0)", ch1, ch2, settings.Depth)
	}
}

func TestVoltScale(t *testing.T) {
	tests := []struct {
		scale VoltScale
		div   float64
		str   string
	}{
		{VoltScale10mV, 0.01, "10mV/div"},
		{VoltScale500mV, 0.5, "500mV/div"},
		{VoltScale1V, 1, "1V/div"},
		{VoltScale10V, 10, "10V/div"},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			if !tt.scale.Valid() {
				t.Fatalf("Valid() = false, want true")
			}
			if got := tt.scale.VoltsPerDiv(); got != tt.div {
				t.Errorf("VoltsPerDiv() = %g, want %g", got, tt.div)
			}
			if got := tt.scale.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
		})
	}

	if VoltScale(10).Valid() {
		t.Error("VoltScale(10).Valid() = true, want false")
	}
}

func TestTimeScaleFor(t *testing.T) {
	tests := []struct {
		div  time.Duration
		want TimeScale
	}{
		{5 * time.Nanosecond, 0},
		{1 * time.Microsecond, 7},
		{1 * time.Millisecond, 16},
		{500 * time.Second, 32},
	}

	for _, tt := range tests {
		t.Run(tt.div.String(), func(t *testing.T) {
			got, ok := TimeScaleFor(tt.div)
			if !ok {
				t.Fatalf("TimeScaleFor(%s) not found", tt.div)
			}
			if got != tt.want {
				t.Errorf("TimeScaleFor(%s) = %d, want %d", tt.div, got, tt.want)
			}
			if got.DivDuration() != tt.div {
				t.Errorf("DivDuration() = %s, want %s", got.DivDuration(), tt.div)
			}
		})
	}

	if _, ok := TimeScaleFor(3 * time.Millisecond); ok {
		t.Error("TimeScaleFor(3ms) found, want miss")
	}
}

func TestTriggerEnums(t *testing.T) {
	if TriggerSourceCh2.Channel() != Channel2 {
		t.Errorf("Channel() = %v, want Channel2", TriggerSourceCh2.Channel())
	}
	if got := TriggerSlopeFalling.String(); got != "FALLING" {
		t.Errorf("String() = %q, want FALLING", got)
	}
	if got := TriggerModeSingle.String(); got != "SINGLE" {
		t.Errorf("String() = %q, want SINGLE", got)
	}
	if TriggerMode(3).Valid() {
		t.Error("TriggerMode(3).Valid() = true, want false")
	}
}
