// internal/hantek/command_test.go
package hantek

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"scope-service/internal/model"
)

func TestCommandFrameLayout(t *testing.T) {
	tests := []struct {
		name  string
		frame CommandFrame
		want  []byte
	}{
		{
			name:  "enable channel 1",
			frame: EncodeChannelEnable(Channel1, true),
			want:  []byte{0x00, 0x0A, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:  "disable channel 2",
			frame: EncodeChannelEnable(Channel2, false),
			want:  []byte{0x00, 0x0A, 0x00, 0x00, 0x06, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:  "channel 1 scale 500mV",
			frame: EncodeChannelScale(Channel1, VoltScale500mV),
			want:  []byte{0x00, 0x0A, 0x00, 0x00, 0x01, 0x05, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:  "channel 2 offset",
			frame: EncodeChannelOffset(Channel2, 130),
			want:  []byte{0x00, 0x0A, 0x00, 0x00, 0x08, 0x82, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:  "timebase 1ms per div",
			frame: EncodeTimeScale(mustTimeScale(1 * time.Millisecond)),
			want:  []byte{0x00, 0x0A, 0x00, 0x00, 0x0E, 0x10, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:  "time offset",
			frame: EncodeTimeOffset(128),
			want:  []byte{0x00, 0x0A, 0x00, 0x00, 0x0F, 0x80, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:  "trigger source channel 2",
			frame: EncodeTriggerSource(TriggerSourceCh2),
			want:  []byte{0x00, 0x0A, 0x00, 0x00, 0x10, 0x01, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:  "trigger slope falling",
			frame: EncodeTriggerSlope(TriggerSlopeFalling),
			want:  []byte{0x00, 0x0A, 0x00, 0x00, 0x11, 0x01, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:  "trigger mode single",
			frame: EncodeTriggerMode(TriggerModeSingle),
			want:  []byte{0x00, 0x0A, 0x00, 0x00, 0x12, 0x02, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:  "trigger level",
			frame: EncodeTriggerLevel(130),
			want:  []byte{0x00, 0x0A, 0x00, 0x00, 0x14, 0x82, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:  "capture request 1200 samples per channel",
			frame: EncodeCaptureRequest(1200, 1200),
			want:  []byte{0x00, 0x0A, 0x00, 0x01, 0x16, 0xB0, 0x04, 0xB0, 0x04, 0x00},
		},
		{
			name:  "capture request channel 1 only",
			frame: EncodeCaptureRequest(600, 0),
			want:  []byte{0x00, 0x0A, 0x00, 0x01, 0x16, 0x58, 0x02, 0x00, 0x00, 0x00},
		},
		{
			name:  "generator frequency 1kHz",
			frame: EncodeGeneratorFrequency(1000),
			want:  []byte{0x00, 0x0A, 0x02, 0x00, 0x01, 0xE8, 0x03, 0x00, 0x00, 0x00},
		},
		{
			name:  "generator amplitude 2.5V",
			frame: EncodeGeneratorAmplitude(decimal.RequireFromString("2.5")),
			want:  []byte{0x00, 0x0A, 0x02, 0x00, 0x02, 0xC4, 0x09, 0x00, 0x00, 0x00},
		},
		{
			name:  "generator offset -1.25V",
			frame: EncodeGeneratorOffset(decimal.RequireFromString("-1.25")),
			want:  []byte{0x00, 0x0A, 0x02, 0x00, 0x03, 0xE2, 0x04, 0x01, 0x00, 0x00},
		},
		{
			name:  "generator run",
			frame: EncodeGeneratorRun(true),
			want:  []byte{0x00, 0x0A, 0x02, 0x00, 0x08, 0x01, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:  "generator stop",
			frame: EncodeGeneratorRun(false),
			want:  []byte{0x00, 0x0A, 0x02, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !bytes.Equal(tt.frame[:], tt.want) {
				t.Errorf("frame = % X, want % X", tt.frame[:], tt.want)
			}
		})
	}
}

func TestEncodeScreenSelect(t *testing.T) {
	tests := []struct {
		mode model.ScreenMode
		val  byte
	}{
		{model.ScreenModeScope, 0x00},
		{model.ScreenModeMultimeter, 0x01},
		{model.ScreenModeGenerator, 0x02},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			frame, err := EncodeScreenSelect(tt.mode)
			if err != nil {
				t.Fatalf("EncodeScreenSelect() error = %v", err)
			}
			want := []byte{0x00, 0x0A, 0x03, 0x00, 0x00, tt.val, 0x00, 0x00, 0x00, 0x00}
			if !bytes.Equal(frame[:], want) {
				t.Errorf("frame = % X, want % X", frame[:], want)
			}
		})
	}

	if _, err := EncodeScreenSelect(model.ScreenMode("TV")); err == nil {
		t.Error("EncodeScreenSelect() error = nil, want error for unknown mode")
	}
}

func TestEncodeMeterQuery(t *testing.T) {
	frame, err := EncodeMeterQuery(model.MeterModeResistance)
	if err != nil {
		t.Fatalf("EncodeMeterQuery() error = %v", err)
	}
	want := []byte{0x00, 0x0A, 0x04, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(frame[:], want) {
		t.Errorf("frame = % X, want % X", frame[:], want)
	}

	if _, err := EncodeMeterQuery(model.MeterMode("TEMPERATURE")); err == nil {
		t.Error("EncodeMeterQuery() error = nil, want error for unknown mode")
	}
}

func TestEncodeGeneratorWave(t *testing.T) {
	tests := []struct {
		wave model.GeneratorWave
		val  byte
	}{
		{model.GeneratorWaveSine, 0x00},
		{model.GeneratorWaveSquare, 0x01},
		{model.GeneratorWaveTriangle, 0x02},
		{model.GeneratorWaveRamp, 0x03},
		{model.GeneratorWaveDC, 0x04},
	}

	for _, tt := range tests {
		t.Run(string(tt.wave), func(t *testing.T) {
			frame, err := EncodeGeneratorWave(tt.wave)
			if err != nil {
				t.Fatalf("EncodeGeneratorWave() error = %v", err)
			}
			if frame.Function() != FuncGeneratorSetting {
				t.Errorf("Function() = 0x%04X, want 0x%04X", frame.Function(), FuncGeneratorSetting)
			}
			if frame[5] != tt.val {
				t.Errorf("wave value = 0x%02X, want 0x%02X", frame[5], tt.val)
			}
		})
	}

	if _, err := EncodeGeneratorWave(model.GeneratorWave("NOISE")); err == nil {
		t.Error("EncodeGeneratorWave() error = nil, want error for unknown wave")
	}
}

func TestEncodeGeneratorAmplitudeClamp(t *testing.T) {
	frame := EncodeGeneratorAmplitude(decimal.RequireFromString("120"))
	if frame[5] != 0xFF || frame[6] != 0xFF {
		t.Errorf("millivolts = 0x%02X%02X, want clamped 0xFFFF", frame[6], frame[5])
	}
}

func TestEncodeSettingsOrder(t *testing.T) {
	settings := DefaultSettings()
	frames := EncodeSettings(&settings)

	if len(frames) != 12 {
		t.Fatalf("EncodeSettings() returned %d frames, want 12", len(frames))
	}

	wantOpcodes := []byte{
		ScopeEnableCh1, ScopeScaleCh1, ScopeOffsetCh1,
		ScopeEnableCh2, ScopeScaleCh2, ScopeOffsetCh2,
		ScopeScaleTime, ScopeOffsetTime,
		ScopeTriggerSource, ScopeTriggerSlope, ScopeTriggerMode, ScopeTriggerLevel,
	}
	for i, frame := range frames {
		if frame.Function() != FuncScopeSetting {
			t.Errorf("frames[%d].Function() = 0x%04X, want 0x%04X", i, frame.Function(), FuncScopeSetting)
		}
		if frame.Opcode() != wantOpcodes[i] {
			t.Errorf("frames[%d].Opcode() = 0x%02X, want 0x%02X", i, frame.Opcode(), wantOpcodes[i])
		}
	}
}

func TestEncodeSettingsDelta(t *testing.T) {
	prev := DefaultSettings()

	t.Run("no change", func(t *testing.T) {
		next := prev
		if frames := EncodeSettingsDelta(&prev, &next); len(frames) != 0 {
			t.Errorf("EncodeSettingsDelta() returned %d frames, want 0", len(frames))
		}
	})

	t.Run("single field", func(t *testing.T) {
		next := prev
		next.Trigger.Level = 180

		frames := EncodeSettingsDelta(&prev, &next)
		if len(frames) != 1 {
			t.Fatalf("EncodeSettingsDelta() returned %d frames, want 1", len(frames))
		}
		if frames[0].Opcode() != ScopeTriggerLevel {
			t.Errorf("Opcode() = 0x%02X, want 0x%02X", frames[0].Opcode(), ScopeTriggerLevel)
		}
		if frames[0][5] != 180 {
			t.Errorf("level value = %d, want 180", frames[0][5])
		}
	})

	t.Run("several fields keep push order", func(t *testing.T) {
		next := prev
		next.Ch2.Enabled = false
		next.TimeScale++
		next.Trigger.Mode = TriggerModeNormal

		frames := EncodeSettingsDelta(&prev, &next)
		wantOpcodes := []byte{ScopeEnableCh2, ScopeScaleTime, ScopeTriggerMode}
		if len(frames) != len(wantOpcodes) {
			t.Fatalf("EncodeSettingsDelta() returned %d frames, want %d", len(frames), len(wantOpcodes))
		}
		for i, frame := range frames {
			if frame.Opcode() != wantOpcodes[i] {
				t.Errorf("frames[%d].Opcode() = 0x%02X, want 0x%02X", i, frame.Opcode(), wantOpcodes[i])
			}
		}
	})
}
