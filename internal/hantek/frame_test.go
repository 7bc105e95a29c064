// internal/hantek/frame_test.go
package hantek

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"scope-service/internal/model"
)

func buildWaveformFrame(flags byte, ch1, ch2 []byte) []byte {
	frame := []byte{
		WaveformMarker, flags,
		byte(len(ch1)), byte(len(ch1) >> 8),
		byte(len(ch2)), byte(len(ch2) >> 8),
		0x00, 0x00,
	}
	switch {
	case len(ch1) > 0 && len(ch2) > 0:
		for i := range ch1 {
			frame = append(frame, ch1[i], ch2[i])
		}
	case len(ch1) > 0:
		frame = append(frame, ch1...)
	case len(ch2) > 0:
		frame = append(frame, ch2...)
	}
	return frame
}

func TestDecodeAck(t *testing.T) {
	data := []byte{0x00, 0x0A, 0x00, 0x00, 0x14, 0x00, 0x00, 0x00, 0x00, 0x00}

	ack, err := DecodeAck(data)
	if err != nil {
		t.Fatalf("DecodeAck() error = %v", err)
	}
	if ack.Function != FuncScopeSetting {
		t.Errorf("Function = 0x%04X, want 0x%04X", ack.Function, FuncScopeSetting)
	}
	if ack.Opcode != ScopeTriggerLevel {
		t.Errorf("Opcode = 0x%02X, want 0x%02X", ack.Opcode, ScopeTriggerLevel)
	}
	if ack.Status.Rejected() || ack.Status.Busy() {
		t.Errorf("Status = 0x%02X, want clean", byte(ack.Status))
	}
}

func TestDecodeAckStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   byte
		rejected bool
		busy     bool
	}{
		{"clean", 0x00, false, false},
		{"rejected", 0x01, true, false},
		{"busy", 0x02, false, true},
		{"rejected and busy", 0x03, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []byte{0x00, 0x0A, 0x00, 0x00, 0x00, tt.status, 0x00, 0x00, 0x00, 0x00}
			ack, err := DecodeAck(data)
			if err != nil {
				t.Fatalf("DecodeAck() error = %v", err)
			}
			if ack.Status.Rejected() != tt.rejected {
				t.Errorf("Rejected() = %v, want %v", ack.Status.Rejected(), tt.rejected)
			}
			if ack.Status.Busy() != tt.busy {
				t.Errorf("Busy() = %v, want %v", ack.Status.Busy(), tt.busy)
			}
		})
	}
}

func TestDecodeAckMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", []byte{0x00, 0x0A, 0x00}},
		{"too long", make([]byte, 11)},
		{"bad marker", []byte{0xFF, 0x0A, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"bad length byte", []byte{0x00, 0x0B, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeAck(tt.data); !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("DecodeAck() error = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestDecodeWaveformDualChannel(t *testing.T) {
	ch1 := []byte{29, 100, 130, 200, 231}
	ch2 := []byte{231, 180, 130, 60, 29}
	data := buildWaveformFrame(0x01, ch1, ch2)

	buf, flags, err := DecodeWaveform(data)
	if err != nil {
		t.Fatalf("DecodeWaveform() error = %v", err)
	}
	if !flags.Triggered() {
		t.Error("Triggered() = false, want true")
	}
	if flags.Ch1Overrange() || flags.Ch2Overrange() {
		t.Error("overrange flags set, want clear")
	}
	if !bytes.Equal(buf.Ch1, ch1) {
		t.Errorf("Ch1 = %v, want %v", buf.Ch1, ch1)
	}
	if !bytes.Equal(buf.Ch2, ch2) {
		t.Errorf("Ch2 = %v, want %v", buf.Ch2, ch2)
	}
	if len(buf.Raw()) != len(ch1)+len(ch2) {
		t.Errorf("Raw() length = %d, want %d", len(buf.Raw()), len(ch1)+len(ch2))
	}
}

func TestDecodeWaveformSingleChannel(t *testing.T) {
	t.Run("channel 1 only", func(t *testing.T) {
		ch1 := []byte{50, 60, 70, 80}
		buf, _, err := DecodeWaveform(buildWaveformFrame(0x00, ch1, nil))
		if err != nil {
			t.Fatalf("DecodeWaveform() error = %v", err)
		}
		if !bytes.Equal(buf.Ch1, ch1) {
			t.Errorf("Ch1 = %v, want %v", buf.Ch1, ch1)
		}
		if len(buf.Ch2) != 0 {
			t.Errorf("Ch2 = %v, want empty", buf.Ch2)
		}
	})

	t.Run("channel 2 only", func(t *testing.T) {
		ch2 := []byte{90, 110, 130}
		buf, _, err := DecodeWaveform(buildWaveformFrame(0x00, nil, ch2))
		if err != nil {
			t.Fatalf("DecodeWaveform() error = %v", err)
		}
		if len(buf.Ch1) != 0 {
			t.Errorf("Ch1 = %v, want empty", buf.Ch1)
		}
		if !bytes.Equal(buf.Ch2, ch2) {
			t.Errorf("Ch2 = %v, want %v", buf.Ch2, ch2)
		}
	})
}

func TestDecodeWaveformStatusFlags(t *testing.T) {
	data := buildWaveformFrame(0x06, []byte{130}, []byte{130})
	_, flags, err := DecodeWaveform(data)
	if err != nil {
		t.Fatalf("DecodeWaveform() error = %v", err)
	}
	if flags.Triggered() {
		t.Error("Triggered() = true, want false")
	}
	if !flags.Ch1Overrange() {
		t.Error("Ch1Overrange() = false, want true")
	}
	if !flags.Ch2Overrange() {
		t.Error("Ch2Overrange() = false, want true")
	}
	if flags.SettingsError() {
		t.Error("SettingsError() = true, want false")
	}

	_, flags, err = DecodeWaveform(buildWaveformFrame(0x09, []byte{130}, []byte{130}))
	if err != nil {
		t.Fatalf("DecodeWaveform() error = %v", err)
	}
	if !flags.Triggered() {
		t.Error("Triggered() = false, want true")
	}
	if !flags.SettingsError() {
		t.Error("SettingsError() = false, want true")
	}
}

func TestDecodeWaveformMalformed(t *testing.T) {
	good := buildWaveformFrame(0x00, []byte{130, 130}, []byte{130, 130})

	truncated := make([]byte, len(good)-1)
	copy(truncated, good)

	badMarker := append([]byte(nil), good...)
	badMarker[0] = 0x55

	overcount := append([]byte(nil), good...)
	overcount[2] = 0x03 // header now advertises more samples than the frame carries

	unbalanced := buildWaveformFrame(0x00, []byte{130, 130, 130}, []byte{130, 130})

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"header only fragment", good[:4]},
		{"truncated payload", truncated},
		{"bad marker", badMarker},
		{"count mismatch", overcount},
		{"unbalanced channels", unbalanced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := DecodeWaveform(tt.data); !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("DecodeWaveform() error = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestSampleBufferVolts(t *testing.T) {
	buf := &SampleBuffer{Ch1: []byte{29, 130, 231}}

	tests := []struct {
		scale VoltScale
		want  []float64
	}{
		{VoltScale1V, []float64{-4, 0, 4}},
		{VoltScale500mV, []float64{-2, 0, 2}},
		{VoltScale10mV, []float64{-0.04, 0, 0.04}},
	}

	for _, tt := range tests {
		t.Run(tt.scale.String(), func(t *testing.T) {
			got := buf.Volts(Channel1, tt.scale)
			if len(got) != len(tt.want) {
				t.Fatalf("Volts() length = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("Volts()[%d] = %g, want %g", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecodeMeterReading(t *testing.T) {
	tests := []struct {
		name     string
		mode     byte
		mantissa []byte
		exponent byte
		wantMode model.MeterMode
		want     string
	}{
		{
			name:     "positive DC voltage",
			mode:     0x00,
			mantissa: []byte{0x39, 0x30, 0x00, 0x00}, // 12345
			exponent: 0xFD,                           // -3
			wantMode: model.MeterModeVoltageDC,
			want:     "12.345",
		},
		{
			name:     "negative current",
			mode:     0x02,
			mantissa: []byte{0x0C, 0xFE, 0xFF, 0xFF}, // -500
			exponent: 0xFF,                           // -1
			wantMode: model.MeterModeCurrentDC,
			want:     "-50",
		},
		{
			name:     "resistance in megaohms",
			mode:     0x04,
			mantissa: []byte{0x16, 0x00, 0x00, 0x00}, // 22
			exponent: 0x05,
			wantMode: model.MeterModeResistance,
			want:     "2200000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []byte{0x00, 0x0A, 0x04, 0x00, tt.mode}
			data = append(data, tt.mantissa...)
			data = append(data, tt.exponent)

			m, err := DecodeMeterReading(data)
			if err != nil {
				t.Fatalf("DecodeMeterReading() error = %v", err)
			}
			if m.Mode != tt.wantMode {
				t.Errorf("Mode = %s, want %s", m.Mode, tt.wantMode)
			}
			if !m.Value.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Value = %s, want %s", m.Value, tt.want)
			}
			if m.Overload {
				t.Error("Overload = true for in-range reading")
			}
		})
	}
}

func TestDecodeMeterReadingOverload(t *testing.T) {
	data := []byte{0x00, 0x0A, 0x04, 0x00, 0x04, 0xFF, 0xFF, 0xFF, 0x7F, 0x00}

	m, err := DecodeMeterReading(data)
	if err != nil {
		t.Fatalf("DecodeMeterReading() error = %v", err)
	}
	if !m.Overload {
		t.Error("Overload = false, want true for sentinel mantissa")
	}
}

func TestDecodeMeterReadingMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", []byte{0x00, 0x0A, 0x04, 0x00}},
		{"bad marker", []byte{0x01, 0x0A, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"wrong function", []byte{0x00, 0x0A, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"unknown mode", []byte{0x00, 0x0A, 0x04, 0x00, 0x09, 0x00, 0x00, 0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeMeterReading(tt.data); !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("DecodeMeterReading() error = %v, want ErrMalformedResponse", err)
			}
		})
	}
}
