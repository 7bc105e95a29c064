// internal/hantek/frame.go
package hantek

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"scope-service/internal/model"
)

// ErrMalformedResponse indicates a response that violates the fixed
// frame layout. The frame is discarded; the caller decides whether to
// re-request.
var ErrMalformedResponse = errors.New("malformed response")

// Response frame sizes
const (
	AckFrameSize       = 10
	MeterFrameSize     = 10
	WaveformHeaderSize = 8
)

// WaveformMarker is the first byte of every waveform frame
const WaveformMarker = 0xAA

// AckStatus carries the status byte of an acknowledgement frame
type AckStatus byte

// Rejected reports whether the instrument declined the command
func (s AckStatus) Rejected() bool {
	return s&0x01 != 0
}

// Busy reports whether the instrument dropped the command because an
// acquisition was in progress
func (s AckStatus) Busy() bool {
	return s&0x02 != 0
}

// Ack is the decoded acknowledgement the instrument returns for every
// setting write. Function and Opcode echo the command being confirmed.
type Ack struct {
	Function uint16
	Opcode   byte
	Status   AckStatus
}

// DecodeAck parses a 10-byte acknowledgement frame:
//
//	[0]   0x00 marker
//	[1]   0x0A frame length
//	[2:4] echoed function group, little endian
//	[4]   echoed opcode
//	[5]   status byte, bit 0 rejected, bit 1 busy
//	[6:9] reserved
//	[9]   0x00 terminator
func DecodeAck(data []byte) (Ack, error) {
	if len(data) != AckFrameSize {
		return Ack{}, fmt.Errorf("%w: ack frame length %d, want %d", ErrMalformedResponse, len(data), AckFrameSize)
	}
	if data[0] != frameMarker || data[1] != frameLength {
		return Ack{}, fmt.Errorf("%w: bad ack header 0x%02X 0x%02X", ErrMalformedResponse, data[0], data[1])
	}

	return Ack{
		Function: binary.LittleEndian.Uint16(data[2:4]),
		Opcode:   data[4],
		Status:   AckStatus(data[5]),
	}, nil
}

// StatusFlags carries the flag byte of a waveform frame
type StatusFlags byte

// Triggered reports whether the frame was captured on a trigger event
// rather than by auto rollover
func (f StatusFlags) Triggered() bool {
	return f&0x01 != 0
}

// Ch1Overrange reports clipping on channel 1
func (f StatusFlags) Ch1Overrange() bool {
	return f&0x02 != 0
}

// Ch2Overrange reports clipping on channel 2
func (f StatusFlags) Ch2Overrange() bool {
	return f&0x04 != 0
}

// SettingsError reports that the device captured with settings it could
// not fully apply, so sample scaling may be off
func (f StatusFlags) SettingsError() bool {
	return f&0x08 != 0
}

// SampleBuffer holds the de-interleaved samples of one waveform frame.
// Samples are raw ADC bytes in the 29..231 window.
type SampleBuffer struct {
	Ch1 []byte
	Ch2 []byte

	raw []byte
}

// Raw returns the frame payload as it arrived, channel-interleaved
func (b *SampleBuffer) Raw() []byte {
	return b.raw
}

// Volts converts one channel's samples to volts at the given scale
func (b *SampleBuffer) Volts(ch Channel, scale VoltScale) []float64 {
	samples := b.Ch1
	if ch == Channel2 {
		samples = b.Ch2
	}

	volts := make([]float64, len(samples))
	for i, raw := range samples {
		volts[i] = scale.Volts(raw)
	}
	return volts
}

// DecodeWaveform parses one waveform frame:
//
//	[0]   0xAA marker
//	[1]   status flags
//	[2:4] channel 1 sample count, little endian
//	[4:6] channel 2 sample count, little endian
//	[6:8] reserved
//	[8:]  samples, interleaved one byte per active channel per step
func DecodeWaveform(data []byte) (*SampleBuffer, StatusFlags, error) {
	if len(data) < WaveformHeaderSize {
		return nil, 0, fmt.Errorf("%w: waveform frame too short, got %d of %d header bytes", ErrMalformedResponse, len(data), WaveformHeaderSize)
	}
	if data[0] != WaveformMarker {
		return nil, 0, fmt.Errorf("%w: bad waveform marker 0x%02X, want 0x%02X", ErrMalformedResponse, data[0], WaveformMarker)
	}

	flags := StatusFlags(data[1])
	ch1Count := int(binary.LittleEndian.Uint16(data[2:4]))
	ch2Count := int(binary.LittleEndian.Uint16(data[4:6]))

	expected := WaveformHeaderSize + ch1Count + ch2Count
	if len(data) != expected {
		return nil, 0, fmt.Errorf("%w: header advertises %d samples, frame carries %d bytes", ErrMalformedResponse, ch1Count+ch2Count, len(data)-WaveformHeaderSize)
	}
	if ch1Count > 0 && ch2Count > 0 && ch1Count != ch2Count {
		return nil, 0, fmt.Errorf("%w: unbalanced channel counts %d and %d", ErrMalformedResponse, ch1Count, ch2Count)
	}

	payload := data[WaveformHeaderSize:]
	buf := &SampleBuffer{raw: payload}

	switch {
	case ch1Count > 0 && ch2Count > 0:
		buf.Ch1 = make([]byte, ch1Count)
		buf.Ch2 = make([]byte, ch2Count)
		for i := 0; i < ch1Count; i++ {
			buf.Ch1[i] = payload[i*2]
			buf.Ch2[i] = payload[i*2+1]
		}
	case ch1Count > 0:
		buf.Ch1 = payload
	case ch2Count > 0:
		buf.Ch2 = payload
	}

	return buf, flags, nil
}

// Measurement is one decoded multimeter reading. Overload is set when
// the instrument reports the out-of-range sentinel instead of a value.
type Measurement struct {
	Mode     model.MeterMode
	Value    decimal.Decimal
	Overload bool
}

// overloadMantissa is the sentinel the meter sends when the input
// exceeds the selected range
const overloadMantissa = math.MaxInt32

// DecodeMeterReading parses a 10-byte multimeter response:
//
//	[0]   0x00 marker
//	[1]   0x0A frame length
//	[2:4] meter function group, little endian
//	[4]   measurement mode
//	[5:9] mantissa, signed little endian
//	[9]   base-10 exponent, signed
//
// The reading equals mantissa scaled by ten to the exponent, which maps
// directly onto a decimal value without float rounding.
func DecodeMeterReading(data []byte) (Measurement, error) {
	if len(data) != MeterFrameSize {
		return Measurement{}, fmt.Errorf("%w: meter frame length %d, want %d", ErrMalformedResponse, len(data), MeterFrameSize)
	}
	if data[0] != frameMarker || data[1] != frameLength {
		return Measurement{}, fmt.Errorf("%w: bad meter header 0x%02X 0x%02X", ErrMalformedResponse, data[0], data[1])
	}
	if function := binary.LittleEndian.Uint16(data[2:4]); function != FuncMeterQuery {
		return Measurement{}, fmt.Errorf("%w: unexpected function 0x%04X in meter frame", ErrMalformedResponse, function)
	}

	mode, ok := meterModeFromValue(data[4])
	if !ok {
		return Measurement{}, fmt.Errorf("%w: unknown meter mode 0x%02X", ErrMalformedResponse, data[4])
	}

	mantissa := int32(binary.LittleEndian.Uint32(data[5:9]))
	exponent := int32(int8(data[9]))

	return Measurement{
		Mode:     mode,
		Value:    decimal.New(int64(mantissa), exponent),
		Overload: mantissa == overloadMantissa,
	}, nil
}
