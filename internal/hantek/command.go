// internal/hantek/command.go
package hantek

import (
	"encoding/binary"
	"fmt"

	"github.com/shopspring/decimal"

	"scope-service/internal/model"
)

// Every command travels as one fixed 10-byte frame:
//
//	[0]   0x00 marker
//	[1]   0x0A frame length
//	[2:4] function group, little endian
//	[4]   opcode within the group
//	[5:9] four value bytes, meaning depends on the opcode
//	[9]   0x00 terminator
const (
	FrameSize = 10

	frameMarker = 0x00
	frameLength = 0x0A
)

// Function groups
const (
	FuncScopeSetting     uint16 = 0x0000
	FuncScopeCapture     uint16 = 0x0100
	FuncGeneratorSetting uint16 = 0x0002
	FuncScreenSetting    uint16 = 0x0003
	FuncMeterQuery       uint16 = 0x0004
)

// Scope setting opcodes
const (
	ScopeEnableCh1     = 0x00
	ScopeScaleCh1      = 0x01
	ScopeOffsetCh1     = 0x02
	ScopeEnableCh2     = 0x06
	ScopeScaleCh2      = 0x07
	ScopeOffsetCh2     = 0x08
	ScopeScaleTime     = 0x0E
	ScopeOffsetTime    = 0x0F
	ScopeTriggerSource = 0x10
	ScopeTriggerSlope  = 0x11
	ScopeTriggerMode   = 0x12
	ScopeTriggerLevel  = 0x14
)

// Scope capture opcodes
const (
	ScopeStartCapture = 0x16
)

// Generator opcodes
const (
	GeneratorWaveType  = 0x00
	GeneratorFrequency = 0x01
	GeneratorAmplitude = 0x02
	GeneratorOffset    = 0x03
	GeneratorRun       = 0x08
)

// Screen opcodes
const (
	ScreenSelect = 0x00
)

// Meter opcodes
const (
	MeterRead = 0x00
)

// CommandFrame is one encoded command, immutable once constructed
type CommandFrame [FrameSize]byte

// Function returns the function group the frame addresses
func (f CommandFrame) Function() uint16 {
	return binary.LittleEndian.Uint16(f[2:4])
}

// Opcode returns the opcode within the function group
func (f CommandFrame) Opcode() byte {
	return f[4]
}

func newCommandFrame(function uint16, opcode byte, vals [4]byte) CommandFrame {
	var f CommandFrame
	f[0] = frameMarker
	f[1] = frameLength
	binary.LittleEndian.PutUint16(f[2:4], function)
	f[4] = opcode
	copy(f[5:9], vals[:])
	f[9] = 0x00
	return f
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

func channelOpcode(ch Channel, ch1Op, ch2Op byte) byte {
	if ch == Channel2 {
		return ch2Op
	}
	return ch1Op
}

// EncodeChannelEnable switches one scope input on or off
func EncodeChannelEnable(ch Channel, enabled bool) CommandFrame {
	op := channelOpcode(ch, ScopeEnableCh1, ScopeEnableCh2)
	return newCommandFrame(FuncScopeSetting, op, [4]byte{boolByte(enabled)})
}

// EncodeChannelScale selects the vertical sensitivity of one input
func EncodeChannelScale(ch Channel, scale VoltScale) CommandFrame {
	op := channelOpcode(ch, ScopeScaleCh1, ScopeScaleCh2)
	return newCommandFrame(FuncScopeSetting, op, [4]byte{byte(scale)})
}

// EncodeChannelOffset moves the vertical position of one input within
// the raw sample window
func EncodeChannelOffset(ch Channel, offset int) CommandFrame {
	op := channelOpcode(ch, ScopeOffsetCh1, ScopeOffsetCh2)
	return newCommandFrame(FuncScopeSetting, op, [4]byte{byte(offset)})
}

// EncodeTimeScale selects the horizontal timebase
func EncodeTimeScale(scale TimeScale) CommandFrame {
	return newCommandFrame(FuncScopeSetting, ScopeScaleTime, [4]byte{byte(scale)})
}

// EncodeTimeOffset moves the horizontal position
func EncodeTimeOffset(offset int) CommandFrame {
	return newCommandFrame(FuncScopeSetting, ScopeOffsetTime, [4]byte{byte(offset)})
}

// EncodeTriggerSource selects which channel arms the trigger
func EncodeTriggerSource(source TriggerSource) CommandFrame {
	return newCommandFrame(FuncScopeSetting, ScopeTriggerSource, [4]byte{byte(source)})
}

// EncodeTriggerSlope selects the trigger edge direction
func EncodeTriggerSlope(slope TriggerSlope) CommandFrame {
	return newCommandFrame(FuncScopeSetting, ScopeTriggerSlope, [4]byte{byte(slope)})
}

// EncodeTriggerMode selects the trigger arming behavior
func EncodeTriggerMode(mode TriggerMode) CommandFrame {
	return newCommandFrame(FuncScopeSetting, ScopeTriggerMode, [4]byte{byte(mode)})
}

// EncodeTriggerLevel sets the trigger threshold within the raw sample window
func EncodeTriggerLevel(level int) CommandFrame {
	return newCommandFrame(FuncScopeSetting, ScopeTriggerLevel, [4]byte{byte(level)})
}

// EncodeCaptureRequest asks the instrument for one waveform frame with
// the given per-channel sample counts
func EncodeCaptureRequest(ch1Samples, ch2Samples int) CommandFrame {
	var vals [4]byte
	binary.LittleEndian.PutUint16(vals[0:2], uint16(ch1Samples))
	binary.LittleEndian.PutUint16(vals[2:4], uint16(ch2Samples))
	return newCommandFrame(FuncScopeCapture, ScopeStartCapture, vals)
}

// EncodeSettings expands a full settings record into the ordered frame
// sequence that pushes every field to the instrument
func EncodeSettings(s *CaptureSettings) []CommandFrame {
	return []CommandFrame{
		EncodeChannelEnable(Channel1, s.Ch1.Enabled),
		EncodeChannelScale(Channel1, s.Ch1.Scale),
		EncodeChannelOffset(Channel1, s.Ch1.Offset),
		EncodeChannelEnable(Channel2, s.Ch2.Enabled),
		EncodeChannelScale(Channel2, s.Ch2.Scale),
		EncodeChannelOffset(Channel2, s.Ch2.Offset),
		EncodeTimeScale(s.TimeScale),
		EncodeTimeOffset(s.TimeOffset),
		EncodeTriggerSource(s.Trigger.Source),
		EncodeTriggerSlope(s.Trigger.Slope),
		EncodeTriggerMode(s.Trigger.Mode),
		EncodeTriggerLevel(s.Trigger.Level),
	}
}

// EncodeSettingsDelta encodes only the fields that differ between two
// settings records, in the same order EncodeSettings uses
func EncodeSettingsDelta(prev, next *CaptureSettings) []CommandFrame {
	var frames []CommandFrame

	if prev.Ch1.Enabled != next.Ch1.Enabled {
		frames = append(frames, EncodeChannelEnable(Channel1, next.Ch1.Enabled))
	}
	if prev.Ch1.Scale != next.Ch1.Scale {
		frames = append(frames, EncodeChannelScale(Channel1, next.Ch1.Scale))
	}
	if prev.Ch1.Offset != next.Ch1.Offset {
		frames = append(frames, EncodeChannelOffset(Channel1, next.Ch1.Offset))
	}
	if prev.Ch2.Enabled != next.Ch2.Enabled {
		frames = append(frames, EncodeChannelEnable(Channel2, next.Ch2.Enabled))
	}
	if prev.Ch2.Scale != next.Ch2.Scale {
		frames = append(frames, EncodeChannelScale(Channel2, next.Ch2.Scale))
	}
	if prev.Ch2.Offset != next.Ch2.Offset {
		frames = append(frames, EncodeChannelOffset(Channel2, next.Ch2.Offset))
	}
	if prev.TimeScale != next.TimeScale {
		frames = append(frames, EncodeTimeScale(next.TimeScale))
	}
	if prev.TimeOffset != next.TimeOffset {
		frames = append(frames, EncodeTimeOffset(next.TimeOffset))
	}
	if prev.Trigger.Source != next.Trigger.Source {
		frames = append(frames, EncodeTriggerSource(next.Trigger.Source))
	}
	if prev.Trigger.Slope != next.Trigger.Slope {
		frames = append(frames, EncodeTriggerSlope(next.Trigger.Slope))
	}
	if prev.Trigger.Mode != next.Trigger.Mode {
		frames = append(frames, EncodeTriggerMode(next.Trigger.Mode))
	}
	if prev.Trigger.Level != next.Trigger.Level {
		frames = append(frames, EncodeTriggerLevel(next.Trigger.Level))
	}

	return frames
}

// EncodeScreenSelect switches the instrument front panel display
func EncodeScreenSelect(mode model.ScreenMode) (CommandFrame, error) {
	val, err := screenValue(mode)
	if err != nil {
		return CommandFrame{}, err
	}
	return newCommandFrame(FuncScreenSetting, ScreenSelect, [4]byte{val}), nil
}

// EncodeGeneratorWave selects the generator output shape
func EncodeGeneratorWave(wave model.GeneratorWave) (CommandFrame, error) {
	val, err := waveValue(wave)
	if err != nil {
		return CommandFrame{}, err
	}
	return newCommandFrame(FuncGeneratorSetting, GeneratorWaveType, [4]byte{val}), nil
}

// EncodeGeneratorFrequency sets the generator output frequency in hertz
func EncodeGeneratorFrequency(hz uint32) CommandFrame {
	var vals [4]byte
	binary.LittleEndian.PutUint32(vals[:], hz)
	return newCommandFrame(FuncGeneratorSetting, GeneratorFrequency, vals)
}

// EncodeGeneratorAmplitude sets the generator amplitude. The value
// travels as absolute millivolts plus a sign byte.
func EncodeGeneratorAmplitude(volts decimal.Decimal) CommandFrame {
	return newCommandFrame(FuncGeneratorSetting, GeneratorAmplitude, milliVolts(volts))
}

// EncodeGeneratorOffset sets the generator DC offset, encoded like the
// amplitude
func EncodeGeneratorOffset(volts decimal.Decimal) CommandFrame {
	return newCommandFrame(FuncGeneratorSetting, GeneratorOffset, milliVolts(volts))
}

// EncodeGeneratorRun starts or stops the generator output
func EncodeGeneratorRun(running bool) CommandFrame {
	return newCommandFrame(FuncGeneratorSetting, GeneratorRun, [4]byte{boolByte(running)})
}

// EncodeMeterQuery asks the multimeter for one reading in the given mode
func EncodeMeterQuery(mode model.MeterMode) (CommandFrame, error) {
	val, err := meterModeValue(mode)
	if err != nil {
		return CommandFrame{}, err
	}
	return newCommandFrame(FuncMeterQuery, MeterRead, [4]byte{val}), nil
}

func milliVolts(volts decimal.Decimal) [4]byte {
	mv := volts.Mul(decimal.NewFromInt(1000)).Abs().Round(0).IntPart()
	if mv > 65535 {
		mv = 65535
	}

	var vals [4]byte
	binary.LittleEndian.PutUint16(vals[0:2], uint16(mv))
	vals[2] = boolByte(volts.IsNegative())
	return vals
}

func screenValue(mode model.ScreenMode) (byte, error) {
	switch mode {
	case model.ScreenModeScope:
		return 0x00, nil
	case model.ScreenModeMultimeter:
		return 0x01, nil
	case model.ScreenModeGenerator:
		return 0x02, nil
	default:
		return 0, fmt.Errorf("unknown screen mode: %s", mode)
	}
}

func waveValue(wave model.GeneratorWave) (byte, error) {
	switch wave {
	case model.GeneratorWaveSine:
		return 0x00, nil
	case model.GeneratorWaveSquare:
		return 0x01, nil
	case model.GeneratorWaveTriangle:
		return 0x02, nil
	case model.GeneratorWaveRamp:
		return 0x03, nil
	case model.GeneratorWaveDC:
		return 0x04, nil
	default:
		return 0, fmt.Errorf("unknown generator wave: %s", wave)
	}
}

func meterModeValue(mode model.MeterMode) (byte, error) {
	switch mode {
	case model.MeterModeVoltageDC:
		return 0x00, nil
	case model.MeterModeVoltageAC:
		return 0x01, nil
	case model.MeterModeCurrentDC:
		return 0x02, nil
	case model.MeterModeCurrentAC:
		return 0x03, nil
	case model.MeterModeResistance:
		return 0x04, nil
	case model.MeterModeCapacitance:
		return 0x05, nil
	default:
		return 0, fmt.Errorf("unknown meter mode: %s", mode)
	}
}

func meterModeFromValue(val byte) (model.MeterMode, bool) {
	switch val {
	case 0x00:
		return model.MeterModeVoltageDC, true
	case 0x01:
		return model.MeterModeVoltageAC, true
	case 0x02:
		return model.MeterModeCurrentDC, true
	case 0x03:
		return model.MeterModeCurrentAC, true
	case 0x04:
		return model.MeterModeResistance, true
	case 0x05:
		return model.MeterModeCapacitance, true
	default:
		return "", false
	}
}
