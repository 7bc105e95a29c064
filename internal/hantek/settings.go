// internal/hantek/settings.go
package hantek

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSettings indicates a settings record that must not be encoded
var ErrInvalidSettings = errors.New("invalid settings")

// Raw sample geometry. The ADC reports one byte per sample inside a
// 202-count window spread over 8 vertical divisions.
const (
	SampleMin    = 29
	SampleMax    = 231
	SampleCenter = 130

	countsPerDivision = 202.0 / 8.0
)

// Capture depth limits, in samples per enabled channel
const (
	MinDepth = 1
	MaxDepth = 6000
)

// Channel identifies one of the two scope inputs
type Channel int

const (
	Channel1 Channel = iota
	Channel2
)

// String returns the front panel name of the channel
func (c Channel) String() string {
	switch c {
	case Channel1:
		return "CH1"
	case Channel2:
		return "CH2"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// Valid returns whether the channel is one of the two inputs
func (c Channel) Valid() bool {
	return c == Channel1 || c == Channel2
}

// VoltScale is an index into the vertical sensitivity ladder
type VoltScale int

// Vertical sensitivities, 10 mV/div to 10 V/div in 1-2-5 steps
const (
	VoltScale10mV VoltScale = iota
	VoltScale20mV
	VoltScale50mV
	VoltScale100mV
	VoltScale200mV
	VoltScale500mV
	VoltScale1V
	VoltScale2V
	VoltScale5V
	VoltScale10V
)

var voltScaleDivisions = [...]float64{
	0.01, 0.02, 0.05,
	0.1, 0.2, 0.5,
	1, 2, 5,
	10,
}

// Valid returns whether the scale index is on the ladder
func (v VoltScale) Valid() bool {
	return v >= 0 && int(v) < len(voltScaleDivisions)
}

// VoltsPerDiv returns the sensitivity of this scale in volts per division
func (v VoltScale) VoltsPerDiv() float64 {
	if !v.Valid() {
		return 0
	}
	return voltScaleDivisions[v]
}

// Volts converts one raw ADC byte to volts at this scale
func (v VoltScale) Volts(raw byte) float64 {
	return (float64(raw) - SampleCenter) / countsPerDivision * v.VoltsPerDiv()
}

// String formats the scale as shown on the instrument, e.g. "500mV/div"
func (v VoltScale) String() string {
	if !v.Valid() {
		return fmt.Sprintf("VoltScale(%d)", int(v))
	}
	div := voltScaleDivisions[v]
	if div < 1 {
		return fmt.Sprintf("%gmV/div", div*1000)
	}
	return fmt.Sprintf("%gV/div", div)
}

// TimeScale is an index into the horizontal timebase ladder
type TimeScale int

var timeScaleDivisions = [...]time.Duration{
	5 * time.Nanosecond, 10 * time.Nanosecond, 20 * time.Nanosecond, 50 * time.Nanosecond,
	100 * time.Nanosecond, 200 * time.Nanosecond, 500 * time.Nanosecond,
	1 * time.Microsecond, 2 * time.Microsecond, 5 * time.Microsecond,
	10 * time.Microsecond, 20 * time.Microsecond, 50 * time.Microsecond,
	100 * time.Microsecond, 200 * time.Microsecond, 500 * time.Microsecond,
	1 * time.Millisecond, 2 * time.Millisecond, 5 * time.Millisecond,
	10 * time.Millisecond, 20 * time.Millisecond, 50 * time.Millisecond,
	100 * time.Millisecond, 200 * time.Millisecond, 500 * time.Millisecond,
	1 * time.Second, 2 * time.Second, 5 * time.Second,
	10 * time.Second, 20 * time.Second, 50 * time.Second,
	100 * time.Second, 200 * time.Second, 500 * time.Second,
}

// Valid returns whether the timebase index is on the ladder
func (t TimeScale) Valid() bool {
	return t >= 0 && int(t) < len(timeScaleDivisions)
}

// DivDuration returns the duration of one horizontal division
func (t TimeScale) DivDuration() time.Duration {
	if !t.Valid() {
		return 0
	}
	return timeScaleDivisions[t]
}

// String formats the timebase as shown on the instrument, e.g. "1ms/div"
func (t TimeScale) String() string {
	if !t.Valid() {
		return fmt.Sprintf("TimeScale(%d)", int(t))
	}
	return timeScaleDivisions[t].String() + "/div"
}

// TimeScaleFor returns the ladder index matching the given division
// duration exactly
func TimeScaleFor(d time.Duration) (TimeScale, bool) {
	for i, div := range timeScaleDivisions {
		if div == d {
			return TimeScale(i), true
		}
	}
	return 0, false
}

// TriggerSource selects which channel arms the trigger
type TriggerSource int

const (
	TriggerSourceCh1 TriggerSource = iota
	TriggerSourceCh2
)

// Valid returns whether the source is a known channel
func (s TriggerSource) Valid() bool {
	return s == TriggerSourceCh1 || s == TriggerSourceCh2
}

// Channel returns the scope input the source refers to
func (s TriggerSource) Channel() Channel {
	if s == TriggerSourceCh2 {
		return Channel2
	}
	return Channel1
}

// String returns the front panel name of the trigger source
func (s TriggerSource) String() string {
	return s.Channel().String()
}

// TriggerSlope selects the edge direction that fires the trigger
type TriggerSlope int

const (
	TriggerSlopeRising TriggerSlope = iota
	TriggerSlopeFalling
)

// Valid returns whether the slope is a known edge direction
func (s TriggerSlope) Valid() bool {
	return s == TriggerSlopeRising || s == TriggerSlopeFalling
}

// String returns the slope name
func (s TriggerSlope) String() string {
	if s == TriggerSlopeFalling {
		return "FALLING"
	}
	return "RISING"
}

// TriggerMode selects the acquisition arming behavior
type TriggerMode int

const (
	TriggerModeAuto TriggerMode = iota
	TriggerModeNormal
	TriggerModeSingle
)

// Valid returns whether the mode is a known arming behavior
func (m TriggerMode) Valid() bool {
	return m >= TriggerModeAuto && m <= TriggerModeSingle
}

// String returns the mode name
func (m TriggerMode) String() string {
	switch m {
	case TriggerModeNormal:
		return "NORMAL"
	case TriggerModeSingle:
		return "SINGLE"
	default:
		return "AUTO"
	}
}

// ChannelSettings holds the per-channel acquisition configuration
type ChannelSettings struct {
	Enabled bool      `json:"enabled"`
	Scale   VoltScale `json:"scale"`
	Offset  int       `json:"offset"`
}

// TriggerSettings holds the trigger configuration
type TriggerSettings struct {
	Source TriggerSource `json:"source"`
	Slope  TriggerSlope  `json:"slope"`
	Mode   TriggerMode   `json:"mode"`
	Level  int           `json:"level"`
}

// CaptureSettings is the full acquisition configuration pushed to the
// instrument. Offsets and the trigger level are expressed in the raw
// 29..231 sample window.
type CaptureSettings struct {
	Ch1        ChannelSettings `json:"ch1"`
	Ch2        ChannelSettings `json:"ch2"`
	TimeScale  TimeScale       `json:"time_scale"`
	TimeOffset int             `json:"time_offset"`
	Trigger    TriggerSettings `json:"trigger"`
	Depth      int             `json:"depth"`
}

// DefaultSettings returns the configuration the instrument boots with
func DefaultSettings() CaptureSettings {
	return CaptureSettings{
		Ch1: ChannelSettings{
			Enabled: true,
			Scale:   VoltScale1V,
			Offset:  SampleCenter,
		},
		Ch2: ChannelSettings{
			Enabled: true,
			Scale:   VoltScale1V,
			Offset:  SampleCenter,
		},
		TimeScale:  mustTimeScale(1 * time.Millisecond),
		TimeOffset: 128,
		Trigger: TriggerSettings{
			Source: TriggerSourceCh1,
			Slope:  TriggerSlopeRising,
			Mode:   TriggerModeAuto,
			Level:  SampleCenter,
		},
		Depth: 1200,
	}
}

func mustTimeScale(d time.Duration) TimeScale {
	ts, ok := TimeScaleFor(d)
	if !ok {
		panic(fmt.Sprintf("no timebase for %s", d))
	}
	return ts
}

// Validate rejects a settings record before any frame is encoded
func (s *CaptureSettings) Validate() error {
	if !s.Ch1.Enabled && !s.Ch2.Enabled {
		return fmt.Errorf("%w: at least one channel must be enabled", ErrInvalidSettings)
	}

	if err := s.Ch1.validate(Channel1); err != nil {
		return err
	}
	if err := s.Ch2.validate(Channel2); err != nil {
		return err
	}

	if !s.TimeScale.Valid() {
		return fmt.Errorf("%w: unknown timebase index %d", ErrInvalidSettings, int(s.TimeScale))
	}
	if s.TimeOffset < 0 || s.TimeOffset > 255 {
		return fmt.Errorf("%w: time offset %d outside 0..255", ErrInvalidSettings, s.TimeOffset)
	}

	if !s.Trigger.Source.Valid() {
		return fmt.Errorf("%w: unknown trigger source %d", ErrInvalidSettings, int(s.Trigger.Source))
	}
	if !s.Trigger.Slope.Valid() {
		return fmt.Errorf("%w: unknown trigger slope %d", ErrInvalidSettings, int(s.Trigger.Slope))
	}
	if !s.Trigger.Mode.Valid() {
		return fmt.Errorf("%w: unknown trigger mode %d", ErrInvalidSettings, int(s.Trigger.Mode))
	}
	if s.Trigger.Level < SampleMin || s.Trigger.Level > SampleMax {
		return fmt.Errorf("%w: trigger level %d outside %d..%d", ErrInvalidSettings, s.Trigger.Level, SampleMin, SampleMax)
	}
	if src := s.Trigger.Source; !s.channel(src.Channel()).Enabled {
		return fmt.Errorf("%w: trigger source %s requires that channel enabled", ErrInvalidSettings, src)
	}

	if s.Depth < MinDepth || s.Depth > MaxDepth {
		return fmt.Errorf("%w: depth %d outside %d..%d", ErrInvalidSettings, s.Depth, MinDepth, MaxDepth)
	}

	return nil
}

func (c *ChannelSettings) validate(ch Channel) error {
	if !c.Scale.Valid() {
		return fmt.Errorf("%w: %s: unknown scale index %d", ErrInvalidSettings, ch, int(c.Scale))
	}
	if c.Offset < SampleMin || c.Offset > SampleMax {
		return fmt.Errorf("%w: %s: offset %d outside %d..%d", ErrInvalidSettings, ch, c.Offset, SampleMin, SampleMax)
	}
	return nil
}

func (s *CaptureSettings) channel(ch Channel) *ChannelSettings {
	if ch == Channel2 {
		return &s.Ch2
	}
	return &s.Ch1
}

// ActiveChannels returns how many channels are enabled
func (s *CaptureSettings) ActiveChannels() int {
	n := 0
	if s.Ch1.Enabled {
		n++
	}
	if s.Ch2.Enabled {
		n++
	}
	return n
}

// SampleCounts returns the per-channel sample counts a capture request
// for this configuration asks for
func (s *CaptureSettings) SampleCounts() (ch1, ch2 int) {
	if s.Ch1.Enabled {
		ch1 = s.Depth
	}
	if s.Ch2.Enabled {
		ch2 = s.Depth
	}
	return ch1, ch2
}
