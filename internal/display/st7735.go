package display

import (
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// ST7735S commands.
const (
	cmdSoftReset = 0x01
	cmdSleepOut  = 0x11
	cmdNormalOn  = 0x13
	cmdInvertOff = 0x20
	cmdInvertOn  = 0x21
	cmdDisplayOn = 0x29
	cmdColumnSet = 0x2A
	cmdRowSet    = 0x2B
	cmdMemWrite  = 0x2C
	cmdMemAccess = 0x36
	cmdPixelFmt  = 0x3A
	cmdFrameCtl1 = 0xB1
	cmdFrameCtl2 = 0xB2
	cmdFrameCtl3 = 0xB3
	cmdInvertCtl = 0xB4
	cmdPowerCtl1 = 0xC0
	cmdPowerCtl2 = 0xC1
	cmdPowerCtl3 = 0xC2
	cmdPowerCtl4 = 0xC3
	cmdPowerCtl5 = 0xC4
	cmdVComCtl   = 0xC5
	cmdGammaPos  = 0xE0
	cmdGammaNeg  = 0xE1
)

const (
	// spidev rejects transfers larger than its default buffer.
	maxTransfer = 4096
	spiSpeed    = 4 * physic.MegaHertz
)

var (
	ErrPanel      = errors.New("lcd panel failed")
	errPanelShape = errors.New("rotated panels must be square")
)

// Bus sends bytes to the panel. spi.Conn satisfies it.
type Bus interface {
	Tx(w []byte, r []byte) error
}

// LCDPins are the control lines next to the SPI bus. Backlight may be nil.
type LCDPins struct {
	DC        gpio.PinOut
	Reset     gpio.PinOut
	Backlight gpio.PinOut
}

// Panel describes how controller memory maps onto the glass.
type Panel struct {
	Width      int
	Height     int
	OffsetLeft int
	OffsetTop  int
	// Rotate turns frames a quarter turn counter-clockwise before sending.
	Rotate     bool
	Invert     bool
	BGR        bool
}

// WaveshareLCD is the 1.44" HAT panel mounted a quarter turn.
var WaveshareLCD = Panel{
	Width:      128,
	Height:     128,
	OffsetLeft: 2,
	OffsetTop:  3,
	Rotate:     true,
	Invert:     true,
	BGR:        true,
}

// Waveshare HAT control lines, BCM numbering.
const (
	WavesharePinDC        = "GPIO25"
	WavesharePinReset     = "GPIO27"
	WavesharePinBacklight = "GPIO24"
)

// ST7735 is a Sink for an ST7735S panel on SPI.
type ST7735 struct {
	bus    Bus
	pins   LCDPins
	panel  Panel
	back   *image.RGBA
	pixels []byte
	closer io.Closer
	sleep  func(time.Duration)
	closed bool
}

func NewST7735(bus Bus, pins LCDPins, panel Panel) (*ST7735, error) {
	if panel.Rotate && panel.Width != panel.Height {
		return nil, errPanelShape
	}

	return &ST7735{
		bus:    bus,
		pins:   pins,
		panel:  panel,
		back:   image.NewRGBA(image.Rect(0, 0, panel.Width, panel.Height)),
		pixels: make([]byte, panel.Width*panel.Height*2),
		sleep:  time.Sleep,
	}, nil
}

// WithSleep replaces the reset and power-up delays, used by tests.
func (s *ST7735) WithSleep(sleep func(time.Duration)) *ST7735 {
	s.sleep = sleep

	return s
}

// OpenST7735 opens the SPI port by name ("" is the first one), resolves the
// control pins with lookup and brings the panel up. periph host drivers must
// be loaded first.
func OpenST7735(port string, lookup func(name string) gpio.PinIO, panel Panel) (*ST7735, error) {
	pins := LCDPins{}

	for name, target := range map[string]*gpio.PinOut{
		WavesharePinDC:        &pins.DC,
		WavesharePinReset:     &pins.Reset,
		WavesharePinBacklight: &pins.Backlight,
	} {
		pin := lookup(name)
		if pin == nil {
			return nil, fmt.Errorf("%w: pin %s not found", ErrPanel, name)
		}

		*target = pin
	}

	spiPort, errPort := spireg.Open(port)
	if errPort != nil {
		return nil, errors.Join(errPort, ErrPanel)
	}

	conn, errConn := spiPort.Connect(spiSpeed, spi.Mode0, 8)
	if errConn != nil {
		_ = spiPort.Close()

		return nil, errors.Join(errConn, ErrPanel)
	}

	lcd, errLCD := NewST7735(conn, pins, panel)
	if errLCD != nil {
		_ = spiPort.Close()

		return nil, errors.Join(errLCD, ErrPanel)
	}

	lcd.closer = spiPort

	if err := lcd.Init(); err != nil {
		_ = lcd.Close()

		return nil, err
	}

	return lcd, nil
}

// Init resets the controller and runs the power-up sequence.
func (s *ST7735) Init() error {
	if err := s.reset(); err != nil {
		return errors.Join(err, ErrPanel)
	}

	madctl := byte(0xC0)
	if s.panel.BGR {
		madctl |= 0x08
	}

	invert := byte(cmdInvertOff)
	if s.panel.Invert {
		invert = cmdInvertOn
	}

	steps := []struct {
		cmd   byte
		data  []byte
		pause time.Duration
	}{
		{cmd: cmdSoftReset, pause: 150 * time.Millisecond},
		{cmd: cmdSleepOut, pause: 500 * time.Millisecond},
		{cmd: cmdFrameCtl1, data: []byte{0x01, 0x2C, 0x2D}},
		{cmd: cmdFrameCtl2, data: []byte{0x01, 0x2C, 0x2D}},
		{cmd: cmdFrameCtl3, data: []byte{0x01, 0x2C, 0x2D, 0x01, 0x2C, 0x2D}},
		{cmd: cmdInvertCtl, data: []byte{0x07}},
		{cmd: cmdPowerCtl1, data: []byte{0xA2, 0x02, 0x84}},
		{cmd: cmdPowerCtl2, data: []byte{0x0A, 0x00}},
		{cmd: cmdPowerCtl3, data: []byte{0x0A, 0x00}},
		{cmd: cmdPowerCtl4, data: []byte{0x8A, 0x2A}},
		{cmd: cmdPowerCtl5, data: []byte{0x8A, 0xEE}},
		{cmd: cmdVComCtl, data: []byte{0x0E}},
		{cmd: invert},
		{cmd: cmdMemAccess, data: []byte{madctl}},
		{cmd: cmdPixelFmt, data: []byte{0x05}},
		{cmd: cmdGammaPos, data: []byte{
			0x02, 0x1C, 0x07, 0x12, 0x37, 0x32, 0x29, 0x2D,
			0x29, 0x25, 0x2B, 0x39, 0x00, 0x01, 0x03, 0x10,
		}},
		{cmd: cmdGammaNeg, data: []byte{
			0x03, 0x1D, 0x07, 0x06, 0x2E, 0x2C, 0x29, 0x2D,
			0x2E, 0x2E, 0x37, 0x3F, 0x00, 0x00, 0x02, 0x10,
		}},
		{cmd: cmdNormalOn, pause: 10 * time.Millisecond},
		{cmd: cmdDisplayOn, pause: 100 * time.Millisecond},
	}

	for _, step := range steps {
		if err := s.command(step.cmd, step.data...); err != nil {
			return errors.Join(err, ErrPanel)
		}

		if step.pause > 0 {
			s.sleep(step.pause)
		}
	}

	if s.pins.Backlight != nil {
		if err := s.pins.Backlight.Out(gpio.High); err != nil {
			return errors.Join(err, ErrPanel)
		}
	}

	return nil
}

func (s *ST7735) reset() error {
	if s.pins.Reset == nil {
		return nil
	}

	for _, level := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
		if err := s.pins.Reset.Out(level); err != nil {
			return err
		}

		s.sleep(100 * time.Millisecond)
	}

	return nil
}

func (s *ST7735) command(cmd byte, data ...byte) error {
	if err := s.pins.DC.Out(gpio.Low); err != nil {
		return err
	}

	if err := s.bus.Tx([]byte{cmd}, nil); err != nil {
		return err
	}

	if len(data) == 0 {
		return nil
	}

	if err := s.pins.DC.Out(gpio.High); err != nil {
		return err
	}

	for start := 0; start < len(data); start += maxTransfer {
		if err := s.bus.Tx(data[start:min(start+maxTransfer, len(data))], nil); err != nil {
			return err
		}
	}

	return nil
}

func (s *ST7735) Buffer() *image.RGBA {
	return s.back
}

// Present converts the frame to RGB565 and writes the whole panel.
func (s *ST7735) Present(frame *image.RGBA) error {
	if s.closed {
		return ErrClosed
	}

	s.encode(frame)

	x0, x1 := s.panel.OffsetLeft, s.panel.OffsetLeft+s.panel.Width-1
	y0, y1 := s.panel.OffsetTop, s.panel.OffsetTop+s.panel.Height-1

	if err := s.command(cmdColumnSet, 0, byte(x0), 0, byte(x1)); err != nil {
		return errors.Join(err, ErrPanel)
	}

	if err := s.command(cmdRowSet, 0, byte(y0), 0, byte(y1)); err != nil {
		return errors.Join(err, ErrPanel)
	}

	if err := s.command(cmdMemWrite, s.pixels...); err != nil {
		return errors.Join(err, ErrPanel)
	}

	return nil
}

func (s *ST7735) encode(frame *image.RGBA) {
	width, height := s.panel.Width, s.panel.Height
	bounds := frame.Bounds()

	for y := range height {
		for x := range width {
			srcX, srcY := x, y
			if s.panel.Rotate {
				srcX, srcY = width-1-y, x
			}

			offset := (y*width + x) * 2

			pt := image.Pt(bounds.Min.X+srcX, bounds.Min.Y+srcY)
			if !pt.In(bounds) {
				s.pixels[offset], s.pixels[offset+1] = 0, 0

				continue
			}

			c := frame.RGBAAt(pt.X, pt.Y)
			value := uint16(c.R&0xF8)<<8 | uint16(c.G&0xFC)<<3 | uint16(c.B>>3)
			s.pixels[offset] = byte(value >> 8)
			s.pixels[offset+1] = byte(value)
		}
	}
}

// Close turns the backlight off and releases the SPI port.
func (s *ST7735) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true

	var errs []error

	if s.pins.Backlight != nil {
		if err := s.pins.Backlight.Out(gpio.Low); err != nil {
			errs = append(errs, err)
		}
	}

	if s.closer != nil {
		if err := s.closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
