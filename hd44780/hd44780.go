// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hd44780 controls Hitachi HD44780 compatible character LCDs wired
// to an I²C bus through an 8 bit I/O expander backpack.
//
// The expander exposes the controller in 4 bit mode: each byte is sent as two
// nibbles, each latched by a pulse on the EN line. The backpack also drives
// the register select line and the backlight transistor from the same
// expander byte.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
package hd44780

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/GermanBionicSystems/lcddrivers/lcd"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
)

const packageName = "hd44780"

// ErrNotImplemented is returned for display.TextDisplay operations the
// controller cannot do.
var ErrNotImplemented = fmt.Errorf("%s: %w", packageName, display.ErrNotImplemented)

func wrap(err error) error {
	if err == nil || strings.HasPrefix(err.Error(), packageName) {
		return err
	}
	return fmt.Errorf("%s: %w", packageName, err)
}

// Opts holds the optional settings of a Dev.
type Opts struct {
	// Timing overrides DefaultTiming.
	Timing *Timing
	// Sleeper overrides lcd.RealTime.
	Sleeper lcd.Sleeper
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{}

// Dev is a handle to an HD44780 display behind an I/O expander.
//
// A Dev is created uninitialized. Init runs the power-on sequence; every
// other operation fails with lcd.ErrNotInitialized until it succeeded.
type Dev struct {
	bus    i2c.Bus
	d      *i2c.Dev
	layout Layout
	proto  *Nibble
	timing Timing

	variant     Variant
	geometry    lcd.Geometry
	flags       lcd.Flags
	autoScroll  bool
	glyphs      lcd.GlyphStore
	initialized bool
	closed      bool

	// Address counter mirror. After a CGRAM upload the counter points into
	// CGRAM, so text writes select ddram again first.
	ddram   byte
	inCGRAM bool
}

// New returns an uninitialized Dev on the expander at address, wired as
// described by layout.
//
// If bus implements io.Closer, the Dev owns it and Close releases it.
func New(bus i2c.Bus, address uint16, layout Layout, opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	timing := DefaultTiming
	if opts.Timing != nil {
		timing = *opts.Timing
	}
	d := &i2c.Dev{Bus: bus, Addr: address}
	return &Dev{
		bus:    bus,
		d:      d,
		layout: layout,
		proto:  NewNibble(d, layout, &timing, opts.Sleeper),
		timing: timing,
	}
}

// NewPCF8574 returns an uninitialized Dev on a PCF8574 backpack.
func NewPCF8574(bus i2c.Bus, address uint16, opts *Opts) *Dev {
	return New(bus, address, PCF8574, opts)
}

// NewMCP23008 returns an uninitialized Dev on an Adafruit MCP23008 backpack.
func NewMCP23008(bus i2c.Bus, address uint16, opts *Opts) *Dev {
	return New(bus, address, MCP23008, opts)
}

// Open is New followed by Init.
func Open(bus i2c.Bus, address uint16, layout Layout, variant Variant, opts *Opts) (*Dev, error) {
	dev := New(bus, address, layout, opts)
	if err := dev.Init(variant, true, true); err != nil {
		return nil, err
	}
	return dev, nil
}

// Init runs the power-on sequence and makes the display usable.
//
// On failure the Dev stays uninitialized and the controller state is
// undefined; discard the Dev and create a new one. Init does not retry.
func (dev *Dev) Init(variant Variant, backlightOn, displayOn bool) error {
	if dev.closed {
		return wrap(lcd.ErrClosed)
	}
	if dev.initialized {
		return wrap(lcd.ErrAlreadyInitialized)
	}
	g, err := variant.Geometry()
	if err != nil {
		return err
	}
	// The controller only has 2 hardware lines; taller displays split them.
	function, _ := FunctionSet(Bus4Bit, TwoLines, Dots5x8)
	entry, _ := EntryMode(Increment, false)
	flags := lcd.Flags{On: displayOn}

	dev.proto.SetBacklight(backlightOn)
	if err := dev.proto.Reset(); err != nil {
		return wrap(err)
	}
	// Entry mode and display control are meaningless until function set
	// committed the bus width.
	if err := dev.proto.WriteCommand(function, DisplayControl(flags), entry); err != nil {
		return wrap(err)
	}
	dev.variant = variant
	dev.geometry = g
	dev.flags = flags
	dev.autoScroll = false
	dev.initialized = true
	return dev.Clear()
}

// Initialized reports whether Init succeeded.
func (dev *Dev) Initialized() bool {
	return dev.initialized
}

// Variant returns the variant given to Init.
func (dev *Dev) Variant() Variant {
	return dev.variant
}

// Geometry returns the display geometry.
func (dev *Dev) Geometry() lcd.Geometry {
	return dev.geometry
}

// Flags returns the display control flags.
func (dev *Dev) Flags() lcd.Flags {
	return dev.flags
}

// Backlit reports the backlight state.
func (dev *Dev) Backlit() bool {
	return dev.proto.Backlit()
}

func (dev *Dev) ready() error {
	if dev.closed {
		return wrap(lcd.ErrClosed)
	}
	if !dev.initialized {
		return wrap(lcd.ErrNotInitialized)
	}
	return nil
}

func (dev *Dev) command(cmd ...byte) error {
	return wrap(dev.proto.WriteCommand(cmd...))
}

// Clear clears the display and moves the cursor home.
func (dev *Dev) Clear() error {
	if err := dev.ready(); err != nil {
		return err
	}
	if err := dev.command(cmdClear); err != nil {
		return err
	}
	// The clear execution time is not documented, use a generous margin.
	dev.timing.Clear.Wait(dev.proto.sleeper)
	if err := dev.command(cmdHome); err != nil {
		return err
	}
	dev.timing.Home.Wait(dev.proto.sleeper)
	dev.ddram = 0
	dev.inCGRAM = false
	return nil
}

// Home moves the cursor to (0, 0) and undoes any display shift.
func (dev *Dev) Home() error {
	if err := dev.ready(); err != nil {
		return err
	}
	if err := dev.command(cmdHome); err != nil {
		return err
	}
	dev.timing.Home.Wait(dev.proto.sleeper)
	dev.ddram = 0
	dev.inCGRAM = false
	return nil
}

// SetCursorPosition moves the cursor to column x of row y, both 0-based.
func (dev *Dev) SetCursorPosition(x, y int) error {
	if err := dev.ready(); err != nil {
		return err
	}
	addr, err := dev.geometry.Address(x, y)
	if err != nil {
		return wrap(err)
	}
	return dev.setDDRAM(addr)
}

func (dev *Dev) setDDRAM(addr byte) error {
	cmd, err := SetDDRAMAddress(int(addr))
	if err != nil {
		return err
	}
	if err := dev.command(cmd); err != nil {
		return err
	}
	dev.ddram = addr
	dev.inCGRAM = false
	return nil
}

// encode converts text to character codes. Only runes up to 0xff have a code;
// 0x00 to 0x07 print the custom glyphs.
func encode(text string) ([]byte, error) {
	b := make([]byte, 0, len(text))
	for _, r := range text {
		if r < 0 || r > 0xff {
			return nil, fmt.Errorf("%s: rune %q has no character code: %w", packageName, r, lcd.ErrOutOfRange)
		}
		b = append(b, byte(r))
	}
	return b, nil
}

// WriteText writes text at the cursor position.
//
// Text is not wrapped: characters past the end of a row go to the DDRAM
// following it, which may be off screen or on another row.
func (dev *Dev) WriteText(text string) error {
	if err := dev.ready(); err != nil {
		return err
	}
	b, err := encode(text)
	if err != nil {
		return err
	}
	return dev.writeData(b)
}

// WriteTextAtLine writes text at the start of row.
func (dev *Dev) WriteTextAtLine(text string, row int) error {
	if err := dev.ready(); err != nil {
		return err
	}
	b, err := encode(text)
	if err != nil {
		return err
	}
	if err := dev.SetCursorPosition(0, row); err != nil {
		return err
	}
	return dev.writeData(b)
}

func (dev *Dev) writeData(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if dev.inCGRAM {
		if err := dev.setDDRAM(dev.ddram); err != nil {
			return err
		}
	}
	if err := wrap(dev.proto.WriteData(b)); err != nil {
		return err
	}
	dev.ddram = AdvanceDDRAM(dev.ddram, len(b), true)
	return nil
}

// SetCursorStyle shows or hides the underline cursor and the blinking block.
func (dev *Dev) SetCursorStyle(visible, blinking bool) error {
	if err := dev.ready(); err != nil {
		return err
	}
	dev.flags = dev.flags.WithCursor(visible, blinking)
	return dev.command(DisplayControl(dev.flags))
}

// SetDisplayOn turns the display on or off. The DDRAM content, the cursor
// style and the backlight are unaffected.
func (dev *Dev) SetDisplayOn(on bool) error {
	if err := dev.ready(); err != nil {
		return err
	}
	dev.flags = dev.flags.WithOn(on)
	return dev.command(DisplayControl(dev.flags))
}

// SetBacklightOn turns the backlight on or off immediately.
func (dev *Dev) SetBacklightOn(on bool) error {
	if err := dev.ready(); err != nil {
		return err
	}
	return wrap(dev.proto.Backlight(on))
}

// SetCustomGlyph defines glyph index (0-7). rows are 8 rows, top first,
// using the 5 least significant bits. The glyph is displayed by writing
// the character code index.
func (dev *Dev) SetCustomGlyph(index int, rows []byte) error {
	if err := dev.ready(); err != nil {
		return err
	}
	if err := dev.glyphs.Set(index, rows); err != nil {
		return wrap(err)
	}
	cmd, _ := SetCGRAMAddress(index * lcd.GlyphRows)
	return dev.uploadGlyphs(cmd, rows)
}

// SetAllCustomGlyphs defines the 8 glyphs at once from 64 bytes.
func (dev *Dev) SetAllCustomGlyphs(p []byte) error {
	if err := dev.ready(); err != nil {
		return err
	}
	if err := dev.glyphs.SetAll(p); err != nil {
		return wrap(err)
	}
	cmd, _ := SetCGRAMAddress(0)
	return dev.uploadGlyphs(cmd, p)
}

func (dev *Dev) uploadGlyphs(cmd byte, p []byte) error {
	if err := dev.command(cmd); err != nil {
		return err
	}
	dev.inCGRAM = true
	return wrap(dev.proto.WriteData(p))
}

// CustomGlyph returns the rows of glyph index.
func (dev *Dev) CustomGlyph(index int) ([]byte, error) {
	if err := dev.ready(); err != nil {
		return nil, err
	}
	g, err := dev.glyphs.Glyph(index)
	return g, wrap(err)
}

// CustomGlyphs returns the whole 64 bytes glyph table.
func (dev *Dev) CustomGlyphs() ([]byte, error) {
	if err := dev.ready(); err != nil {
		return nil, err
	}
	return dev.glyphs.Bytes(), nil
}

// MoveCursor moves the cursor one position left or right.
func (dev *Dev) MoveCursor(right bool) error {
	if err := dev.ready(); err != nil {
		return err
	}
	if err := dev.command(CursorShift(false, right)); err != nil {
		return err
	}
	dev.ddram = AdvanceDDRAM(dev.ddram, 1, right)
	return nil
}

// ScrollDisplay shifts the whole display one position left or right.
func (dev *Dev) ScrollDisplay(right bool) error {
	if err := dev.ready(); err != nil {
		return err
	}
	return dev.command(CursorShift(true, right))
}

// AutoScroll enables or disables shifting the display on each character
// written.
func (dev *Dev) AutoScroll(enabled bool) error {
	if err := dev.ready(); err != nil {
		return err
	}
	entry, _ := EntryMode(Increment, enabled)
	if err := dev.command(entry); err != nil {
		return err
	}
	dev.autoScroll = enabled
	return nil
}

// Cols returns the number of columns.
func (dev *Dev) Cols() int {
	return dev.geometry.Width
}

// Rows returns the number of rows.
func (dev *Dev) Rows() int {
	return dev.geometry.Height
}

// MinCol returns the first column number accepted by MoveTo.
func (dev *Dev) MinCol() int {
	return 1
}

// MinRow returns the first row number accepted by MoveTo.
func (dev *Dev) MinRow() int {
	return 1
}

// MoveTo moves the cursor to a 1-based row and column.
func (dev *Dev) MoveTo(row, col int) error {
	return dev.SetCursorPosition(col-dev.MinCol(), row-dev.MinRow())
}

// Move the cursor forward or backward.
func (dev *Dev) Move(dir display.CursorDirection) error {
	switch dir {
	case display.Forward:
		return dev.MoveCursor(true)
	case display.Backward:
		return dev.MoveCursor(false)
	default:
		return ErrNotImplemented
	}
}

// Set the cursor mode. You can pass multiple arguments.
// Cursor(CursorUnderline, CursorBlink)
func (dev *Dev) Cursor(modes ...display.CursorMode) error {
	var visible, blinking bool
	for _, mode := range modes {
		switch mode {
		case display.CursorOff:
			visible = false
			blinking = false
		case display.CursorUnderline:
			visible = true
		case display.CursorBlink, display.CursorBlock:
			blinking = true
		default:
			return fmt.Errorf("%s: unexpected cursor: %d", packageName, mode)
		}
	}
	return dev.SetCursorStyle(visible, blinking)
}

// Display turns the display on or off.
func (dev *Dev) Display(on bool) error {
	return dev.SetDisplayOn(on)
}

// Backlight turns the backlight off for intensity 0 and on otherwise.
func (dev *Dev) Backlight(intensity display.Intensity) error {
	return dev.SetBacklightOn(intensity > 0)
}

// Write writes character codes at the cursor position.
func (dev *Dev) Write(p []byte) (int, error) {
	if err := dev.ready(); err != nil {
		return 0, err
	}
	if err := dev.writeData(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString writes text at the cursor position.
func (dev *Dev) WriteString(text string) (int, error) {
	if err := dev.WriteText(text); err != nil {
		return 0, err
	}
	return len(text), nil
}

// Halt clears the display, and turns the display and the backlight off. It
// is a no-op on an uninitialized Dev.
func (dev *Dev) Halt() error {
	if !dev.initialized || dev.closed {
		return nil
	}
	return errors.Join(dev.Clear(), dev.SetDisplayOn(false), dev.SetBacklightOn(false))
}

// Close releases the bus when the Dev owns it. The display is left as is.
// Calling Close more than once is a no-op.
func (dev *Dev) Close() error {
	if dev.closed {
		return nil
	}
	dev.closed = true
	dev.initialized = false
	if c, ok := dev.bus.(io.Closer); ok {
		return wrap(c.Close())
	}
	return nil
}

func (dev *Dev) String() string {
	return fmt.Sprintf("%s{%s, %s, %s}", packageName, dev.d, dev.layout.Name, dev.geometry)
}

var _ lcd.Display = &Dev{}
var _ display.TextDisplay = &Dev{}
var _ display.DisplayBacklight = &Dev{}
var _ conn.Resource = &Dev{}
