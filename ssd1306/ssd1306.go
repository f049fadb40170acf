// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"strings"

	"github.com/GermanBionicSystems/lcddrivers/lcd"
	"golang.org/x/image/font"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

const packageName = "ssd1306"

// ErrNotImplemented is returned for operations the controller cannot do.
var ErrNotImplemented = fmt.Errorf("%s: %w", packageName, display.ErrNotImplemented)

func wrap(err error) error {
	if err == nil || strings.HasPrefix(err.Error(), packageName) {
		return err
	}
	return fmt.Errorf("%s: %w", packageName, err)
}

// DefaultAddress is the I²C address of most modules. Some can be strapped to
// 0x3D.
const DefaultAddress = 0x3C

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Addr:  DefaultAddress,
	MaxTx: DefaultMaxTx,
}

// Opts defines the options for the device.
type Opts struct {
	// The I2C address of the display. 0 selects DefaultAddress.
	Addr uint16
	// MaxTx is the maximum payload of one data transaction. 0 selects
	// DefaultMaxTx.
	MaxTx int
	// Face replaces the 7x13 bitmap face used for text.
	Face font.Face
	// Sequential corresponds to the Sequential/Alternative COM pin configuration
	// in the OLED panel hardware. Try toggling this if half the rows appear to be
	// missing on your display. 32 pixel high panels are always sequential.
	Sequential bool
	// MirrorVertical corresponds to the COM remap configuration in the OLED panel
	// hardware. Try toggling this if the display is flipped vertically.
	MirrorVertical bool
	// MirrorHorizontal corresponds to the SEG remap configuration in the OLED panel
	// hardware. Try toggling this if the display is flipped horizontally.
	MirrorHorizontal bool
	// SwapTopBottom corresponds to the Left/Right remap COM pin configuration in
	// the OLED panel hardware. Try toggling this if the top and bottom halves of
	// your display are swapped.
	SwapTopBottom bool
}

// Panel is the state of the panel settings.
type Panel struct {
	On       bool
	Contrast byte
	Inverse  bool
	AllOn    bool
}

// Dev is an open handle to the display controller.
//
// A Dev is created uninitialized. Init sends the reset flow; every other
// operation fails with lcd.ErrNotInitialized until it succeeded.
type Dev struct {
	bus    i2c.Bus
	d      *i2c.Dev
	opts   Opts
	proto  *Framed
	render *renderer

	variant  Variant
	rect     image.Rectangle
	geometry lcd.Geometry
	glyphs   lcd.GlyphStore
	contrast byte
	inverse  bool
	allOn    bool

	// See page 25 for the GDDRAM pages structure. There is 8 pages, each
	// covering an horizontal band of 8 pixels high (1 byte) for 128 bytes.
	// buffer mirrors the GDDRAM, next is the frame being composed.
	buffer []byte
	next   *image1bit.VerticalLSB
	// redraw forces the next update to send the whole frame.
	redraw bool

	// Character code shown in each text cell, or noChar.
	cells  [][]int
	cx, cy int

	initialized bool
	closed      bool
}

// NewI2C returns an uninitialized Dev that communicates over I²C to a SSD1306
// display controller.
//
// If bus implements io.Closer, the Dev owns it and Close releases it.
func NewI2C(bus i2c.Bus, opts *Opts) *Dev {
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	if o.Addr == 0 {
		o.Addr = DefaultAddress
	}
	// Maximum clock speed is 1/2.5µs = 400KHz.
	d := &i2c.Dev{Bus: bus, Addr: o.Addr}
	return &Dev{
		bus:    bus,
		d:      d,
		opts:   o,
		proto:  NewFramed(d, o.MaxTx),
		render: newRenderer(o.Face),
	}
}

// Open is NewI2C followed by Init with the panel on.
func Open(bus i2c.Bus, variant Variant, opts *Opts) (*Dev, error) {
	dev := NewI2C(bus, opts)
	if err := dev.Init(variant, true, true); err != nil {
		return nil, err
	}
	return dev, nil
}

// Init fully resets the controller settings and clears the GDDRAM.
//
// An OLED has no backlight, the panel is powered on only when both
// backlightOn and displayOn are true.
//
// On failure the Dev stays uninitialized.
func (d *Dev) Init(variant Variant, backlightOn, displayOn bool) error {
	if d.closed {
		return wrap(lcd.ErrClosed)
	}
	if d.initialized {
		return wrap(lcd.ErrAlreadyInitialized)
	}
	w, h, err := variant.Size()
	if err != nil {
		return err
	}
	if err := d.proto.Reset(); err != nil {
		return wrap(err)
	}
	if err := d.proto.WriteCommand(initCommands(&d.opts, w, h, backlightOn && displayOn)...); err != nil {
		return wrap(err)
	}
	rows := h / CellHeight
	g := lcd.Geometry{Width: w / CellWidth, Height: rows, LineOffset: make([]byte, rows)}
	for y := range g.LineOffset {
		g.LineOffset[y] = byte(y * CellHeight / 8)
	}
	d.variant = variant
	d.rect = image.Rect(0, 0, w, h)
	d.geometry = g
	d.buffer = make([]byte, w*h/8)
	d.next = image1bit.NewVerticalLSB(d.rect)
	d.cells = make([][]int, rows)
	for y := range d.cells {
		d.cells[y] = make([]int, g.Width)
	}
	d.contrast = 0xFF
	d.inverse = false
	d.allOn = false
	// The GDDRAM content is random at power up.
	d.redraw = true
	d.initialized = true
	return d.Clear()
}

// Initialized reports whether Init succeeded.
func (d *Dev) Initialized() bool {
	return d.initialized
}

// Variant returns the variant given to Init.
func (d *Dev) Variant() Variant {
	return d.variant
}

// Geometry returns the text geometry. LineOffset holds the first page of each
// text row.
func (d *Dev) Geometry() lcd.Geometry {
	return d.geometry
}

// Panel returns the panel settings.
func (d *Dev) Panel() Panel {
	return Panel{On: d.proto.On(), Contrast: d.contrast, Inverse: d.inverse, AllOn: d.allOn}
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s.Dev{%s, %s}", packageName, d.d, d.rect.Max)
}

func (d *Dev) ready() error {
	if d.closed {
		return wrap(lcd.ErrClosed)
	}
	if !d.initialized {
		return wrap(lcd.ErrNotInitialized)
	}
	return nil
}

func (d *Dev) command(cmd ...byte) error {
	return wrap(d.proto.WriteCommand(cmd...))
}

// Clear darkens the whole panel and moves the cursor home.
func (d *Dev) Clear() error {
	if err := d.ready(); err != nil {
		return err
	}
	clear(d.next.Pix)
	d.forgetCells()
	d.cx, d.cy = 0, 0
	return d.drawInternal(d.next.Pix)
}

// SetCursorPosition moves the text cursor to column x of row y, both 0-based.
// It does not generate bus traffic.
func (d *Dev) SetCursorPosition(x, y int) error {
	if err := d.ready(); err != nil {
		return err
	}
	if _, err := d.geometry.Address(x, y); err != nil {
		return wrap(err)
	}
	d.cx, d.cy = x, y
	return nil
}

// WriteText renders text at the cursor position. The character codes 0 to 7
// print the custom glyphs.
//
// Text is not wrapped: characters past the end of the row are dropped.
func (d *Dev) WriteText(text string) error {
	if err := d.ready(); err != nil {
		return err
	}
	b, err := encode(text)
	if err != nil {
		return err
	}
	return d.writeCodes(b)
}

// WriteTextAtLine renders text at the start of row.
func (d *Dev) WriteTextAtLine(text string, row int) error {
	if err := d.ready(); err != nil {
		return err
	}
	b, err := encode(text)
	if err != nil {
		return err
	}
	if err := d.SetCursorPosition(0, row); err != nil {
		return err
	}
	return d.writeCodes(b)
}

func (d *Dev) writeCodes(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	for _, c := range b {
		if d.cx >= d.geometry.Width {
			break
		}
		d.drawCell(d.cx, d.cy, c)
		d.cx++
	}
	return d.drawInternal(d.next.Pix)
}

func (d *Dev) drawCell(x, y int, c byte) {
	d.render.draw(d.next, x*CellWidth, int(d.geometry.LineOffset[y])*8, c, &d.glyphs)
	d.cells[y][x] = int(c)
}

func (d *Dev) forgetCells() {
	for _, row := range d.cells {
		for x := range row {
			row[x] = noChar
		}
	}
}

// SetCursorStyle is not supported, the controller has no text cursor.
func (d *Dev) SetCursorStyle(visible, blinking bool) error {
	if err := d.ready(); err != nil {
		return err
	}
	return ErrNotImplemented
}

// SetDisplayOn turns the panel on or off. The GDDRAM is retained.
func (d *Dev) SetDisplayOn(on bool) error {
	if err := d.ready(); err != nil {
		return err
	}
	return d.command(DisplayPower(on))
}

// SetBacklightOn is the same as SetDisplayOn, an OLED has no backlight.
func (d *Dev) SetBacklightOn(on bool) error {
	if err := d.ready(); err != nil {
		return err
	}
	return wrap(d.proto.Backlight(on))
}

// SetCustomGlyph defines glyph index (0-7) from 8 rows of 5 pixels. Cells
// already showing the glyph are redrawn.
func (d *Dev) SetCustomGlyph(index int, rows []byte) error {
	if err := d.ready(); err != nil {
		return err
	}
	if err := d.glyphs.Set(index, rows); err != nil {
		return wrap(err)
	}
	return d.redrawGlyphs(func(c int) bool { return c == index })
}

// SetAllCustomGlyphs defines the 8 glyphs at once from 64 bytes.
func (d *Dev) SetAllCustomGlyphs(p []byte) error {
	if err := d.ready(); err != nil {
		return err
	}
	if err := d.glyphs.SetAll(p); err != nil {
		return wrap(err)
	}
	return d.redrawGlyphs(func(c int) bool { return c >= 0 && c < lcd.GlyphSlots })
}

func (d *Dev) redrawGlyphs(match func(c int) bool) error {
	for y, row := range d.cells {
		for x, c := range row {
			if match(c) {
				d.drawCell(x, y, byte(c))
			}
		}
	}
	return d.drawInternal(d.next.Pix)
}

// CustomGlyph returns the rows of glyph index.
func (d *Dev) CustomGlyph(index int) ([]byte, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	g, err := d.glyphs.Glyph(index)
	return g, wrap(err)
}

// SetContrast changes the screen contrast.
func (d *Dev) SetContrast(level byte) error {
	if err := d.ready(); err != nil {
		return err
	}
	if err := d.command(Contrast(level)...); err != nil {
		return err
	}
	d.contrast = level
	return nil
}

// SetAllPixelsOn lights every pixel, ignoring the GDDRAM, or resumes to
// the GDDRAM content.
func (d *Dev) SetAllPixelsOn(on bool) error {
	if err := d.ready(); err != nil {
		return err
	}
	if err := d.command(AllPixelsOn(on)); err != nil {
		return err
	}
	d.allOn = on
	return nil
}

// SetInverseVideo inverts the display (black on white vs white on black).
func (d *Dev) SetInverseVideo(on bool) error {
	if err := d.ready(); err != nil {
		return err
	}
	if err := d.command(InverseVideo(on)); err != nil {
		return err
	}
	d.inverse = on
	return nil
}

// Scroll scrolls an horizontal band.
//
// Only one scrolling operation can happen at a time.
//
// Both startLine and endLine must be multiples of 8.
//
// Use -1 for endLine to extend to the bottom of the display.
func (d *Dev) Scroll(o Orientation, rate FrameRate, startLine, endLine int) error {
	if err := d.ready(); err != nil {
		return err
	}
	h := d.rect.Dy()
	if endLine == -1 {
		endLine = h
	}
	if startLine >= endLine {
		return fmt.Errorf("%s: startLine (%d) must be lower than endLine (%d): %w", packageName, startLine, endLine, lcd.ErrOutOfRange)
	}
	if startLine&7 != 0 || startLine < 0 || startLine >= h {
		return fmt.Errorf("%s: invalid startLine %d: %w", packageName, startLine, lcd.ErrOutOfRange)
	}
	if endLine&7 != 0 || endLine < 0 || endLine > h {
		return fmt.Errorf("%s: invalid endLine %d: %w", packageName, endLine, lcd.ErrOutOfRange)
	}

	startPage := uint8(startLine / 8)
	endPage := uint8(endLine / 8)
	// The scrolled GDDRAM no longer matches buffer.
	d.redraw = true
	if o == Left || o == Right {
		// page 28
		// <op>, dummy, <start page>, <rate>,  <end page>, <dummy>, <dummy>, <ENABLE>
		return d.command(byte(o), 0x00, startPage, byte(rate), endPage-1, 0x00, 0xFF, cmdActivateScroll)
	}
	// page 29
	// <op>, dummy, <start page>, <rate>,  <end page>, <offset>, <ENABLE>
	return d.command(byte(o), 0x00, startPage, byte(rate), endPage-1, 0x01, cmdActivateScroll)
}

// StopScroll stops any scrolling previously set.
func (d *Dev) StopScroll() error {
	if err := d.ready(); err != nil {
		return err
	}
	return d.command(cmdDeactivateScroll)
}

// SetDisplayStartLine causes the display to start from startLine, effectively
// scrolling the screen to that position.
//
// startLine must be between 0 and 63.
func (d *Dev) SetDisplayStartLine(startLine byte) error {
	if err := d.ready(); err != nil {
		return err
	}
	if startLine > 63 {
		return fmt.Errorf("%s: invalid startLine %d: %w", packageName, startLine, lcd.ErrOutOfRange)
	}
	return d.command(cmdSetStartLine | startLine)
}

// ColorModel implements display.Drawer.
//
// It is a one bit color model, as implemented by image1bit.Bit.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer. It replaces the text cells it covers.
//
// It draws synchronously, once this function returns, the display is updated.
// It means that on slow bus (I²C), it may be preferable to defer Draw() calls
// to a background goroutine.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if err := d.ready(); err != nil {
		return err
	}
	if img, ok := src.(*image1bit.VerticalLSB); ok && r == d.rect && img.Rect == d.rect && sp.X == 0 && sp.Y == 0 {
		// Exact size, full frame, GDDRAM encoding: fast path!
		copy(d.next.Pix, img.Pix)
	} else {
		draw.Src.Draw(d.next, r, src, sp)
	}
	d.forgetCells()
	return d.drawInternal(d.next.Pix)
}

// Write writes a buffer of pixels to the display.
//
// The format is unsual as each byte represent 8 vertical pixels at a time. The
// format is horizontal bands of 8 pixels high.
//
// This function accepts the content of image1bit.VerticalLSB.Pix.
func (d *Dev) Write(pixels []byte) (int, error) {
	if err := d.ready(); err != nil {
		return 0, err
	}
	if len(pixels) != len(d.buffer) {
		return 0, fmt.Errorf("%s: invalid pixel stream length; expected %d bytes, got %d bytes: %w", packageName, len(d.buffer), len(pixels), lcd.ErrLength)
	}
	copy(d.next.Pix, pixels)
	d.forgetCells()
	if err := d.drawInternal(d.next.Pix); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// Halt turns off the display. It is a no-op on an uninitialized Dev.
func (d *Dev) Halt() error {
	if !d.initialized || d.closed {
		return nil
	}
	return d.SetDisplayOn(false)
}

// Close releases the bus when the Dev owns it. The panel is left as is.
// Calling Close more than once is a no-op.
func (d *Dev) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.initialized = false
	if c, ok := d.bus.(io.Closer); ok {
		return wrap(c.Close())
	}
	return nil
}

func (d *Dev) calculateSubset(next []byte) (int, int, int, int, bool) {
	w := d.rect.Dx()
	h := d.rect.Dy()
	startPage := 0
	endPage := h / 8
	startCol := 0
	endCol := w
	if d.redraw {
		d.redraw = false
		return startPage, endPage, startCol, endCol, false
	}
	// Calculate the smallest square that need to be sent.
	pageSize := w

	// Top.
	for ; startPage < endPage; startPage++ {
		x := pageSize * startPage
		y := pageSize * (startPage + 1)
		if !bytes.Equal(d.buffer[x:y], next[x:y]) {
			break
		}
	}
	// Bottom.
	for ; endPage > startPage; endPage-- {
		x := pageSize * (endPage - 1)
		y := pageSize * endPage
		if !bytes.Equal(d.buffer[x:y], next[x:y]) {
			break
		}
	}
	if startPage == endPage {
		// Early exit, the image is exactly the same.
		return 0, 0, 0, 0, true
	}

	// Left.
	for ; startCol < endCol; startCol++ {
		if d.columnChanged(next, startCol, startPage, endPage) {
			break
		}
	}
	// Right.
	for ; endCol > startCol; endCol-- {
		if d.columnChanged(next, endCol-1, startPage, endPage) {
			break
		}
	}
	return startPage, endPage, startCol, endCol, false
}

func (d *Dev) columnChanged(next []byte, col, startPage, endPage int) bool {
	pageSize := d.rect.Dx()
	for i := startPage; i < endPage; i++ {
		x := i*pageSize + col
		if d.buffer[x] != next[x] {
			return true
		}
	}
	return false
}

// drawInternal sends the changed rectangle of next to the controller. The
// column and page window makes the controller wrap from one page to the
// next, so the whole rectangle is one data stream.
func (d *Dev) drawInternal(next []byte) error {
	startPage, endPage, startCol, endCol, skip := d.calculateSubset(next)
	if skip {
		return nil
	}
	cols, _ := ColumnRange(startCol, endCol-1)
	pages, _ := PageRange(startPage, endPage-1)
	if err := d.command(append(cols, pages...)...); err != nil {
		d.redraw = true
		return err
	}
	pageSize := d.rect.Dx()
	data := make([]byte, 0, (endPage-startPage)*(endCol-startCol))
	for page := startPage; page < endPage; page++ {
		pageStart := page * pageSize
		data = append(data, next[pageStart+startCol:pageStart+endCol]...)
	}
	if err := wrap(d.proto.WriteData(data)); err != nil {
		// The GDDRAM content is unknown.
		d.redraw = true
		return err
	}
	copy(d.buffer, next)
	return nil
}

var _ lcd.Display = &Dev{}
var _ display.Drawer = &Dev{}
var _ conn.Resource = &Dev{}
