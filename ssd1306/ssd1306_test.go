// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/GermanBionicSystems/lcddrivers/lcd"
	"github.com/GermanBionicSystems/lcddrivers/lcd/lcdtest"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// closingBus records writes and counts Close calls.
type closingBus struct {
	i2ctest.Record
	closed int
}

func (b *closingBus) SetSpeed(f physic.Frequency) error { return nil }

func (b *closingBus) Close() error {
	b.closed++
	return nil
}

func commands(cmd ...byte) [][]byte {
	out := make([][]byte, 0, len(cmd))
	for _, c := range cmd {
		out = append(out, []byte{ControlCommand, c})
	}
	return out
}

func getDev(t *testing.T, v Variant) (*Dev, *i2ctest.Record) {
	t.Helper()
	rec := &i2ctest.Record{}
	dev := NewI2C(rec, nil)
	if err := dev.Init(v, true, true); err != nil {
		t.Fatal(err)
	}
	rec.Ops = nil
	return dev, rec
}

func TestFramedWriteCommand(t *testing.T) {
	rec := &i2ctest.Record{}
	f := NewFramed(&i2c.Dev{Bus: rec, Addr: DefaultAddress}, 0)
	if err := f.WriteCommand(0x81, 0xCF); err != nil {
		t.Fatal(err)
	}
	want := [][]byte{{0x00, 0x81}, {0x00, 0xCF}}
	if diff := cmp.Diff(want, lcdtest.Writes(rec.Ops)); diff != "" {
		t.Fatalf("Tx (-want +got):\n%s", diff)
	}
	for _, op := range rec.Ops {
		if op.Addr != DefaultAddress {
			t.Fatalf("addr = %#x", op.Addr)
		}
	}
}

func TestFramedWriteData(t *testing.T) {
	rec := &i2ctest.Record{}
	f := NewFramed(&i2c.Dev{Bus: rec, Addr: DefaultAddress}, 2)
	if err := f.WriteData(nil); err != nil {
		t.Fatal(err)
	}
	if len(rec.Ops) != 0 {
		t.Fatalf("empty payload sent %d transactions", len(rec.Ops))
	}
	if err := f.WriteData([]byte{0xAA}); err != nil {
		t.Fatal(err)
	}
	if err := f.WriteData([]byte{1, 2, 3, 4, 5}); err != nil {
		t.Fatal(err)
	}
	want := [][]byte{
		{0xC0, 0xAA},
		{0x40, 1, 2},
		{0x40, 3, 4},
		{0x40, 5},
	}
	if diff := cmp.Diff(want, lcdtest.Writes(rec.Ops)); diff != "" {
		t.Fatalf("Tx (-want +got):\n%s", diff)
	}
}

func TestFramedBacklight(t *testing.T) {
	rec := &i2ctest.Record{}
	f := NewFramed(&i2c.Dev{Bus: rec, Addr: DefaultAddress}, 0)
	if err := f.Reset(); err != nil {
		t.Fatal(err)
	}
	if err := f.Backlight(true); err != nil {
		t.Fatal(err)
	}
	if !f.On() {
		t.Fatal("expected on")
	}
	if err := f.Backlight(false); err != nil {
		t.Fatal(err)
	}
	if f.On() {
		t.Fatal("expected off")
	}
	if diff := cmp.Diff(commands(0xAF, 0xAE), lcdtest.Writes(rec.Ops)); diff != "" {
		t.Fatalf("Tx (-want +got):\n%s", diff)
	}
}

func TestFramedTransportError(t *testing.T) {
	bus := &i2ctest.Playback{DontPanic: true}
	f := NewFramed(&i2c.Dev{Bus: bus, Addr: DefaultAddress}, 0)
	err := f.WriteCommand(0xAF)
	var te *lcd.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("WriteCommand() = %v, want a TransportError", err)
	}
}

func TestInitSequence(t *testing.T) {
	rec := &i2ctest.Record{}
	dev := NewI2C(rec, nil)
	if err := dev.Init(OLED128x64, true, true); err != nil {
		t.Fatal(err)
	}
	initCmd := initCommands(&DefaultOpts, 128, 64, true)
	want := commands(initCmd...)
	// Clear sends the whole frame once.
	want = append(want, commands(0x21, 0, 127, 0x22, 0, 7)...)
	want = append(want, append([]byte{0x40}, make([]byte, 1024)...))
	if diff := cmp.Diff(want, lcdtest.Writes(rec.Ops)); diff != "" {
		t.Fatalf("Tx (-want +got):\n%s", diff)
	}
	if initCmd[0] != 0xAE || initCmd[len(initCmd)-1] != 0xAF {
		t.Fatalf("init must start with display off and end with display on: % x", initCmd)
	}
	if !bytes.Contains(initCmd, []byte{0xA8, 63}) {
		t.Fatalf("multiplex not set: % x", initCmd)
	}
	if !bytes.Contains(initCmd, []byte{0xDA, 0x12}) {
		t.Fatalf("alternative COM pins not set: % x", initCmd)
	}
	g := dev.Geometry()
	if diff := cmp.Diff(lcd.Geometry{Width: 18, Height: 4, LineOffset: []byte{0, 2, 4, 6}}, g); diff != "" {
		t.Fatalf("Geometry (-want +got):\n%s", diff)
	}
	if err := g.Validate(); err != nil {
		t.Fatal(err)
	}
	if p := dev.Panel(); p != (Panel{On: true, Contrast: 0xFF}) {
		t.Fatalf("Panel() = %+v", p)
	}
	if dev.String() == "" {
		t.Fatal("empty String()")
	}
}

func TestInit128x32(t *testing.T) {
	rec := &i2ctest.Record{}
	dev := NewI2C(rec, &Opts{MaxTx: 256})
	if err := dev.Init(OLED128x32, true, false); err != nil {
		t.Fatal(err)
	}
	initCmd := initCommands(&Opts{}, 128, 32, false)
	if !bytes.Contains(initCmd, []byte{0xA8, 31}) || !bytes.Contains(initCmd, []byte{0xDA, 0x02}) {
		t.Fatalf("128x32 init: % x", initCmd)
	}
	if initCmd[len(initCmd)-1] != 0xAE {
		t.Fatal("display must stay off")
	}
	// 512 bytes frame split in 2 streams.
	writes := lcdtest.Writes(rec.Ops)
	n := len(initCmd) + 6
	if len(writes) != n+2 {
		t.Fatalf("got %d transactions, want %d", len(writes), n+2)
	}
	for _, w := range writes[n:] {
		if len(w) != 257 || w[0] != 0x40 {
			t.Fatalf("bad data stream of %d bytes", len(w))
		}
	}
	if diff := cmp.Diff(lcd.Geometry{Width: 18, Height: 2, LineOffset: []byte{0, 2}}, dev.Geometry()); diff != "" {
		t.Fatalf("Geometry (-want +got):\n%s", diff)
	}
	if dev.Panel().On {
		t.Fatal("panel must be off")
	}
	if dev.Bounds() != image.Rect(0, 0, 128, 32) {
		t.Fatalf("Bounds() = %v", dev.Bounds())
	}
}

func TestInitBacklightOff(t *testing.T) {
	rec := &i2ctest.Record{}
	dev := NewI2C(rec, nil)
	if err := dev.Init(OLED128x64, false, true); err != nil {
		t.Fatal(err)
	}
	if dev.Panel().On {
		t.Fatal("panel must be off without backlight")
	}
	initCmd := initCommands(&DefaultOpts, 128, 64, false)
	if diff := cmp.Diff(commands(initCmd...), lcdtest.Writes(rec.Ops)[:len(initCmd)]); diff != "" {
		t.Fatalf("Tx (-want +got):\n%s", diff)
	}
	// Turning the backlight on powers the panel.
	if err := dev.SetBacklightOn(true); err != nil {
		t.Fatal(err)
	}
	if !dev.Panel().On {
		t.Fatal("panel must be on")
	}
}

func TestInitMirror(t *testing.T) {
	got := initCommands(&Opts{MirrorVertical: true, MirrorHorizontal: true, SwapTopBottom: true}, 128, 64, true)
	if !bytes.Contains(got, []byte{0x40, 0xA0, 0xC0, 0xDA, 0x32}) {
		t.Fatalf("mirror options not applied: % x", got)
	}
}

func TestInitErrors(t *testing.T) {
	rec := &i2ctest.Record{}
	dev := NewI2C(rec, nil)
	if err := dev.Init("96x16", true, true); !errors.Is(err, lcd.ErrUnsupported) {
		t.Fatalf("Init(96x16) = %v", err)
	}
	if len(rec.Ops) != 0 {
		t.Fatal("unexpected traffic")
	}
	if err := dev.Init(OLED128x64, true, true); err != nil {
		t.Fatal(err)
	}
	if err := dev.Init(OLED128x64, true, true); !errors.Is(err, lcd.ErrAlreadyInitialized) {
		t.Fatalf("second Init() = %v", err)
	}
}

func TestInitTransportFailure(t *testing.T) {
	dev := NewI2C(&i2ctest.Playback{DontPanic: true}, nil)
	err := dev.Init(OLED128x64, true, true)
	var te *lcd.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Init() = %v, want a TransportError", err)
	}
	if dev.Initialized() {
		t.Fatal("Dev must stay uninitialized")
	}
}

func TestNotInitialized(t *testing.T) {
	rec := &i2ctest.Record{}
	dev := NewI2C(rec, nil)
	glyph := make([]byte, 8)
	calls := map[string]error{
		"Clear":              dev.Clear(),
		"SetCursorPosition":  dev.SetCursorPosition(0, 0),
		"WriteText":          dev.WriteText("x"),
		"WriteTextAtLine":    dev.WriteTextAtLine("x", 0),
		"SetCursorStyle":     dev.SetCursorStyle(true, true),
		"SetDisplayOn":       dev.SetDisplayOn(true),
		"SetBacklightOn":     dev.SetBacklightOn(true),
		"SetCustomGlyph":     dev.SetCustomGlyph(0, glyph),
		"SetAllCustomGlyphs": dev.SetAllCustomGlyphs(make([]byte, 64)),
		"SetContrast":        dev.SetContrast(0x10),
		"SetAllPixelsOn":     dev.SetAllPixelsOn(true),
		"SetInverseVideo":    dev.SetInverseVideo(true),
		"Scroll":             dev.Scroll(Left, FrameRate2, 0, -1),
		"StopScroll":         dev.StopScroll(),
		"Draw":               dev.Draw(image.Rect(0, 0, 1, 1), image.White, image.Point{}),
	}
	for name, err := range calls {
		if !errors.Is(err, lcd.ErrNotInitialized) {
			t.Errorf("%s() = %v", name, err)
		}
	}
	if _, err := dev.Write(nil); !errors.Is(err, lcd.ErrNotInitialized) {
		t.Errorf("Write() = %v", err)
	}
	if err := dev.Halt(); err != nil {
		t.Errorf("Halt() = %v", err)
	}
	if len(rec.Ops) != 0 {
		t.Fatalf("unexpected traffic: %v", rec.Ops)
	}
}

func TestSetContrast(t *testing.T) {
	dev, rec := getDev(t, OLED128x64)
	if err := dev.SetContrast(0xCF); err != nil {
		t.Fatal(err)
	}
	want := [][]byte{{0x00, 0x81}, {0x00, 0xCF}}
	if diff := cmp.Diff(want, lcdtest.Writes(rec.Ops)); diff != "" {
		t.Fatalf("Tx (-want +got):\n%s", diff)
	}
	if dev.Panel().Contrast != 0xCF {
		t.Fatalf("Contrast = %#x", dev.Panel().Contrast)
	}
}

func TestPanelCommands(t *testing.T) {
	dev, rec := getDev(t, OLED128x64)
	steps := []func() error{
		func() error { return dev.SetAllPixelsOn(true) },
		func() error { return dev.SetInverseVideo(true) },
		func() error { return dev.SetDisplayOn(false) },
		func() error { return dev.SetDisplayOn(false) },
		func() error { return dev.SetBacklightOn(true) },
		func() error { return dev.SetAllPixelsOn(false) },
		func() error { return dev.SetDisplayStartLine(8) },
		func() error { return dev.StopScroll() },
	}
	for i, f := range steps {
		if err := f(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	want := commands(0xA5, 0xA7, 0xAE, 0xAE, 0xAF, 0xA4, 0x48, 0x2E)
	if diff := cmp.Diff(want, lcdtest.Writes(rec.Ops)); diff != "" {
		t.Fatalf("Tx (-want +got):\n%s", diff)
	}
	if p := dev.Panel(); p != (Panel{On: true, Contrast: 0xFF, Inverse: true}) {
		t.Fatalf("Panel() = %+v", p)
	}
	if err := dev.SetDisplayStartLine(64); !errors.Is(err, lcd.ErrOutOfRange) {
		t.Fatalf("SetDisplayStartLine(64) = %v", err)
	}
}

func TestSetCursorStyle(t *testing.T) {
	dev, rec := getDev(t, OLED128x64)
	if err := dev.SetCursorStyle(true, false); !errors.Is(err, display.ErrNotImplemented) {
		t.Fatalf("SetCursorStyle() = %v", err)
	}
	if len(rec.Ops) != 0 {
		t.Fatal("unexpected traffic")
	}
}

func TestWriteTextAtLine(t *testing.T) {
	dev, rec := getDev(t, OLED128x64)
	if err := dev.WriteTextAtLine("A", 1); err != nil {
		t.Fatal(err)
	}
	w := lcdtest.Writes(rec.Ops)
	if len(w) != 7 {
		t.Fatalf("got %d transactions, want 7", len(w))
	}
	if w[0][1] != 0x21 || w[3][1] != 0x22 {
		t.Fatalf("expected column and page window, got % x", w[:6])
	}
	if w[1][1] > w[2][1] || w[2][1] >= CellWidth {
		t.Fatalf("column window %d-%d outside the first cell", w[1][1], w[2][1])
	}
	if w[4][1] < 2 || w[5][1] > 3 || w[4][1] > w[5][1] {
		t.Fatalf("page window %d-%d outside row 1", w[4][1], w[5][1])
	}
	if w[6][0] != ControlDataStream && w[6][0] != ControlDataOne {
		t.Fatalf("expected data, got % x", w[6])
	}
	if !bytes.Equal(dev.buffer, dev.next.Pix) {
		t.Fatal("buffer must mirror the sent frame")
	}
	for y := 0; y < 64; y++ {
		for x := 0; x < 128; x++ {
			if dev.next.BitAt(x, y) && (x >= CellWidth || y < 16 || y >= 32) {
				t.Fatalf("pixel (%d,%d) lit outside the cell", x, y)
			}
		}
	}

	// Same content, nothing to send.
	rec.Ops = nil
	if err := dev.WriteTextAtLine("A", 1); err != nil {
		t.Fatal(err)
	}
	if err := dev.WriteText(""); err != nil {
		t.Fatal(err)
	}
	if len(rec.Ops) != 0 {
		t.Fatalf("unchanged text sent %d transactions", len(rec.Ops))
	}
}

func TestWriteTextRejected(t *testing.T) {
	dev, rec := getDev(t, OLED128x64)
	if err := dev.WriteText("€"); !errors.Is(err, lcd.ErrOutOfRange) {
		t.Fatalf("WriteText(€) = %v", err)
	}
	if err := dev.WriteTextAtLine("x", 4); !errors.Is(err, lcd.ErrOutOfRange) {
		t.Fatalf("WriteTextAtLine(row 4) = %v", err)
	}
	if err := dev.SetCursorPosition(18, 0); !errors.Is(err, lcd.ErrOutOfRange) {
		t.Fatalf("SetCursorPosition(18, 0) = %v", err)
	}
	if len(rec.Ops) != 0 {
		t.Fatal("unexpected traffic")
	}
}

func TestWriteTextDropsOverflow(t *testing.T) {
	dev, _ := getDev(t, OLED128x32)
	if err := dev.SetCursorPosition(16, 1); err != nil {
		t.Fatal(err)
	}
	if err := dev.WriteText("abcd"); err != nil {
		t.Fatal(err)
	}
	if dev.cx != 18 {
		t.Fatalf("cursor at %d", dev.cx)
	}
	if got := dev.cells[1][16:]; got[0] != 'a' || got[1] != 'b' {
		t.Fatalf("cells = %v", got)
	}
}

func litGlyph(t *testing.T, dev *Dev, x, y int, rows []byte) {
	t.Helper()
	for row := 0; row < CellHeight; row++ {
		for col := 0; col < CellWidth; col++ {
			want := col >= 1 && col <= lcd.GlyphCols && rows[row/2]&(1<<(lcd.GlyphCols-col)) != 0
			if got := bool(dev.next.BitAt(x+col, y+row)); got != want {
				t.Fatalf("pixel (%d,%d) = %t, want %t", col, row, got, want)
			}
		}
	}
}

func TestCustomGlyph(t *testing.T) {
	dev, rec := getDev(t, OLED128x64)
	heart := []byte{0x00, 0x0a, 0x1f, 0x1f, 0x0e, 0x04, 0x00, 0x00}
	if err := dev.SetCustomGlyph(3, heart); err != nil {
		t.Fatal(err)
	}
	if len(rec.Ops) != 0 {
		t.Fatal("glyph not on screen, nothing to send")
	}
	if err := dev.WriteTextAtLine("\x03", 2); err != nil {
		t.Fatal(err)
	}
	litGlyph(t, dev, 0, 32, heart)

	rec.Ops = nil
	bar := []byte{0x1f, 0x1f, 0x1f, 0x1f, 0x1f, 0x1f, 0x1f, 0x1f}
	if err := dev.SetCustomGlyph(3, bar); err != nil {
		t.Fatal(err)
	}
	if len(rec.Ops) == 0 {
		t.Fatal("glyph on screen must be redrawn")
	}
	litGlyph(t, dev, 0, 32, bar)
	got, err := dev.CustomGlyph(3)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(bar, got); diff != "" {
		t.Fatalf("CustomGlyph (-want +got):\n%s", diff)
	}

	all := make([]byte, 64)
	if err := dev.SetAllCustomGlyphs(all); err != nil {
		t.Fatal(err)
	}
	litGlyph(t, dev, 0, 32, all[:8])
}

func TestCustomGlyphRejected(t *testing.T) {
	dev, rec := getDev(t, OLED128x64)
	if err := dev.SetCustomGlyph(8, make([]byte, 8)); !errors.Is(err, lcd.ErrOutOfRange) {
		t.Fatalf("SetCustomGlyph(8) = %v", err)
	}
	if err := dev.SetCustomGlyph(0, make([]byte, 7)); !errors.Is(err, lcd.ErrLength) {
		t.Fatalf("SetCustomGlyph(7 rows) = %v", err)
	}
	if err := dev.SetAllCustomGlyphs(make([]byte, 63)); !errors.Is(err, lcd.ErrLength) {
		t.Fatalf("SetAllCustomGlyphs(63) = %v", err)
	}
	if len(rec.Ops) != 0 {
		t.Fatal("unexpected traffic")
	}
}

func TestDraw(t *testing.T) {
	dev, rec := getDev(t, OLED128x64)
	if err := dev.Draw(image.Rect(0, 0, 8, 8), &image.Uniform{C: color.White}, image.Point{}); err != nil {
		t.Fatal(err)
	}
	want := commands(0x21, 0, 7, 0x22, 0, 0)
	want = append(want, []byte{0x40, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	if diff := cmp.Diff(want, lcdtest.Writes(rec.Ops)); diff != "" {
		t.Fatalf("Tx (-want +got):\n%s", diff)
	}
	if dev.ColorModel().Convert(color.White) != color.Color(image1bit.On) {
		t.Fatal("white must be lit")
	}
}

func TestDrawFastPath(t *testing.T) {
	dev, rec := getDev(t, OLED128x32)
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 32))
	img.SetBit(127, 31, image1bit.On)
	if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	want := commands(0x21, 127, 127, 0x22, 3, 3)
	want = append(want, []byte{0xC0, 0x80})
	if diff := cmp.Diff(want, lcdtest.Writes(rec.Ops)); diff != "" {
		t.Fatalf("Tx (-want +got):\n%s", diff)
	}
}

func TestWritePixels(t *testing.T) {
	dev, rec := getDev(t, OLED128x32)
	if _, err := dev.Write(make([]byte, 10)); !errors.Is(err, lcd.ErrLength) {
		t.Fatalf("Write(10) = %v", err)
	}
	pix := make([]byte, 512)
	pix[0] = 0x01
	n, err := dev.Write(pix)
	if err != nil || n != 512 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	want := commands(0x21, 0, 0, 0x22, 0, 0)
	want = append(want, []byte{0xC0, 0x01})
	if diff := cmp.Diff(want, lcdtest.Writes(rec.Ops)); diff != "" {
		t.Fatalf("Tx (-want +got):\n%s", diff)
	}
}

func TestScroll(t *testing.T) {
	dev, rec := getDev(t, OLED128x64)
	if err := dev.Scroll(Left, FrameRate2, 0, -1); err != nil {
		t.Fatal(err)
	}
	if err := dev.Scroll(UpRight, FrameRate5, 8, 16); err != nil {
		t.Fatal(err)
	}
	want := commands(0x27, 0x00, 0, 7, 7, 0x00, 0xFF, 0x2F)
	want = append(want, commands(0x29, 0x00, 1, 0, 1, 0x01, 0x2F)...)
	if diff := cmp.Diff(want, lcdtest.Writes(rec.Ops)); diff != "" {
		t.Fatalf("Tx (-want +got):\n%s", diff)
	}
	for _, c := range [][2]int{{3, 16}, {16, 8}, {0, 65}} {
		if err := dev.Scroll(Right, FrameRate2, c[0], c[1]); !errors.Is(err, lcd.ErrOutOfRange) {
			t.Errorf("Scroll(%d, %d) = %v", c[0], c[1], err)
		}
	}
	// A scroll invalidates the GDDRAM mirror.
	rec.Ops = nil
	if err := dev.Clear(); err != nil {
		t.Fatal(err)
	}
	if w := lcdtest.Writes(rec.Ops); len(w) != 7 || len(w[6]) != 1025 {
		t.Fatalf("expected a full redraw, got %d transactions", len(w))
	}
}

func TestHaltClose(t *testing.T) {
	bus := &closingBus{}
	dev := NewI2C(bus, nil)
	if err := dev.Init(OLED128x64, true, true); err != nil {
		t.Fatal(err)
	}
	bus.Ops = nil
	if err := dev.Halt(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(commands(0xAE), lcdtest.Writes(bus.Ops)); diff != "" {
		t.Fatalf("Tx (-want +got):\n%s", diff)
	}
	if err := dev.Close(); err != nil {
		t.Fatal(err)
	}
	if err := dev.Close(); err != nil {
		t.Fatal(err)
	}
	if bus.closed != 1 {
		t.Fatalf("bus closed %d times", bus.closed)
	}
	if err := dev.WriteText("x"); !errors.Is(err, lcd.ErrClosed) {
		t.Fatalf("WriteText() after Close = %v", err)
	}
	if err := dev.Init(OLED128x64, true, true); !errors.Is(err, lcd.ErrClosed) {
		t.Fatalf("Init() after Close = %v", err)
	}
}

func countLit(p *image1bit.VerticalLSB, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if p.BitAt(x, y) {
				n++
			}
		}
	}
	return n
}

func TestRenderer(t *testing.T) {
	var glyphs lcd.GlyphStore
	r := newRenderer(nil)
	p := image1bit.NewVerticalLSB(image.Rect(0, 0, 32, 16))
	r.draw(p, CellWidth, 0, 'A', &glyphs)
	cell := image.Rect(CellWidth, 0, 2*CellWidth, CellHeight)
	if countLit(p, cell) == 0 {
		t.Fatal("'A' has no lit pixel")
	}
	if countLit(p, p.Rect) != countLit(p, cell) {
		t.Fatal("'A' drawn outside its cell")
	}
	r.draw(p, CellWidth, 0, ' ', &glyphs)
	if countLit(p, p.Rect) != 0 {
		t.Fatal("space must erase the cell")
	}
}

func TestLoadFace(t *testing.T) {
	if _, err := LoadFace([]byte("not a font"), 10); err == nil {
		t.Fatal("expected error")
	}
	face, err := LoadFace(goregular.TTF, 12)
	if err != nil {
		t.Fatal(err)
	}
	var glyphs lcd.GlyphStore
	p := image1bit.NewVerticalLSB(image.Rect(0, 0, CellWidth, CellHeight))
	newRenderer(face).draw(p, 0, 0, 'W', &glyphs)
	if countLit(p, p.Rect) == 0 {
		t.Fatal("'W' has no lit pixel")
	}
}
