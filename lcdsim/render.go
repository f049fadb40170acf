// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdsim

import (
	"bytes"
	"image/color"
	"io"
	"strings"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

var (
	// Backlit LCD, yellow green.
	lcdOn = color.NRGBA{0x9a, 0xcd, 0x32, 255}
	// Unlit LCD.
	lcdOff = color.NRGBA{0x30, 0x30, 0x30, 255}
	// Lit OLED pixel.
	oledOn = color.NRGBA{0x80, 0xd0, 0xff, 255}
	// Dark OLED pixel.
	oledOff = color.NRGBA{0, 0, 0, 255}
)

// Terminal draws the simulated panels on a console using ANSI color codes.
type Terminal struct {
	w       io.Writer
	palette ansi256.Palette

	buf bytes.Buffer
}

// NewTerminal returns a Terminal writing to w. A nil w selects stdout, with
// the color codes translated on Windows. A nil p selects ansi256.Default.
func NewTerminal(w io.Writer, p *ansi256.Palette) *Terminal {
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	if p == nil {
		p = ansi256.Default
	}
	return &Terminal{w: w, palette: *p}
}

func (t *Terminal) String() string {
	return "lcdsim.Terminal"
}

// ShowHD44780 prints the visible rows of s between two borders colored after
// the backlight.
func (t *Terminal) ShowHD44780(s *HD44780) error {
	edge := lcdOff
	if s.Backlight() {
		edge = lcdOn
	}
	block := t.palette.Block(edge)
	t.buf.Reset()
	t.border(block, s.geometry.Width+2)
	for _, l := range s.Lines() {
		if !s.flags.On {
			l = strings.Repeat(" ", s.geometry.Width)
		}
		_, _ = t.buf.WriteString(block)
		_, _ = t.buf.WriteString("\033[0m")
		_, _ = t.buf.WriteString(printable(l))
		_, _ = t.buf.WriteString(block)
		_, _ = t.buf.WriteString("\033[0m\n")
	}
	t.border(block, s.geometry.Width+2)
	_, err := t.buf.WriteTo(t.w)
	return err
}

// border writes n blocks; a block is two columns wide, a character one.
func (t *Terminal) border(block string, n int) {
	for i := 0; i < (n+1)/2+1; i++ {
		_, _ = t.buf.WriteString(block)
	}
	_, _ = t.buf.WriteString("\033[0m\n")
}

// printable replaces the custom glyph codes and other control characters.
func printable(l string) string {
	r := []rune(l)
	for i, c := range r {
		if c < 0x20 || (c >= 0x7f && c < 0xa0) {
			r[i] = '?'
		}
	}
	return string(r)
}

// ShowSSD1306 prints every pixel of s as it is emitted by the panel.
func (t *Terminal) ShowSSD1306(s *SSD1306) error {
	on := t.palette.Block(oledOn)
	off := t.palette.Block(oledOff)
	t.buf.Reset()
	for y := 0; y < s.h; y++ {
		for x := 0; x < s.w; x++ {
			if s.Visible(x, y) {
				_, _ = t.buf.WriteString(on)
			} else {
				_, _ = t.buf.WriteString(off)
			}
		}
		_, _ = t.buf.WriteString("\033[0m\n")
	}
	_, err := t.buf.WriteTo(t.w)
	return err
}

// Halt restores the console colors.
func (t *Terminal) Halt() error {
	_, err := t.w.Write([]byte("\n\033[0m"))
	return err
}

// Render draws s on w with the default palette.
func (s *HD44780) Render(w io.Writer) error {
	return NewTerminal(w, nil).ShowHD44780(s)
}

// Render draws s on w with the default palette.
func (s *SSD1306) Render(w io.Writer) error {
	return NewTerminal(w, nil).ShowSSD1306(s)
}
