// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdsim

import (
	"fmt"
	"image"

	"github.com/GermanBionicSystems/lcddrivers/internal/log"
	"github.com/GermanBionicSystems/lcddrivers/ssd1306"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Addressing modes of the memory mode command.
const (
	modeHorizontal = 0
	modeVertical   = 1
	modePage       = 2
)

// Number of argument bytes following each multi byte command.
var ssd1306Args = map[byte]int{
	0x20: 1, // memory mode
	0x21: 2, // column address
	0x22: 2, // page address
	0x26: 6, // right scroll
	0x27: 6, // left scroll
	0x29: 5, // vertical and right scroll
	0x2A: 5, // vertical and left scroll
	0x81: 1, // contrast
	0x8D: 1, // charge pump
	0xA3: 2, // vertical scroll area
	0xA8: 1, // multiplex
	0xD3: 1, // display offset
	0xD5: 1, // clock
	0xD9: 1, // precharge
	0xDA: 1, // COM pins
	0xDB: 1, // VCOMH
}

// SSD1306 simulates an SSD1306 controller on I²C. It implements i2c.Bus;
// the traffic of any address is accepted.
type SSD1306 struct {
	w, h   int
	gddram []byte

	on        bool
	contrast  byte
	inverse   bool
	allOn     bool
	scrolling bool
	startLine byte
	mode      byte

	col, page          int
	colStart, colEnd   int
	pageStart, pageEnd int

	// Command being assembled, opcode first.
	pending []byte
	want    int

	commands [][]byte
	txs      int
}

// NewSSD1306 returns a controller driving a w x h panel, in its reset state.
func NewSSD1306(w, h int) (*SSD1306, error) {
	if w <= 0 || w > 128 || h <= 0 || h > 64 || h%8 != 0 {
		return nil, fmt.Errorf("lcdsim: unsupported ssd1306 panel %dx%d", w, h)
	}
	return &SSD1306{
		w:        w,
		h:        h,
		gddram:   make([]byte, w*h/8),
		contrast: 0x7F,
		mode:     modePage,
		colEnd:   w - 1,
		pageEnd:  h/8 - 1,
	}, nil
}

func (s *SSD1306) String() string {
	return fmt.Sprintf("lcdsim.SSD1306{%dx%d}", s.w, s.h)
}

// SetSpeed implements i2c.Bus.
func (s *SSD1306) SetSpeed(f physic.Frequency) error {
	return nil
}

// Tx implements i2c.Bus.
func (s *SSD1306) Tx(addr uint16, w, r []byte) error {
	if len(r) != 0 {
		return ErrRead
	}
	if len(w) < 2 {
		return fmt.Errorf("lcdsim: ssd1306 transaction too short: % x", w)
	}
	s.txs++
	switch w[0] {
	case ssd1306.ControlCommand:
		for _, b := range w[1:] {
			s.command(b)
		}
	case ssd1306.ControlDataStream:
		for _, b := range w[1:] {
			s.writeData(b)
		}
	case ssd1306.ControlDataOne:
		if len(w) != 2 {
			return fmt.Errorf("lcdsim: ssd1306 single data byte followed by % x", w[2:])
		}
		s.writeData(w[1])
	default:
		return fmt.Errorf("lcdsim: ssd1306 unsupported control byte %#02x", w[0])
	}
	return nil
}

func (s *SSD1306) command(b byte) {
	if s.pending == nil {
		s.pending = []byte{b}
		s.want = ssd1306Args[b]
	} else {
		s.pending = append(s.pending, b)
	}
	if len(s.pending) <= s.want {
		return
	}
	cmd := s.pending
	s.pending = nil
	s.commands = append(s.commands, cmd)
	s.exec(cmd[0], cmd[1:])
}

func (s *SSD1306) exec(op byte, args []byte) {
	switch {
	case op == 0x20:
		s.mode = args[0] & 0x03
	case op == 0x21:
		s.colStart, s.colEnd = int(args[0]&0x7f), int(args[1]&0x7f)
		s.col = s.colStart
	case op == 0x22:
		s.pageStart, s.pageEnd = int(args[0]&0x07), int(args[1]&0x07)
		s.page = s.pageStart
	case op == 0x26 || op == 0x27 || op == 0x29 || op == 0x2A:
		// Configured, started by 0x2F.
	case op == 0x2E:
		s.scrolling = false
	case op == 0x2F:
		s.scrolling = true
	case op == 0x81:
		s.contrast = args[0]
	case op == 0xA4 || op == 0xA5:
		s.allOn = op == 0xA5
	case op == 0xA6 || op == 0xA7:
		s.inverse = op == 0xA7
	case op == 0xAE || op == 0xAF:
		s.on = op == 0xAF
	case op >= 0x40 && op <= 0x7F:
		s.startLine = op & 0x3f
	case op >= 0xB0 && op <= 0xB7:
		s.page = int(op & 0x07)
	case op <= 0x0F:
		s.col = s.col&0xF0 | int(op)
	case op >= 0x10 && op <= 0x1F:
		s.col = int(op&0x0F)<<4 | s.col&0x0F
	case ssd1306Args[op] > 0, op == 0xA0, op == 0xA1, op == 0xC0, op == 0xC8, op == 0x8D:
		// Panel wiring and power settings do not change the memory.
	default:
		log.Warn("lcdsim: unknown ssd1306 command", "value", fmt.Sprintf("%#02x", op))
	}
}

func (s *SSD1306) writeData(b byte) {
	if s.col < s.w && s.page < s.h/8 {
		s.gddram[s.page*s.w+s.col] = b
	}
	switch s.mode {
	case modeHorizontal:
		s.col++
		if s.col > s.colEnd {
			s.col = s.colStart
			s.page++
			if s.page > s.pageEnd {
				s.page = s.pageStart
			}
		}
	case modeVertical:
		s.page++
		if s.page > s.pageEnd {
			s.page = s.pageStart
			s.col++
			if s.col > s.colEnd {
				s.col = s.colStart
			}
		}
	default:
		s.col++
		if s.col >= s.w {
			s.col = 0
		}
	}
}

// Size returns the panel size in pixels.
func (s *SSD1306) Size() (w, h int) {
	return s.w, s.h
}

// Pixel reports whether the GDDRAM bit of (x, y) is set.
func (s *SSD1306) Pixel(x, y int) bool {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return false
	}
	return s.gddram[(y/8)*s.w+x]&(1<<uint(y&7)) != 0
}

// Visible reports whether (x, y) emits light, taking the power, all-on and
// inverse settings into account.
func (s *SSD1306) Visible(x, y int) bool {
	switch {
	case !s.on:
		return false
	case s.allOn:
		return true
	default:
		return s.Pixel(x, y) != s.inverse
	}
}

// GDDRAM returns a copy of the display memory, in the page layout of
// image1bit.VerticalLSB.
func (s *SSD1306) GDDRAM() []byte {
	return append([]byte(nil), s.gddram...)
}

// Image returns a copy of the display memory as an image.
func (s *SSD1306) Image() *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, s.w, s.h))
	copy(img.Pix, s.gddram)
	return img
}

// On reports whether the panel is on.
func (s *SSD1306) On() bool {
	return s.on
}

// Contrast returns the contrast level.
func (s *SSD1306) Contrast() byte {
	return s.contrast
}

// Inverse reports whether the inverse video mode is set.
func (s *SSD1306) Inverse() bool {
	return s.inverse
}

// AllOn reports whether every pixel is forced on.
func (s *SSD1306) AllOn() bool {
	return s.allOn
}

// Scrolling reports whether a hardware scroll is active.
func (s *SSD1306) Scrolling() bool {
	return s.scrolling
}

// StartLine returns the display start line.
func (s *SSD1306) StartLine() byte {
	return s.startLine
}

// Commands returns every complete command received, opcode first.
func (s *SSD1306) Commands() [][]byte {
	out := make([][]byte, len(s.commands))
	for i, c := range s.commands {
		out[i] = append([]byte(nil), c...)
	}
	return out
}

// Transactions returns the number of bus transactions received.
func (s *SSD1306) Transactions() int {
	return s.txs
}

var _ i2c.Bus = &SSD1306{}
