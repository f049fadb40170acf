// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

import (
	"fmt"
	"image/color"

	"github.com/GermanBionicSystems/lcddrivers/lcd"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Text cell size in pixels. A text row spans two pages.
const (
	CellWidth  = 7
	CellHeight = 16
)

// baseline leaves one empty pixel row above the 7x13 face.
const baseline = 12

// noChar marks a cell not holding a character.
const noChar = -1

// LoadFace parses a TrueType font and returns a face of size points for
// Opts.Face. Glyphs taller than a cell are clipped.
func LoadFace(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", packageName, err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull}), nil
}

// renderer rasterizes one character cell at a time.
type renderer struct {
	dc *gg.Context
}

func newRenderer(face font.Face) *renderer {
	if face == nil {
		face = basicfont.Face7x13
	}
	dc := gg.NewContext(CellWidth, CellHeight)
	dc.SetFontFace(face)
	return &renderer{dc: dc}
}

// draw renders the character code c in the cell whose top left pixel is
// (x, y). Codes below lcd.GlyphSlots are the custom glyphs, drawn with each
// row doubled to fill the cell height.
func (r *renderer) draw(dst *image1bit.VerticalLSB, x, y int, c byte, glyphs *lcd.GlyphStore) {
	if int(c) < lcd.GlyphSlots {
		for row := 0; row < CellHeight; row++ {
			for col := 0; col < CellWidth; col++ {
				on := col >= 1 && glyphs.Lit(int(c), row/2, col-1)
				dst.SetBit(x+col, y+row, image1bit.Bit(on))
			}
		}
		return
	}
	r.dc.SetColor(color.Black)
	r.dc.Clear()
	if c >= 0x20 {
		r.dc.SetColor(color.White)
		r.dc.DrawString(string(rune(c)), 0, baseline)
	}
	img := r.dc.Image()
	for row := 0; row < CellHeight; row++ {
		for col := 0; col < CellWidth; col++ {
			dst.Set(x+col, y+row, img.At(col, row))
		}
	}
}

// encode converts text to character codes. Only runes up to 0xff have a code.
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
