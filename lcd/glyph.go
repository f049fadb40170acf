// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcd

import "fmt"

const (
	// GlyphSlots is the number of user defined glyphs.
	GlyphSlots = 8
	// GlyphRows is the number of rows of a glyph, top row first.
	GlyphRows = 8
	// GlyphCols is the number of pixel columns of a glyph. The pixels are
	// the 5 least significant bits of each row, bit 4 being the leftmost.
	GlyphCols = 5
	// GlyphStoreSize is the size of the whole glyph table.
	GlyphStoreSize = GlyphSlots * GlyphRows
)

// GlyphStore is the in-memory copy of the custom character memory.
type GlyphStore struct {
	table [GlyphStoreSize]byte
}

// CheckGlyph validates the arguments of Set without modifying anything.
func CheckGlyph(index int, rows []byte) error {
	if index < 0 || index >= GlyphSlots {
		return fmt.Errorf("lcd: glyph index %d not in [0,%d]: %w", index, GlyphSlots-1, ErrOutOfRange)
	}
	if len(rows) != GlyphRows {
		return fmt.Errorf("lcd: glyph needs %d rows, got %d: %w", GlyphRows, len(rows), ErrLength)
	}
	return nil
}

// CheckGlyphTable validates the argument of SetAll without modifying
// anything.
func CheckGlyphTable(p []byte) error {
	if len(p) != GlyphStoreSize {
		return fmt.Errorf("lcd: glyph table needs %d bytes, got %d: %w", GlyphStoreSize, len(p), ErrLength)
	}
	return nil
}

// Set replaces glyph index with rows.
func (s *GlyphStore) Set(index int, rows []byte) error {
	if err := CheckGlyph(index, rows); err != nil {
		return err
	}
	copy(s.table[index*GlyphRows:], rows)
	return nil
}

// SetAll replaces the whole table.
func (s *GlyphStore) SetAll(p []byte) error {
	if err := CheckGlyphTable(p); err != nil {
		return err
	}
	copy(s.table[:], p)
	return nil
}

// Glyph returns a copy of the rows of glyph index.
func (s *GlyphStore) Glyph(index int) ([]byte, error) {
	if index < 0 || index >= GlyphSlots {
		return nil, fmt.Errorf("lcd: glyph index %d not in [0,%d]: %w", index, GlyphSlots-1, ErrOutOfRange)
	}
	out := make([]byte, GlyphRows)
	copy(out, s.table[index*GlyphRows:])
	return out, nil
}

// Bytes returns a copy of the whole table.
func (s *GlyphStore) Bytes() []byte {
	out := make([]byte, GlyphStoreSize)
	copy(out, s.table[:])
	return out
}

// Lit reports whether the pixel at (row, col) of glyph index is on. col 0
// is the leftmost pixel.
func (s *GlyphStore) Lit(index, row, col int) bool {
	if index < 0 || index >= GlyphSlots || row < 0 || row >= GlyphRows || col < 0 || col >= GlyphCols {
		return false
	}
	return s.table[index*GlyphRows+row]&(1<<(GlyphCols-1-col)) != 0
}
