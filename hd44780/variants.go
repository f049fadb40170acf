// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"

	"github.com/GermanBionicSystems/lcddrivers/lcd"
)

// Variant is a supported display size.
type Variant string

const (
	LCD1602 Variant = "16x2"
	// LCD4002 has not been verified on hardware.
	LCD4002 Variant = "40x2"
	LCD2004 Variant = "20x4"
)

// The controller only has two DDRAM lines, 0x00-0x27 and 0x40-0x67. 4 row
// displays continue rows 0 and 1 at +20 characters.
var geometries = map[Variant]lcd.Geometry{
	LCD1602: {Width: 16, Height: 2, LineOffset: []byte{0x00, 0x40}},
	LCD4002: {Width: 40, Height: 2, LineOffset: []byte{0x00, 0x40}},
	LCD2004: {Width: 20, Height: 4, LineOffset: []byte{0x00, 0x40, 0x14, 0x54}},
}

// Variants returns the supported variants.
func Variants() []Variant {
	return []Variant{LCD1602, LCD4002, LCD2004}
}

// Geometry returns the geometry of v.
func (v Variant) Geometry() (lcd.Geometry, error) {
	g, ok := geometries[v]
	if !ok {
		return lcd.Geometry{}, fmt.Errorf("%s: variant %q: %w", packageName, string(v), lcd.ErrUnsupported)
	}
	// LineOffset is shared, hand out a copy.
	g.LineOffset = append([]byte(nil), g.LineOffset...)
	return g, nil
}

// VariantFor returns the variant with the given number of columns and rows.
func VariantFor(cols, rows int) (Variant, error) {
	for _, v := range Variants() {
		if g := geometries[v]; g.Width == cols && g.Height == rows {
			return v, nil
		}
	}
	return "", fmt.Errorf("%s: no variant with %d columns and %d rows: %w", packageName, cols, rows, lcd.ErrUnsupported)
}
