// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd1306 controls a monochrome OLED display via a SSD1306 controller
// on I²C.
//
// Every I²C transaction starts with a control byte: 0x00 for a command byte,
// 0xC0 for a single GDDRAM byte, 0x40 for a stream of GDDRAM bytes.
//
// The driver is both a graphic display.Drawer and a text display. Text is
// rendered in 7x16 pixel cells, so a 128x64 panel shows 4 rows of 18
// characters. The glyphs come from a 7x13 bitmap face or from a TrueType face
// loaded with LoadFace.
//
// The driver does differential updates: it only sends modified pixels for the
// smallest rectangle, to economize bus bandwidth. This is especially important
// when using I²C as the bus default speed (often 100kHz) is slow enough to
// saturate the bus at less than 10 frames per second.
//
// Some boards expose a RES / Reset pin. If present, it must be normally be
// High. When set to Low (Ground), it enables the reset circuitry. It can be
// used externally to this driver, if used, Init must be called on a new Dev.
//
// # Datasheets
//
// https://cdn-shop.adafruit.com/datasheets/SSD1306.pdf
package ssd1306
