// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

import (
	"github.com/GermanBionicSystems/lcddrivers/lcd"
)

// Control bytes starting every I²C transaction.
const (
	// ControlCommand is followed by one command byte.
	ControlCommand byte = 0x00
	// ControlDataOne is followed by a single GDDRAM byte.
	ControlDataOne byte = 0xC0
	// ControlDataStream is followed by GDDRAM bytes up to the end of the
	// transaction.
	ControlDataStream byte = 0x40
)

// DefaultMaxTx is the default maximum payload of one data stream
// transaction, one full 128x64 frame.
const DefaultMaxTx = 1024

// Framed is the lcd.Protocol of the SSD1306 on I²C: every transaction starts
// with a control byte telling how to interpret the following bytes.
//
// Every command byte is sent in its own transaction, so a multi byte command
// is a run of consecutive command frames. There is no execution delay.
type Framed struct {
	c     lcd.Conn
	maxTx int
	on    bool
}

// NewFramed returns a Framed on c. Data streams longer than maxTx bytes are
// split; maxTx <= 0 selects DefaultMaxTx.
func NewFramed(c lcd.Conn, maxTx int) *Framed {
	if maxTx <= 0 {
		maxTx = DefaultMaxTx
	}
	return &Framed{c: c, maxTx: maxTx}
}

// Reset implements lcd.Protocol. The framed interface needs no recovery
// sequence; it does nothing.
func (f *Framed) Reset() error {
	return nil
}

// WriteCommand implements lcd.Protocol.
func (f *Framed) WriteCommand(cmd ...byte) error {
	for _, c := range cmd {
		if err := lcd.WriteBytes(f.c, []byte{ControlCommand, c}); err != nil {
			return err
		}
		switch c {
		case cmdDisplayOn:
			f.on = true
		case cmdDisplayOff:
			f.on = false
		}
	}
	return nil
}

// WriteData implements lcd.Protocol.
func (f *Framed) WriteData(p []byte) error {
	switch len(p) {
	case 0:
		return nil
	case 1:
		return lcd.WriteBytes(f.c, []byte{ControlDataOne, p[0]})
	}
	buf := make([]byte, 0, 1+min(len(p), f.maxTx))
	for len(p) > 0 {
		n := min(len(p), f.maxTx)
		buf = append(append(buf[:0], ControlDataStream), p[:n]...)
		if err := lcd.WriteBytes(f.c, buf); err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

// Backlight implements lcd.Protocol. An OLED has no backlight, the panel
// itself is switched on or off.
func (f *Framed) Backlight(on bool) error {
	return f.WriteCommand(DisplayPower(on))
}

// On reports whether the last power command sent turned the panel on.
func (f *Framed) On() bool {
	return f.on
}

var _ lcd.Protocol = &Framed{}
