// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"time"

	"github.com/GermanBionicSystems/lcddrivers/lcd"
)

// Timing lists the mandatory waits of the nibble protocol and of the
// initialization sequence.
//
// The R/W line of the backpacks is tied low or left unused, so the busy flag
// cannot be read and every wait is a fixed delay.
type Timing struct {
	// PowerOn is the wait for the controller supply to stabilize.
	PowerOn lcd.Step
	// Reset are the waits after each of the three 8 bit reset pseudo-commands.
	Reset [3]lcd.Step
	// FourBit is the wait after switching the interface to 4 bit.
	FourBit lcd.Step
	// CloneSettle is an extra wait tolerating slower clone controllers.
	CloneSettle lcd.Step
	// LatchSettle is held after raising EN.
	LatchSettle lcd.Step
	// Process is held after lowering EN.
	Process lcd.Step
	// Clear and Home are held after the corresponding instruction.
	Clear lcd.Step
	Home  lcd.Step
}

// DefaultTiming has conservative margins over the datasheet figures
// (page 45 and 46).
var DefaultTiming = Timing{
	PowerOn: lcd.Step{Name: "power-on", Delay: 50 * time.Millisecond},
	Reset: [3]lcd.Step{
		{Name: "reset1", Delay: 4500 * time.Microsecond},
		{Name: "reset2", Delay: 150 * time.Microsecond},
		{Name: "reset3", Delay: 150 * time.Microsecond},
	},
	FourBit:     lcd.Step{Name: "four-bit", Delay: 150 * time.Microsecond},
	CloneSettle: lcd.Step{Name: "clone-settle", Delay: 5 * time.Millisecond},
	LatchSettle: lcd.Step{Name: "latch", Delay: time.Microsecond},
	Process:     lcd.Step{Name: "process", Delay: 50 * time.Microsecond},
	Clear:       lcd.Step{Name: "clear", Delay: 5 * time.Millisecond},
	Home:        lcd.Step{Name: "home", Delay: 2 * time.Millisecond},
}

// EncodeNibbles splits v in the two frames of the PCF8574 layout, high
// nibble first. rs and bl are the register select and backlight bits as they
// appear on the expander (0x01 and 0x08 respectively, or 0).
func EncodeNibbles(v, rs, bl byte) [2]byte {
	return [2]byte{(v & 0xf0) | rs | bl, ((v << 4) & 0xf0) | rs | bl}
}

// Nibble is the lcd.Protocol of an HD44780 in 4 bit mode behind an I/O
// expander.
//
// Every nibble is sent as three expander writes: the data with EN low, the
// same byte with EN high, and the data with EN low again. Only EN changes
// between the three writes, so RS and the backlight never glitch.
type Nibble struct {
	c       lcd.Conn
	layout  Layout
	timing  Timing
	sleeper lcd.Sleeper
	bl      bool
}

// NewNibble returns a Nibble writing to c. A nil timing selects
// DefaultTiming and a nil sleeper selects lcd.RealTime.
func NewNibble(c lcd.Conn, layout Layout, timing *Timing, sleeper lcd.Sleeper) *Nibble {
	if timing == nil {
		timing = &DefaultTiming
	}
	if sleeper == nil {
		sleeper = lcd.RealTime
	}
	return &Nibble{c: c, layout: layout, timing: *timing, sleeper: sleeper}
}

// Frames returns the two expander frames that carry v.
func (n *Nibble) Frames(v byte, rs bool) [2]byte {
	return [2]byte{n.layout.Frame(v>>4, rs, n.bl), n.layout.Frame(v, rs, n.bl)}
}

// Reset runs the power-on interface recovery: three 8 bit reset
// pseudo-commands with shrinking waits, then the switch to 4 bit.
func (n *Nibble) Reset() error {
	n.timing.PowerOn.Wait(n.sleeper)
	for _, w := range n.layout.Setup {
		if err := lcd.WriteBytes(n.c, w); err != nil {
			return err
		}
	}
	for _, st := range n.timing.Reset {
		if err := n.strobe(n.layout.Frame(resetNibble, false, n.bl)); err != nil {
			return err
		}
		st.Wait(n.sleeper)
	}
	if err := n.strobe(n.layout.Frame(fourBitNibble, false, n.bl)); err != nil {
		return err
	}
	n.timing.FourBit.Wait(n.sleeper)
	n.timing.CloneSettle.Wait(n.sleeper)
	return nil
}

// WriteCommand sends instruction bytes with RS low.
func (n *Nibble) WriteCommand(cmd ...byte) error {
	for _, c := range cmd {
		if err := n.send(c, false); err != nil {
			return err
		}
	}
	return nil
}

// WriteData sends bytes with RS high.
func (n *Nibble) WriteData(p []byte) error {
	for _, b := range p {
		if err := n.send(b, true); err != nil {
			return err
		}
	}
	return nil
}

// SetBacklight changes the backlight bit carried by the next transfers
// without any bus traffic.
func (n *Nibble) SetBacklight(on bool) {
	n.bl = on
}

// Backlight changes the backlight bit and applies it right away with a
// single expander write that carries no data and leaves EN low.
func (n *Nibble) Backlight(on bool) error {
	n.bl = on
	return n.write(n.layout.Frame(0, false, on))
}

// Backlit reports the current backlight bit.
func (n *Nibble) Backlit() bool {
	return n.bl
}

func (n *Nibble) send(v byte, rs bool) error {
	for _, f := range n.Frames(v, rs) {
		if err := n.strobe(f); err != nil {
			return err
		}
	}
	return nil
}

func (n *Nibble) strobe(frame byte) error {
	if err := n.write(frame); err != nil {
		return err
	}
	if err := n.write(frame | n.layout.EN); err != nil {
		return err
	}
	n.timing.LatchSettle.Wait(n.sleeper)
	if err := n.write(frame); err != nil {
		return err
	}
	n.timing.Process.Wait(n.sleeper)
	return nil
}

func (n *Nibble) write(frame byte) error {
	if n.layout.HasRegister {
		return lcd.WriteBytes(n.c, []byte{n.layout.Register, frame})
	}
	return lcd.WriteByte(n.c, frame)
}

var _ lcd.Protocol = &Nibble{}
