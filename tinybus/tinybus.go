// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tinybus adapts TinyGo I²C buses to periph, so that the display
// drivers of this module run on microcontrollers.
//
// Any tinygo.org/x/drivers.I2C, such as a *machine.I2C, can be wrapped:
//
//	bus := tinybus.New(machine.I2C0, "I2C0")
//	dev := hd44780.NewPCF8574(bus, hd44780.DefaultPCF8574Address, nil)
package tinybus

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"
)

// ErrSpeedUnsupported is returned by SetSpeed when the wrapped bus cannot
// change its clock.
var ErrSpeedUnsupported = errors.New("tinybus: bus speed cannot be changed")

// baudRater is implemented by *machine.I2C.
type baudRater interface {
	SetBaudRate(br uint32) error
}

// Bus is an i2c.Bus backed by a drivers.I2C.
type Bus struct {
	bus  drivers.I2C
	name string
}

// New wraps bus. name is returned by String.
func New(bus drivers.I2C, name string) *Bus {
	if name == "" {
		name = "tinygo"
	}
	return &Bus{bus: bus, name: name}
}

func (b *Bus) String() string {
	return b.name
}

// Tx implements i2c.Bus.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if err := b.bus.Tx(addr, w, r); err != nil {
		return fmt.Errorf("tinybus: %s: tx to %#x: %w", b.name, addr, err)
	}
	return nil
}

// SetSpeed implements i2c.Bus. It needs the wrapped bus to have a
// SetBaudRate method.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	s, ok := b.bus.(baudRater)
	if !ok {
		return ErrSpeedUnsupported
	}
	if f <= 0 || f/physic.Hertz > 1<<32-1 {
		return fmt.Errorf("tinybus: %s: invalid speed %s", b.name, f)
	}
	if err := s.SetBaudRate(uint32(f / physic.Hertz)); err != nil {
		return fmt.Errorf("tinybus: %s: %w", b.name, err)
	}
	return nil
}

var _ i2c.Bus = &Bus{}
