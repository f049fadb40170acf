// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcdtest contains helpers to test the display drivers without
// waiting for real settle delays.
package lcdtest

import (
	"time"

	"github.com/GermanBionicSystems/lcddrivers/lcd"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

// Clock is a lcd.Sleeper that records the requested delays and returns
// immediately.
type Clock struct {
	Sleeps []time.Duration
}

// Sleep implements lcd.Sleeper.
func (c *Clock) Sleep(d time.Duration) {
	c.Sleeps = append(c.Sleeps, d)
}

// Total returns the sum of all recorded delays.
func (c *Clock) Total() time.Duration {
	var t time.Duration
	for _, d := range c.Sleeps {
		t += d
	}
	return t
}

// Reset forgets the recorded delays.
func (c *Clock) Reset() {
	c.Sleeps = c.Sleeps[:0]
}

// Writes returns the write buffers of the recorded operations.
func Writes(ops []i2ctest.IO) [][]byte {
	out := make([][]byte, 0, len(ops))
	for _, op := range ops {
		out = append(out, op.W)
	}
	return out
}

var _ lcd.Sleeper = &Clock{}
