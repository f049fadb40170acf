// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcd

import (
	"fmt"
	"time"
)

// Sleeper blocks for the requested duration. Drivers never sleep directly,
// they ask their Sleeper so the timing contract can be observed in tests.
type Sleeper interface {
	Sleep(d time.Duration)
}

// SleepFunc adapts a function to the Sleeper interface.
type SleepFunc func(d time.Duration)

// Sleep calls f(d).
func (f SleepFunc) Sleep(d time.Duration) {
	f(d)
}

// RealTime is the Sleeper backed by time.Sleep.
var RealTime Sleeper = SleepFunc(time.Sleep)

// Step is a named mandatory wait attached to one protocol step.
//
// The controllers have no usable busy flag behind an expander, so their
// execution time is assumed rather than polled.
type Step struct {
	Name  string
	Delay time.Duration
}

// Wait blocks on s for the step delay. Zero delays do not call s.
func (st Step) Wait(s Sleeper) {
	if st.Delay > 0 {
		s.Sleep(st.Delay)
	}
}

func (st Step) String() string {
	return fmt.Sprintf("%s(%s)", st.Name, st.Delay)
}
