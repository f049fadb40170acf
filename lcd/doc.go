// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcd holds the pieces shared by the display drivers in this module.
//
// The character drivers (package hd44780) and the graphic drivers (package
// ssd1306) talk to very different controllers, but they are built the same
// way: a Protocol moves command and data bytes to the controller, and a
// driver on top of it tracks the display state that has to survive between
// calls. This package contains that shape: the Protocol interface, the
// display control Flags, the row Geometry, the custom glyph store, the
// settle delays expressed as data, and the error taxonomy.
//
// # Concurrency
//
// Nothing in this module locks. A driver owns its bus address exclusively,
// and callers that share one driver between goroutines must serialize the
// calls themselves. An interleaved nibble sequence corrupts the controller
// state until it is initialized again.
package lcd
