// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcddrivers is a container for small display drivers on I²C.
//
// hd44780 drives character LCDs behind a PCF8574 or MCP23008 expander
// backpack, ssd1306 drives monochrome OLED panels. Both share the shape
// defined in package lcd. lcdsim simulates the controllers at the bus level
// and displaycfg opens a set of displays described in a YAML file.
package lcddrivers
