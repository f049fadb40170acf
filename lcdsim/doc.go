// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcdsim simulates the display controllers driven by this module at
// the I²C transaction level.
//
// HD44780 decodes the expander writes of a PCF8574 or MCP23008 backpack back
// into controller instructions and keeps its DDRAM and CGRAM. SSD1306 decodes
// the control framed writes and keeps its GDDRAM. Both implement i2c.Bus, so
// the real drivers run unchanged on top of them:
//
//	sim, _ := lcdsim.NewHD44780(hd44780.PCF8574, 20, 4)
//	dev, _ := hd44780.Open(sim, hd44780.DefaultPCF8574Address, hd44780.PCF8574, hd44780.LCD2004, nil)
//	_ = dev.WriteTextAtLine("hello", 0)
//	fmt.Println(sim.Line(0))
//
// Terminal draws the simulated panels on a console.
package lcdsim
