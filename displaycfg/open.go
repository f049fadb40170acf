// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package displaycfg

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/lcddrivers/hd44780"
	"github.com/GermanBionicSystems/lcddrivers/internal/log"
	"github.com/GermanBionicSystems/lcddrivers/lcd"
	"github.com/GermanBionicSystems/lcddrivers/ssd1306"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// Opener binds the configured displays to the host.
type Opener struct {
	// Init prepares the host drivers. nil skips it.
	Init func() error
	// OpenBus opens an I²C bus by name.
	OpenBus func(name string) (i2c.BusCloser, error)
	// Sleeper is given to the hd44780 drivers. nil selects lcd.RealTime.
	Sleeper lcd.Sleeper
}

// DefaultOpener initializes periph and opens the buses from the i2creg
// registry.
var DefaultOpener = Opener{
	Init: func() error {
		_, err := host.Init()
		return err
	},
	OpenBus: i2creg.Open,
}

// sharedBus lets several displays own the same bus. The bus is closed with
// the last of them.
type sharedBus struct {
	i2c.BusCloser
	refs *int
}

func (s *sharedBus) Close() error {
	*s.refs--
	if *s.refs == 0 {
		return s.BusCloser.Close()
	}
	return nil
}

// Open opens and initializes every display of cfg, keyed by name.
//
// On failure, the displays opened so far are closed and the error is
// returned.
func Open(cfg *Config, o *Opener) (map[string]lcd.Display, error) {
	if o == nil {
		o = &DefaultOpener
	}
	if o.OpenBus == nil {
		return nil, errors.New("displaycfg: Opener.OpenBus is nil")
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if o.Init != nil {
		if err := o.Init(); err != nil {
			return nil, fmt.Errorf("displaycfg: host init: %w", err)
		}
	}
	buses := map[string]i2c.BusCloser{}
	refs := map[string]*int{}
	out := make(map[string]lcd.Display, len(cfg.Displays))
	fail := func(err error) (map[string]lcd.Display, error) {
		log.Error("opening displays failed", err, "opened", len(out))
		// Buses with displays are closed by their last display.
		for name, b := range buses {
			if *refs[name] == 0 {
				_ = b.Close()
			}
		}
		_ = CloseAll(out)
		return nil, err
	}
	for i := range cfg.Displays {
		d := &cfg.Displays[i]
		b, ok := buses[d.Bus]
		if !ok {
			var err error
			if b, err = o.OpenBus(d.Bus); err != nil {
				return fail(fmt.Errorf("displaycfg: display %q: bus %q: %w", d.Name, d.Bus, err))
			}
			buses[d.Bus] = b
			refs[d.Bus] = new(int)
		}
		*refs[d.Bus]++
		dev, err := openDisplay(d, &sharedBus{BusCloser: b, refs: refs[d.Bus]}, o.Sleeper)
		if err != nil {
			*refs[d.Bus]--
			return fail(fmt.Errorf("displaycfg: display %q: %w", d.Name, err))
		}
		out[d.Name] = dev
		log.Info("display opened", "name", d.Name, "family", d.Family, "bus", b.String(), "address", fmt.Sprintf("%#02x", d.Address), "variant", d.Variant)
	}
	return out, nil
}

func openDisplay(d *Display, bus i2c.Bus, s lcd.Sleeper) (lcd.Display, error) {
	backlight := d.Backlight == nil || *d.Backlight
	on := d.DisplayOn == nil || *d.DisplayOn
	switch d.Family {
	case FamilySSD1306:
		dev := ssd1306.NewI2C(bus, &ssd1306.Opts{Addr: d.Address})
		if err := dev.Init(ssd1306.Variant(d.Variant), backlight, on); err != nil {
			return nil, err
		}
		if d.Contrast != nil {
			if err := dev.SetContrast(*d.Contrast); err != nil {
				return nil, err
			}
		}
		return dev, nil
	default:
		layout, err := d.layout()
		if err != nil {
			return nil, err
		}
		dev := hd44780.New(bus, d.Address, layout, &hd44780.Opts{Sleeper: s})
		if err := dev.Init(hd44780.Variant(d.Variant), backlight, on); err != nil {
			return nil, err
		}
		return dev, nil
	}
}

// CloseAll closes every display and returns the first error.
func CloseAll(displays map[string]lcd.Display) error {
	var first error
	for name, d := range displays {
		if err := d.Close(); err != nil && first == nil {
			first = fmt.Errorf("displaycfg: display %q: %w", name, err)
		}
	}
	return first
}
