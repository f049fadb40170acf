// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package displaycfg describes a set of displays in a YAML file and opens
// them on the host I²C buses.
//
//	displays:
//	  - name: front
//	    family: hd44780
//	    expander: pcf8574
//	    address: 0x27
//	    variant: 20x4
//	  - name: status
//	    family: ssd1306
//	    variant: 128x32
//	    contrast: 0x40
package displaycfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/GermanBionicSystems/lcddrivers/hd44780"
	"github.com/GermanBionicSystems/lcddrivers/ssd1306"
	"gopkg.in/yaml.v3"
)

// Display families.
const (
	FamilyHD44780 = "hd44780"
	FamilySSD1306 = "ssd1306"
)

// Expanders of the hd44780 family.
const (
	ExpanderPCF8574  = "pcf8574"
	ExpanderMCP23008 = "mcp23008"
)

// ErrInvalid is returned for configurations that fail validation.
var ErrInvalid = errors.New("displaycfg: invalid configuration")

// Display is the configuration of one display.
type Display struct {
	// Name identifies the display in the map returned by Open.
	Name string `yaml:"name"`
	// Family is FamilyHD44780 (default) or FamilySSD1306.
	Family string `yaml:"family"`
	// Expander is the backpack of an hd44780 display. Defaults to
	// ExpanderPCF8574.
	Expander string `yaml:"expander,omitempty"`
	// Bus is the i2creg bus name. Empty selects the first bus.
	Bus string `yaml:"bus"`
	// Address is the 7 bit I²C address. 0 selects the default address of
	// the family and expander.
	Address uint16 `yaml:"address"`
	// Variant is the size, e.g. "20x4" or "128x64".
	Variant string `yaml:"variant"`
	// Backlight is the initial backlight. An ssd1306 panel is powered only
	// when both Backlight and DisplayOn are set. Defaults to true.
	Backlight *bool `yaml:"backlight,omitempty"`
	// DisplayOn is the initial display state. Defaults to true.
	DisplayOn *bool `yaml:"display_on,omitempty"`
	// Contrast is applied to an ssd1306 display after initialization.
	Contrast *uint8 `yaml:"contrast,omitempty"`
}

// Config is the top-level configuration.
type Config struct {
	Displays []Display `yaml:"displays"`
}

func boolPtr(v bool) *bool {
	return &v
}

// Normalize fills in missing values with their defaults.
func (c *Config) Normalize() {
	if c.Displays == nil {
		c.Displays = []Display{}
	}
	for i := range c.Displays {
		d := &c.Displays[i]
		if d.Family == "" {
			d.Family = FamilyHD44780
		}
		if d.Family == FamilyHD44780 && d.Expander == "" {
			d.Expander = ExpanderPCF8574
		}
		if d.Address == 0 {
			switch {
			case d.Family == FamilySSD1306:
				d.Address = ssd1306.DefaultAddress
			case d.Expander == ExpanderMCP23008:
				d.Address = hd44780.DefaultMCP23008Address
			default:
				d.Address = hd44780.DefaultPCF8574Address
			}
		}
		if d.Backlight == nil {
			d.Backlight = boolPtr(true)
		}
		if d.DisplayOn == nil {
			d.DisplayOn = boolPtr(true)
		}
	}
}

// Validate checks a normalized configuration.
func (c *Config) Validate() error {
	seen := map[string]bool{}
	for i := range c.Displays {
		d := &c.Displays[i]
		if d.Name == "" {
			return fmt.Errorf("%w: display #%d has no name", ErrInvalid, i)
		}
		if seen[d.Name] {
			return fmt.Errorf("%w: display %q is defined twice", ErrInvalid, d.Name)
		}
		seen[d.Name] = true
		if d.Address > 0x7f {
			return fmt.Errorf("%w: display %q: address %#x is not a 7 bit address", ErrInvalid, d.Name, d.Address)
		}
		if err := d.validateFamily(); err != nil {
			return fmt.Errorf("%w: display %q: %w", ErrInvalid, d.Name, err)
		}
	}
	return nil
}

func (d *Display) validateFamily() error {
	switch d.Family {
	case FamilyHD44780:
		if _, err := d.layout(); err != nil {
			return err
		}
		if d.Contrast != nil {
			return errors.New("contrast is not supported by hd44780")
		}
		_, err := hd44780.Variant(d.Variant).Geometry()
		return err
	case FamilySSD1306:
		if d.Expander != "" {
			return errors.New("ssd1306 has no expander")
		}
		_, _, err := ssd1306.Variant(d.Variant).Size()
		return err
	default:
		return fmt.Errorf("unknown family %q", d.Family)
	}
}

func (d *Display) layout() (hd44780.Layout, error) {
	switch d.Expander {
	case ExpanderPCF8574:
		return hd44780.PCF8574, nil
	case ExpanderMCP23008:
		return hd44780.MCP23008, nil
	default:
		return hd44780.Layout{}, fmt.Errorf("unknown expander %q", d.Expander)
	}
}

// Parse decodes, normalizes and validates a YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("displaycfg: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the YAML configuration at path.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("displaycfg: config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("displaycfg: %w", err)
	}
	return Parse(data)
}

// Save writes cfg to path, replacing the file atomically.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("displaycfg: config path is empty")
	}
	if cfg == nil {
		return errors.New("displaycfg: config is nil")
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("displaycfg: %w", err)
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".displaycfg-*.tmp")
	if err != nil {
		return fmt.Errorf("displaycfg: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("displaycfg: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("displaycfg: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("displaycfg: %w", err)
	}
	return nil
}
