package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSession(); err != nil {
		return err
	}
	if err := c.validateFigure(); err != nil {
		return err
	}
	if err := c.validateAnnotation(); err != nil {
		return err
	}
	if err := c.validateChannels(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSession() error {
	if _, err := time.LoadLocation(c.Session.Timezone); err != nil {
		return fmt.Errorf("session.timezone %q is not a known time zone: %w", c.Session.Timezone, err)
	}
	if _, _, err := c.SessionDate(); err != nil {
		return fmt.Errorf("%w (expected YYYY-MM-DD)", err)
	}
	switch c.Session.Period {
	case PeriodAuto, PeriodAM, PeriodPM:
	default:
		return fmt.Errorf("session.period must be one of auto, am, pm (got %q)", c.Session.Period)
	}
	return nil
}

func (c *Config) validateFigure() error {
	if c.Figure.Width*c.Figure.DPI < 200 {
		return errors.New("figure.width at figure.dpi must be at least 200 pixels")
	}
	if c.Figure.Height*c.Figure.DPI < 150 {
		return errors.New("figure.height at figure.dpi must be at least 150 pixels")
	}
	if c.Figure.DPI > 1200 {
		return errors.New("figure.dpi must be <= 1200")
	}
	return nil
}

func (c *Config) validateAnnotation() error {
	if c.Annotation.Opacity < 0 || c.Annotation.Opacity > 1 {
		return errors.New("annotation.opacity must be between 0 and 1")
	}
	if !isHexColor(c.Annotation.Color) {
		return fmt.Errorf("annotation.color must be a #rrggbb hex colour (got %q)", c.Annotation.Color)
	}
	if !isHexColor(c.Annotation.SessionColor) {
		return fmt.Errorf("annotation.session_color must be a #rrggbb hex colour (got %q)", c.Annotation.SessionColor)
	}
	return nil
}

func (c *Config) validateChannels() error {
	if len(c.Channels) == 0 {
		return errors.New("channels must define at least one signal code")
	}
	for code, ch := range c.Channels {
		if strings.ContainsAny(code, "*?[]/\\") {
			return fmt.Errorf("channels.%s: code must not contain path or pattern characters", code)
		}
		if !isHexColor(ch.Color) {
			return fmt.Errorf("channels.%s.color must be a #rrggbb hex colour (got %q)", code, ch.Color)
		}
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.Workers > 64 {
		return errors.New("render.workers must be <= 64")
	}
	for _, code := range c.Render.Signals {
		if _, ok := c.Channels[code]; !ok {
			return fmt.Errorf("render.signals: %q has no [channels.%s] entry", code, code)
		}
	}
	return nil
}

func isHexColor(value string) bool {
	if len(value) != 7 || value[0] != '#' {
		return false
	}
	for _, r := range value[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
