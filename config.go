package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds floornav configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Map     MapConfig     `toml:"map"`
	Motion  MotionConfig  `toml:"motion"`
	Pick    PickConfig    `toml:"pick"`
	Route   RouteConfig   `toml:"route"`
	Labels  Labels        `toml:"labels"`
	Session SessionConfig `toml:"session"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// MapConfig points at the floor dataset.
type MapConfig struct {
	Path string `toml:"path"`
}

// MotionConfig controls traversal timing.
type MotionConfig struct {
	SegmentMS int `toml:"segment_ms"`
	FrameMS   int `toml:"frame_ms"`
}

// PickConfig controls coordinate picks.
type PickConfig struct {
	Radius float64 `toml:"radius"` // in map percent
}

// RouteConfig controls how routes are drawn.
type RouteConfig struct {
	SimplifyEpsilon float64 `toml:"simplify_epsilon"` // 0 disables
}

// Labels are the user-facing texts pushed to the renderer.
type Labels struct {
	Placeholder       string `toml:"placeholder"`
	ChooseStart       string `toml:"choose_start"`
	ChooseDestination string `toml:"choose_destination"`
	Navigate          string `toml:"navigate"`
}

// SessionConfig throttles inbound events per WebSocket session.
type SessionConfig struct {
	EventsPerSecond float64 `toml:"events_per_second"`
	Burst           int     `toml:"burst"`
}

// DefaultSegmentDuration is how long one route hop takes to animate
const DefaultSegmentDuration = 600 * time.Millisecond

// DefaultLabels returns the built-in label texts.
func DefaultLabels() Labels {
	return Labels{
		Placeholder:       "-",
		ChooseStart:       "choose a start",
		ChooseDestination: "choose a destination",
		Navigate:          "navigate",
	}
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Addr: ":8080"},
		Map:     MapConfig{Path: "map-floor1.json"},
		Motion:  MotionConfig{SegmentMS: int(DefaultSegmentDuration / time.Millisecond), FrameMS: 16},
		Pick:    PickConfig{Radius: 3},
		Labels:  DefaultLabels(),
		Session: SessionConfig{EventsPerSecond: 20, Burst: 10},
	}
}

// LoadConfig decodes a TOML file over the defaults. A missing file is not
// an error.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	cfg.sanitize()
	return cfg, nil
}

// sanitize replaces unusable values with defaults
func (c *Config) sanitize() {
	def := Default()
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Motion.SegmentMS <= 0 {
		c.Motion.SegmentMS = def.Motion.SegmentMS
	}
	if c.Motion.FrameMS <= 0 {
		c.Motion.FrameMS = def.Motion.FrameMS
	}
	if c.Pick.Radius <= 0 {
		c.Pick.Radius = def.Pick.Radius
	}
	if c.Route.SimplifyEpsilon < 0 {
		c.Route.SimplifyEpsilon = 0
	}
	if c.Session.EventsPerSecond <= 0 {
		c.Session.EventsPerSecond = def.Session.EventsPerSecond
	}
	if c.Session.Burst <= 0 {
		c.Session.Burst = def.Session.Burst
	}
	c.Labels = c.Labels.withDefaults()
}

func (l Labels) withDefaults() Labels {
	def := DefaultLabels()
	if l.Placeholder == "" {
		l.Placeholder = def.Placeholder
	}
	if l.ChooseStart == "" {
		l.ChooseStart = def.ChooseStart
	}
	if l.ChooseDestination == "" {
		l.ChooseDestination = def.ChooseDestination
	}
	if l.Navigate == "" {
		l.Navigate = def.Navigate
	}
	return l
}

// SegmentDuration returns the per-hop animation time
func (c *Config) SegmentDuration() time.Duration {
	return time.Duration(c.Motion.SegmentMS) * time.Millisecond
}

// FrameInterval returns the render tick interval
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.Motion.FrameMS) * time.Millisecond
}
