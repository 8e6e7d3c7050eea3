// Package config loads the numeric graph settings from an optional config
// file and MOVIEGRAPH_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/TFMV/moviegraph/graph"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment overrides.
const EnvPrefix = "MOVIEGRAPH"

// Keys lists every setting the graph reads.
var Keys = []string{
	graph.KeyNodeChildren,
	graph.KeyEdgeLength,
	graph.KeyNodePerimeter,
}

// Defaults holds the value each key takes when nothing sets it.
var Defaults = map[string]float64{
	graph.KeyNodeChildren:  graph.DefaultChildren,
	graph.KeyEdgeLength:    graph.DefaultEdgeLength,
	graph.KeyNodePerimeter: graph.DefaultPerimeter,
}

// Settings is a graph.Settings backed by viper. Only explicitly set keys are
// reported, so the graph keeps its own derived defaults for the rest.
type Settings struct {
	v *viper.Viper
}

var _ graph.Settings = (*Settings)(nil)

// Load reads path when it is not empty and layers the environment on top.
// The file format follows the extension (toml, yaml or json).
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range Keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	s := &Settings{v: v}
	for _, k := range Keys {
		if !v.IsSet(k) {
			continue
		}
		if _, err := s.float(k); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Lookup implements graph.Settings.
func (s *Settings) Lookup(key string) (float64, bool) {
	if s == nil || s.v == nil || !s.v.IsSet(key) {
		return 0, false
	}
	f, err := s.float(key)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Value returns the setting for key, falling back to Defaults.
func (s *Settings) Value(key string) float64 {
	if f, ok := s.Lookup(key); ok {
		return f
	}
	return Defaults[key]
}

// Map returns the explicitly set keys.
func (s *Settings) Map() graph.SettingsMap {
	m := graph.SettingsMap{}
	for _, k := range Keys {
		if f, ok := s.Lookup(k); ok {
			m[k] = f
		}
	}
	return m
}

// float converts the raw value. viper's GetFloat64 turns garbage into 0,
// so use the erroring cast to reject it.
func (s *Settings) float(key string) (float64, error) {
	f, err := cast.ToFloat64E(s.v.Get(key))
	if err != nil {
		return 0, fmt.Errorf("setting %s: %w", key, err)
	}
	return f, nil
}
