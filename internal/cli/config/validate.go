package config

import "fmt"

var validOutputs = map[string]bool{"auto": true, "table": true, "markdown": true, "json": true}
var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
var validDrivers = map[string]bool{"": true, "sqlite": true, "postgres": true, "yaml": true}

// Validate rejects settings the rest of the tool cannot work with.
// Range-style tunables are not checked here: the engine clamps those.
func (c *Config) Validate() error {
	if !validOutputs[c.Output] {
		return fmt.Errorf("config: invalid output format %q", c.Output)
	}
	if !validLevels[c.Level] {
		return fmt.Errorf("config: invalid log level %q", c.Level)
	}
	if !validDrivers[c.Catalog.Driver] {
		return fmt.Errorf("config: invalid catalog driver %q", c.Catalog.Driver)
	}
	if c.Catalog.Driver != "" && c.Catalog.DSN == "" {
		return fmt.Errorf("config: catalog driver %q requires catalog.dsn", c.Catalog.Driver)
	}
	return nil
}
