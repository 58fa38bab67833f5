// Package config loads and validates the tool's configuration from
// defaults, a YAML file, environment variables, and command-line flags,
// in ascending order of precedence.
package config

// Config is the fully resolved tool configuration.
type Config struct {
	// Output is the rendering format: auto, table, markdown, or json.
	Output string `koanf:"output"`
	// Level is the log level: debug, info, warn, or error.
	Level string `koanf:"level"`

	Catalog    CatalogConfig    `koanf:"catalog"`
	Baseline   BaselineConfig   `koanf:"baseline"`
	Validation ValidationConfig `koanf:"validation"`
	Profile    ProfileConfig    `koanf:"profile"`
}

// CatalogConfig selects where target schemas come from.
type CatalogConfig struct {
	// Driver is sqlite, postgres, or yaml.
	Driver string `koanf:"driver"`
	// DSN is the database path, connection string, or schema file path.
	DSN string `koanf:"dsn"`
}

// BaselineConfig controls the drift snapshot store.
type BaselineConfig struct {
	// Path of the SQLite snapshot database. Empty disables drift
	// detection.
	Path string `koanf:"path"`
	// Keep is how many snapshot runs are retained per table.
	Keep int `koanf:"keep"`
}

// ValidationConfig tunes matching and inference.
type ValidationConfig struct {
	// Sample is the per-column inference sample size.
	Sample int `koanf:"sample"`
	// Threshold is the minimum column-match similarity score.
	Threshold float64 `koanf:"threshold"`
	// Aliases extends the built-in column alias dictionary.
	Aliases map[string]string `koanf:"aliases"`
}

// ProfileConfig tunes profiling output.
type ProfileConfig struct {
	// Rows is how many sample rows a profile shows.
	Rows int `koanf:"rows"`
}
