package imstiff

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// MetadataLevel controls how much metadata is extracted when a file is opened.
type MetadataLevel int

const (
	// MetadataMinimum only populates the pixel dimensions.
	MetadataMinimum MetadataLevel = iota
	// MetadataAll also parses the comment of the first directory.
	MetadataAll
)

func (l MetadataLevel) String() string {
	if l == MetadataMinimum {
		return "minimum"
	}
	return "all"
}

// MarshalText implements encoding.TextMarshaler.
func (l MetadataLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *MetadataLevel) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "minimum", "min":
		*l = MetadataMinimum
	case "all", "":
		*l = MetadataAll
	default:
		return errors.Errorf("unknown metadata level %q", text)
	}
	return nil
}

// Config is the TOML configuration of the reader.
type Config struct {
	Reader struct {
		MetadataLevel MetadataLevel `toml:"metadata_level"`
	}
	Logging LogConfig
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	c := &Config{}
	c.Reader.MetadataLevel = MetadataAll
	c.Logging.Mode = "info"
	return c
}

// LoadConfig loads a TOML configuration file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(path string) (*Config, error) {
	c := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c, nil
	}

	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, errors.Wrapf(err, "could not parse config file %s", path)
	}
	return c, nil
}

// ParseConfig decodes a TOML configuration from a string.
func ParseConfig(data string) (*Config, error) {
	c := DefaultConfig()
	if _, err := toml.Decode(data, c); err != nil {
		return nil, errors.Wrap(err, "could not parse config")
	}
	return c, nil
}
