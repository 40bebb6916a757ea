package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	toml "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
)

// A Format identifies the encoding of a configuration document.
type Format uint8

const (
	JSON Format = iota
	YAML
	TOML
)

var formatNames = [...]string{
	JSON: "json",
	YAML: "yaml",
	TOML: "toml",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

// ParseFormat returns the Format named by s ("json", "yaml", "yml", or
// "toml"; case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	default:
		return 0, fmt.Errorf("corspolicy: unsupported format %q", s)
	}
}

// FormatFromPath infers a Format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return 0, fmt.Errorf("corspolicy: cannot infer format of %q", path)
	}
	return ParseFormat(ext)
}

func (f Format) parser() koanf.Parser {
	switch f {
	case YAML:
		return yaml.Parser()
	case TOML:
		return toml.Parser()
	default:
		return json.Parser()
	}
}
