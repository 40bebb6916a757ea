package loader

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/jub0bs/corspolicy"
)

// Encode writes doc in format f. Absent keys are omitted.
// Encoding the result of [*corspolicy.Policy.Document] and parsing it back
// yields an equivalent policy.
func Encode(doc corspolicy.Document, f Format) ([]byte, error) {
	switch f {
	case JSON:
		b, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case YAML:
		return yaml.MarshalWithOptions(doc, yaml.IndentSequence(true))
	case TOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("corspolicy: unsupported format %v", f)
	}
}
