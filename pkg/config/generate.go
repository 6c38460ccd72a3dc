package config

import (
	"bytes"

	"github.com/arthur-debert/cleanfiles/pkg/types"
	"github.com/pelletier/go-toml/v2"
)

const generatedHeader = `# cleanfiles configuration
#
# Policies: "True" always acts, "False" never acts, "None" asks.
# Duplicate and name-collision groups ask under "False" too.

`

type fileView struct {
	Files   Files         `toml:"files"`
	Actions types.Actions `toml:"actions"`
}

// Generate renders the configuration as a TOML file that Load reads back to
// the same values
func Generate(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(generatedHeader)

	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(false)
	if err := encoder.Encode(fileView{Files: cfg.Files, Actions: cfg.Actions}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
