package adapters

import (
	"github.com/goccy/go-yaml"

	"github.com/agentstation/edforge/pkg/catalogs"
	"github.com/agentstation/edforge/pkg/errors"
)

// Fixture is the on-disk shape of a static provider catalog.
type Fixture struct {
	Items []catalogs.Item `yaml:"items"`
}

// DecodeFixture parses a YAML fixture document into raw items.
func DecodeFixture(name string, data []byte) ([]catalogs.Item, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapParse("yaml", name, err)
	}
	return f.Items, nil
}
