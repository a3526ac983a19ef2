package seed

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// document raíz del archivo: una lista bajo "categories".
type document struct {
	Categories []Node `yaml:"categories"`
}

// LoadYAML lee un árbol de taxonomía. Campos desconocidos son error para detectar typos.
func LoadYAML(r io.Reader) ([]Node, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decodificar YAML: %w", err)
	}
	return doc.Categories, nil
}
