package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"costumeshop/shared/game/types"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type catalogFile struct {
	Costumes []types.CostumeDefinition `yaml:"costumes"`
}

// LoadYAML registers every costume listed in r, in file order.
// Any duplicate aborts the load and the error names the offending id.
func (reg *Registry) LoadYAML(r io.Reader) error {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode catalog: %w", err)
	}
	for _, def := range f.Costumes {
		if err := reg.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// Load builds a registry from path, or from the embedded defaults when path is empty.
func Load(path string) (*Registry, error) {
	reg := New()
	if path == "" {
		if err := reg.LoadYAML(bytes.NewReader(defaultsYAML)); err != nil {
			return nil, fmt.Errorf("embedded catalog: %w", err)
		}
		return reg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	if err := reg.LoadYAML(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}
