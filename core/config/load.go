package config

import (
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

// Load reads the configuration from the given directory. If handed the
// path of a config.yaml file directly it moves back up a level.
func Load(fs afero.Fs, path string) (*Configuration, error) {
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	contents, err := afero.ReadFile(fs, filepath.Join(path, ConfigurationName))
	if err != nil {
		return nil, err
	}

	out := Default()
	if err := yaml.UnmarshalStrict(contents, out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Write serializes the configuration into the given directory, creating it
// if needed.
func Write(fs afero.Fs, path string, c *Configuration) error {
	if err := fs.MkdirAll(path, 0755); err != nil {
		return err
	}

	contents, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, filepath.Join(path, ConfigurationName), contents, 0644)
}
