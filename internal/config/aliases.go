package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// aliasFile is the on-disk shape of a status alias override file:
//
//	aliases:
//	  qa: "in review"
//	  icebox: "backlog"
type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadAliases reads extra status aliases from a yaml file. An empty
// path returns nil without error; a missing file is an error, since the
// path was configured explicitly.
func LoadAliases(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading aliases file: %w", err)
	}
	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing aliases file %s: %w", path, err)
	}
	return f.Aliases, nil
}
