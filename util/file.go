package util

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
)

func ReadFileYAML(path string, target interface{}) error {
	if !FileExists(path) {
		return errors.Errorf("file %s does not exist", path)
	}

	return errors.Wrapf(utility.ReadYAMLFile(path, target), "problem parsing yaml/json from file %s", path)
}

func FileExists(path string) bool {
	if path == "" {
		return false
	}

	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

// SeriesFile is a named series of observations on disk.
type SeriesFile struct {
	Name   string    `json:"name" yaml:"name"`
	Series []float64 `json:"series" yaml:"series"`
}

// ReadSeriesFile reads a YAML or JSON file holding either a bare list of
// numbers or a document with name and series keys. A bare list, or a
// document without a name, is named after the file.
func ReadSeriesFile(path string) (*SeriesFile, error) {
	out := &SeriesFile{}
	if err := ReadFileYAML(path, out); err != nil {
		var bare []float64
		if bareErr := ReadFileYAML(path, &bare); bareErr != nil {
			return nil, errors.Wrapf(err, "file %s is neither a series document nor a list of numbers", path)
		}
		out.Series = bare
	}

	if out.Name == "" {
		out.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if len(out.Series) == 0 {
		return nil, errors.Errorf("file %s has no observations", path)
	}

	return out, nil
}
