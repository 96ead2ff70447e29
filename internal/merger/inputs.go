package merger

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// CollectInputs walks dir and returns, in lexical order, the files accepted
// by accept. Office lock files ("~$name.xlsx") are skipped.
func CollectInputs(dir string, accept func(path string) bool) ([]string, error) {
	inputFiles := []string{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), "~$") || !accept(path) {
			return nil
		}
		inputFiles = append(inputFiles, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", dir)
	}
	return inputFiles, nil
}
