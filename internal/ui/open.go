package ui

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/skratchdot/open-golang/open"
)

// Opener hands a file to the platform's default application.
type Opener func(path string) error

// DefaultOpener uses xdg-open, open or start depending on the platform.
var DefaultOpener Opener = open.Start

var errNoOutput = errors.New("no merged file yet")

// openOutput opens path and returns the status line to show. When the file
// cannot be opened the user still learns where it is.
func openOutput(opener Opener, path string) (string, error) {
	if path == "" {
		return "", errNoOutput
	}
	if err := opener(path); err != nil {
		return "Archivo generado en: " + path, errors.Wrapf(err, "opening %s", path)
	}
	return "Abriendo " + filepath.Base(path), nil
}

// baseNames returns the file names shown in the attached list.
func baseNames(paths []string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return names
}
