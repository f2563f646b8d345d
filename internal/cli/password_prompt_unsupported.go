//go:build !windows && !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package cli

import (
	"errors"
	"os"
)

func readHiddenLine(_ *os.File) (string, error) {
	return "", errors.New("hidden password input is not supported on this platform")
}
