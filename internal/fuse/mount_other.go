//go:build !linux
// +build !linux

package fuse

import (
	"fmt"

	"github.com/ostafen/mediadecoder/internal/logger"
)

func Mount(mountpoint string, tree *Tree, log *logger.Logger) error {
	return fmt.Errorf("FUSE mount is only supported on Linux")
}
