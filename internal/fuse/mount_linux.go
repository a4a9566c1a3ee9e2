//go:build linux
// +build linux

// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package fuse

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
	"github.com/ostafen/mediadecoder/internal/logger"
	osutils "github.com/ostafen/mediadecoder/pkg/util/os"
)

// Mount serves tree read-only at mountpoint until SIGINT or SIGTERM.
func Mount(mountpoint string, tree *Tree, log *logger.Logger) error {
	created, err := PrepareMountpoint(mountpoint)
	if err != nil {
		return err
	}
	if created {
		defer os.Remove(mountpoint)
	}

	c, err := fuse.Mount(mountpoint, fuse.ReadOnly(), fuse.FSName("mediadecoder"))
	if err != nil {
		return err
	}
	defer c.Close()

	ifs := &ImageFS{
		tree:    tree,
		mounted: time.Now(),
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- fusefs.New(c, nil).Serve(ifs)
	}()

	log.Infof("mounted at %s, waiting for termination signal...", mountpoint)
	return waitForUmount(mountpoint, serveErr, log)
}

const maxUnmountRetries = 3

func waitForUmount(mountpoint string, serveErr <-chan error, log *logger.Logger) error {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)

	attempts := 0
	for {
		select {
		case err := <-serveErr:
			return err
		case sig := <-sigc:
			log.Infof("signal received: %v", sig)

			attempts++
			log.Infof("attempting unmount of %s (attempt %d/%d)...", mountpoint, attempts, maxUnmountRetries)

			err := fuse.Unmount(mountpoint)
			if err == nil {
				log.Info("unmounted successfully")
				return nil
			}
			if attempts >= maxUnmountRetries {
				return fmt.Errorf("unable to unmount %s after %d attempts: %w", mountpoint, attempts, err)
			}
			log.Warnf("unmount failed: %v, send another signal to retry", err)
		}
	}
}

// PrepareMountpoint ensures mountpoint is an empty directory, creating it if
// needed. It reports whether the directory was created.
func PrepareMountpoint(mountpoint string) (bool, error) {
	created, err := osutils.EnsureDir(mountpoint, true)
	if err != nil {
		return false, fmt.Errorf("invalid mountpoint %s: %w", mountpoint, err)
	}
	return created, nil
}
