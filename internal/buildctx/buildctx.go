// Package buildctx manages the throwaway directories handed to image builds.
package buildctx

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	brewerrors "brewboxes/internal/errors"
)

const (
	// DirPrefix prefixes every build context directory name.
	DirPrefix = "brewboxes-"
	// DescriptorName is the build descriptor file written into the context.
	DescriptorName = "Dockerfile"
)

// Context is a temporary build directory holding a single descriptor that
// starts from an upstream image.
type Context struct {
	dir      string
	once     sync.Once
	removeFn func(string) error
}

// Create makes a new build context for imageRef under the system temp directory.
func Create(imageRef string) (*Context, error) {
	return CreateIn("", imageRef)
}

// CreateIn is Create with an explicit parent directory. An empty parent means
// the system temp directory.
func CreateIn(parent, imageRef string) (*Context, error) {
	dir, err := os.MkdirTemp(parent, DirPrefix)
	if err != nil {
		return nil, brewerrors.NewFileSystemError(
			"Failed to create build context",
			"could not create a temporary directory",
			"Check that the temp directory is writable",
			err,
		)
	}

	path := filepath.Join(dir, DescriptorName)
	if err := os.WriteFile(path, []byte(Descriptor(imageRef)), 0o644); err != nil {
		_ = os.RemoveAll(dir)
		return nil, brewerrors.NewFileSystemError(
			"Failed to create build context",
			fmt.Sprintf("could not write %s", path),
			"Check that the temp directory is writable",
			err,
		)
	}

	slog.Debug("Build context created", "dir", dir, "image", imageRef)
	return &Context{dir: dir, removeFn: os.RemoveAll}, nil
}

// Descriptor returns the build descriptor content for imageRef.
func Descriptor(imageRef string) string {
	return "FROM " + imageRef
}

// Dir returns the context directory.
func (c *Context) Dir() string {
	return c.dir
}

// Destroy removes the directory and everything in it. Only the first call does
// any work. Removal errors are logged and never returned.
func (c *Context) Destroy() {
	if c == nil {
		return
	}
	c.once.Do(func() {
		if err := c.removeFn(c.dir); err != nil {
			slog.Warn("Failed to remove build context", "dir", c.dir, "error", err)
			return
		}
		slog.Debug("Build context removed", "dir", c.dir)
	})
}
