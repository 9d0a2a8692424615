package vos

import (
	"fmt"
	"os"
	"path"
)

// Cwd tracks the working directory of a runner. OSCwd changes the real
// process directory so spawned programs inherit it; VirtualCwd tracks a
// path against a VFS for embedding and tests.
type Cwd interface {
	Getwd() (string, error)
	Chdir(dir string) error
}

// OSCwd is the process-backed working directory.
type OSCwd struct{}

var _ Cwd = (*OSCwd)(nil)

func NewOSCwd() *OSCwd {
	return &OSCwd{}
}

func (*OSCwd) Getwd() (string, error) {
	return os.Getwd()
}

func (*OSCwd) Chdir(dir string) error {
	return os.Chdir(dir)
}

// VirtualCwd tracks a working directory without touching process state.
// Targets are validated against the filesystem before the change sticks.
type VirtualCwd struct {
	fs  VFS
	dir string
}

var _ Cwd = (*VirtualCwd)(nil)

// NewVirtualCwd creates a virtual working directory rooted at dir.
func NewVirtualCwd(vfs VFS, dir string) *VirtualCwd {
	if dir == "" {
		dir = "/"
	}
	return &VirtualCwd{fs: vfs, dir: dir}
}

func (v *VirtualCwd) Getwd() (string, error) {
	return v.dir, nil
}

func (v *VirtualCwd) Chdir(dir string) error {
	if !path.IsAbs(dir) {
		dir = path.Clean(path.Join(v.dir, dir))
	}

	stat, err := v.fs.Stat(dir)
	switch {
	case err != nil:
		return fmt.Errorf("%s: %w", dir, err)
	case !stat.IsDir():
		return fmt.Errorf("%s: not a directory", dir)
	default:
		v.dir = dir
		return nil
	}
}
