//go:build linux
// +build linux

package namespace

import (
	"sync/atomic"

	"github.com/YLonely/pinns/mount"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// System is the kernel facing side of a Pinner
type System interface {
	// Unshare moves the calling thread into new namespaces
	Unshare(flags int) error
	// Bind bind mounts source onto the existing file target
	Bind(source, target string) error
	// SpawnChild runs a short lived child process from the calling thread
	SpawnChild() error
	// NSDir is the directory holding the namespace handles of the calling thread
	NSDir() string
}

// namespace membership is per thread and Go schedules goroutines on
// many threads, so /proc/self/ns may belong to another thread
const threadNSDir = "/proc/thread-self/ns"

type linuxSystem struct {
	unshared int32
}

var hostSystem = &linuxSystem{}

// HostSystem returns the System acting on the running process.
// It allows a single Unshare per process.
func HostSystem() System {
	return hostSystem
}

func (s *linuxSystem) Unshare(flags int) error {
	if !atomic.CompareAndSwapInt32(&s.unshared, 0, 1) {
		return ErrAlreadyUnshared
	}
	return unix.Unshare(flags)
}

func (s *linuxSystem) Bind(source, target string) error {
	return mount.Bind(source, target)
}

func (s *linuxSystem) SpawnChild() error {
	cmd := newPIDInitCommand()
	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "failed to run the first process of the pid namespace")
	}
	return nil
}

func (s *linuxSystem) NSDir() string {
	return threadNSDir
}
