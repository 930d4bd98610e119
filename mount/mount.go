package mount

import (
	mnt "github.com/containerd/containerd/mount"
	"github.com/pkg/errors"
)

// Mount is a 'Mount' struct from containerd
type Mount mnt.Mount

func (m *Mount) Mount(target string) error {
	mm := mnt.Mount(*m)
	return mm.Mount(target)
}

// Bind makes target an alias of source. target has to exist and be of
// the same kind as source, a file for namespace handles.
func Bind(source, target string) error {
	m := &Mount{
		Type:    "bind",
		Source:  source,
		Options: []string{"bind"},
	}
	if err := m.Mount(target); err != nil {
		return errors.Wrapf(err, "failed to bind mount %s to %s", source, target)
	}
	return nil
}
