package types

import (
	"github.com/opencontainers/runtime-spec/specs-go"
	"github.com/pkg/errors"
)

type NamespaceType string

const (
	NamespaceCgroup NamespaceType = "cgroup"
	NamespaceIPC    NamespaceType = "ipc"
	NamespaceNet    NamespaceType = "net"
	NamespacePID    NamespaceType = "pid"
	NamespaceUser   NamespaceType = "user"
	NamespaceUTS    NamespaceType = "uts"
)

var type2RuntimeSpec = map[NamespaceType]specs.LinuxNamespaceType{
	NamespaceCgroup: specs.CgroupNamespace,
	NamespaceIPC:    specs.IPCNamespace,
	NamespaceNet:    specs.NetworkNamespace,
	NamespacePID:    specs.PIDNamespace,
	NamespaceUser:   specs.UserNamespace,
	NamespaceUTS:    specs.UTSNamespace,
}

// ParseNamespaceType converts a name like "net" into a NamespaceType
func ParseNamespaceType(name string) (NamespaceType, error) {
	t := NamespaceType(name)
	if _, valid := type2RuntimeSpec[t]; !valid {
		return "", errors.Errorf("unknown namespace type %q", name)
	}
	return t, nil
}

// RuntimeSpec returns the OCI runtime-spec name of the namespace type,
// which differs from ours for the network namespace.
func (t NamespaceType) RuntimeSpec() specs.LinuxNamespaceType {
	return type2RuntimeSpec[t]
}

// LinuxNamespace describes a pinned namespace the way an OCI config.json does
func LinuxNamespace(t NamespaceType, path string) specs.LinuxNamespace {
	return specs.LinuxNamespace{
		Type: t.RuntimeSpec(),
		Path: path,
	}
}
