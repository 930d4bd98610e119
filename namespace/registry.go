//go:build linux
// +build linux

package namespace

import (
	"fmt"

	"github.com/YLonely/pinns/api/types"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Descriptor holds everything needed to unshare and pin one kind of namespace
type Descriptor struct {
	Type types.NamespaceType
	// ProcName is the entry of the namespace under /proc/<tid>/ns
	ProcName string
	Flag     int
	// Sysctl is the item under /proc/sys limiting how many namespaces of
	// this kind a user may create
	Sysctl string
	// Threaded is false if the kernel refuses to unshare the namespace
	// from a multi-threaded process, which a Go process always is
	Threaded bool
}

// descriptors is in declaration order, every iteration follows it
var descriptors = []Descriptor{
	newDescriptor(types.NamespaceCgroup, "cgroup", unix.CLONE_NEWCGROUP, true),
	newDescriptor(types.NamespaceIPC, "ipc", unix.CLONE_NEWIPC, true),
	newDescriptor(types.NamespaceNet, "net", unix.CLONE_NEWNET, true),
	// a new pid namespace only applies to children of the unsharing thread
	newDescriptor(types.NamespacePID, "pid_for_children", unix.CLONE_NEWPID, true),
	newDescriptor(types.NamespaceUser, "user", unix.CLONE_NEWUSER, false),
	newDescriptor(types.NamespaceUTS, "uts", unix.CLONE_NEWUTS, true),
}

var type2Index = func() map[types.NamespaceType]int {
	m := map[types.NamespaceType]int{}
	for i, d := range descriptors {
		m[d.Type] = i
	}
	return m
}()

func newDescriptor(t types.NamespaceType, procName string, flag int, threaded bool) Descriptor {
	return Descriptor{
		Type:     t,
		ProcName: procName,
		Flag:     flag,
		Sysctl:   fmt.Sprintf("user/max_%s_namespaces", t),
		Threaded: threaded,
	}
}

// Describe returns the descriptor of t. t must be one of the types
// returned by Kinds.
func Describe(t types.NamespaceType) Descriptor {
	i, exists := type2Index[t]
	if !exists {
		panic(errors.Errorf("namespace type %q is not registered", t))
	}
	return descriptors[i]
}

// Kinds lists all supported namespace types in declaration order
func Kinds() []types.NamespaceType {
	return typesOf(descriptors)
}

// Enabled returns the descriptors of the requested types in declaration
// order, no matter in which order they were requested. Unknown and
// duplicated types are ignored.
func Enabled(requested []types.NamespaceType) []Descriptor {
	set := map[types.NamespaceType]bool{}
	for _, t := range requested {
		set[t] = true
	}
	ret := []Descriptor{}
	for _, d := range descriptors {
		if set[d.Type] {
			ret = append(ret, d)
		}
	}
	return ret
}

// Flags combines the unshare flags of ds
func Flags(ds []Descriptor) int {
	flags := 0
	for _, d := range ds {
		flags |= d.Flag
	}
	return flags
}

func typesOf(ds []Descriptor) []types.NamespaceType {
	ret := make([]types.NamespaceType, 0, len(ds))
	for _, d := range ds {
		ret = append(ret, d.Type)
	}
	return ret
}
