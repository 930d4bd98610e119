//go:build linux
// +build linux

package namespace

import (
	"testing"

	"github.com/YLonely/pinns/api/types"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestDescribe(t *testing.T) {
	for _, tc := range []struct {
		t        types.NamespaceType
		procName string
		flag     int
	}{
		{types.NamespaceCgroup, "cgroup", unix.CLONE_NEWCGROUP},
		{types.NamespaceIPC, "ipc", unix.CLONE_NEWIPC},
		{types.NamespaceNet, "net", unix.CLONE_NEWNET},
		{types.NamespacePID, "pid_for_children", unix.CLONE_NEWPID},
		{types.NamespaceUser, "user", unix.CLONE_NEWUSER},
		{types.NamespaceUTS, "uts", unix.CLONE_NEWUTS},
	} {
		d := Describe(tc.t)
		assert.Equal(t, tc.t, d.Type)
		assert.Equal(t, tc.procName, d.ProcName)
		assert.Equal(t, tc.flag, d.Flag)
		assert.Equal(t, "user/max_"+string(tc.t)+"_namespaces", d.Sysctl)
		assert.Equal(t, tc.t != types.NamespaceUser, d.Threaded)
	}
	assert.Panics(t, func() { Describe("mnt") })
}

func TestKindsOrder(t *testing.T) {
	assert.Equal(t, []types.NamespaceType{
		types.NamespaceCgroup,
		types.NamespaceIPC,
		types.NamespaceNet,
		types.NamespacePID,
		types.NamespaceUser,
		types.NamespaceUTS,
	}, Kinds())
}

func TestEnabledOrder(t *testing.T) {
	forward := Enabled([]types.NamespaceType{types.NamespaceIPC, types.NamespaceNet, types.NamespaceUTS})
	backward := Enabled([]types.NamespaceType{types.NamespaceUTS, types.NamespaceNet, types.NamespaceIPC})
	assert.Equal(t, forward, backward)
	assert.Equal(t, forward, Enabled([]types.NamespaceType{types.NamespaceNet, types.NamespaceUTS, types.NamespaceIPC}))
	assert.Equal(t, []types.NamespaceType{types.NamespaceIPC, types.NamespaceNet, types.NamespaceUTS}, typesOf(forward))

	assert.Len(t, Enabled([]types.NamespaceType{types.NamespaceIPC, types.NamespaceIPC, "mnt"}), 1)
	assert.Empty(t, Enabled(nil))
}

func TestFlags(t *testing.T) {
	ipcUTS := Flags(Enabled([]types.NamespaceType{types.NamespaceIPC, types.NamespaceUTS}))
	utsIPC := Flags(Enabled([]types.NamespaceType{types.NamespaceUTS, types.NamespaceIPC}))
	assert.Equal(t, unix.CLONE_NEWIPC|unix.CLONE_NEWUTS, ipcUTS)
	assert.Equal(t, ipcUTS, utsIPC)
	assert.Equal(t, 0, Flags(nil))
}
