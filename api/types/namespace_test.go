package types

import (
	"testing"

	"github.com/opencontainers/runtime-spec/specs-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNamespaceType(t *testing.T) {
	for _, name := range []string{"cgroup", "ipc", "net", "pid", "user", "uts"} {
		nsType, err := ParseNamespaceType(name)
		require.NoError(t, err)
		assert.Equal(t, NamespaceType(name), nsType)
	}
	for _, name := range []string{"", "mnt", "network", "NET"} {
		_, err := ParseNamespaceType(name)
		assert.Error(t, err, name)
	}
}

func TestLinuxNamespace(t *testing.T) {
	assert.Equal(t, specs.NetworkNamespace, NamespaceNet.RuntimeSpec())
	assert.Equal(t, specs.CgroupNamespace, NamespaceCgroup.RuntimeSpec())
	assert.Equal(t, specs.LinuxNamespace{
		Type: specs.UTSNamespace,
		Path: "/tmp/pins/utsns/ns1",
	}, LinuxNamespace(NamespaceUTS, "/tmp/pins/utsns/ns1"))
}
