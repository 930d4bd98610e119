//go:build linux
// +build linux

package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/YLonely/pinns/api/types"
	"github.com/YLonely/pinns/namespace"
	"github.com/opencontainers/runtime-spec/specs-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

type nopSystem struct {
	flags int
	binds []string
}

func (s *nopSystem) Unshare(flags int) error {
	s.flags = flags
	return nil
}

func (s *nopSystem) Bind(source, target string) error {
	s.binds = append(s.binds, source)
	return nil
}

func (s *nopSystem) SpawnChild() error { return nil }

func (s *nopSystem) NSDir() string { return "/proc/thread-self/ns" }

func runApp(t *testing.T, sys namespace.System, args ...string) (string, error) {
	if sys != nil {
		old := newPinner
		newPinner = func(opts ...namespace.PinnerOpt) *namespace.Pinner {
			return namespace.NewPinner(append(opts, namespace.WithSystem(sys))...)
		}
		defer func() { newPinner = old }()
	}
	out := &bytes.Buffer{}
	app := newApp()
	app.Writer = out
	err := app.Run(append([]string{"pinns", "--log-level", "off"}, args...))
	return out.String(), err
}

func TestPinRequiresNamespaces(t *testing.T) {
	_, err := runApp(t, nil, "--dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no namespace specified for pinning")
}

func TestPinMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	_, err := runApp(t, nil, "--dir", dir, "--net")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to pin namespaces: pin path "+dir+" does not exist")
}

func TestPinInvalidFlags(t *testing.T) {
	_, err := runApp(t, nil, "-l", "loud", "-d", t.TempDir(), "-u")
	assert.Error(t, err)
	_, err = runApp(t, nil, "-o", "yaml", "-d", t.TempDir(), "-u")
	assert.Error(t, err)
}

func TestPinJSONOutput(t *testing.T) {
	sys := &nopSystem{}
	dir := t.TempDir()
	out, err := runApp(t, sys, "-d", dir, "-f", "ns1", "-u", "--ipc", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, []string{"/proc/thread-self/ns/ipc", "/proc/thread-self/ns/uts"}, sys.binds)

	var namespaces []specs.LinuxNamespace
	require.NoError(t, json.Unmarshal([]byte(out), &namespaces))
	assert.Equal(t, []specs.LinuxNamespace{
		{Type: specs.IPCNamespace, Path: filepath.Join(dir, "ipcns", "ns1")},
		{Type: specs.UTSNamespace, Path: filepath.Join(dir, "utsns", "ns1")},
	}, namespaces)
}

func TestPinDefaultFileName(t *testing.T) {
	app := newApp()
	var fileName string
	for _, f := range app.Flags {
		if sf, ok := f.(cli.StringFlag); ok && sf.Name == "filename, f" {
			fileName = sf.Value
		}
	}
	assert.Len(t, fileName, 36)
}

func TestPinnableKinds(t *testing.T) {
	assert.Equal(t, []types.NamespaceType{
		types.NamespaceCgroup,
		types.NamespaceIPC,
		types.NamespaceNet,
		types.NamespacePID,
		types.NamespaceUTS,
	}, pinnableKinds())

	names := []string{}
	for _, f := range newApp().Flags {
		if bf, ok := f.(cli.BoolFlag); ok {
			names = append(names, bf.Name)
		}
	}
	assert.Equal(t, []string{"cgroup, c", "ipc, i", "net, n", "pid, p", "uts, u"}, names)
}

func TestPinUserIsNotOffered(t *testing.T) {
	sys := &nopSystem{}
	_, err := runApp(t, sys, "-d", t.TempDir(), "--user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flag provided but not defined")
	assert.Zero(t, sys.flags)
}
