//go:build linux
// +build linux

package namespace

import (
	"os"
	"os/exec"

	"github.com/moby/sys/reexec"
)

// pidInitName is the reexec entry point of the process which becomes the
// first member of a freshly unshared pid namespace. Until such a process
// exists, pid_for_children can not be opened or bind mounted.
const pidInitName = "pinns-pid-init"

func init() {
	reexec.Register(pidInitName, func() {
		os.Exit(0)
	})
}

func newPIDInitCommand() *exec.Cmd {
	cmd := reexec.Command(pidInitName)
	cmd.Stderr = os.Stderr
	return cmd
}
