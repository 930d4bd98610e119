//go:build linux
// +build linux

package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/YLonely/pinns"
	"github.com/YLonely/pinns/api/types"
	"github.com/YLonely/pinns/log"
	"github.com/YLonely/pinns/namespace"
	"github.com/YLonely/pinns/signals"
	"github.com/google/uuid"
	"github.com/opencontainers/runtime-spec/specs-go"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

const (
	outputNone = "none"
	outputJSON = "json"
)

var namespaceFlagNames = map[types.NamespaceType]struct {
	short string
	title string
}{
	types.NamespaceCgroup: {"c", "cgroup"},
	types.NamespaceIPC:    {"i", "IPC"},
	types.NamespaceNet:    {"n", "network"},
	types.NamespacePID:    {"p", "PID"},
	types.NamespaceUTS:    {"u", "UTS"},
}

// pinnableKinds are the namespace types offered as flags. Types which
// can not be unshared from a Go process are left out.
func pinnableKinds() []types.NamespaceType {
	ret := []types.NamespaceType{}
	for _, t := range namespace.Kinds() {
		if _, named := namespaceFlagNames[t]; named && namespace.Describe(t).Threaded {
			ret = append(ret, t)
		}
	}
	return ret
}

// newPinner is replaced in tests
var newPinner = func(opts ...namespace.PinnerOpt) *namespace.Pinner {
	return namespace.NewPinner(opts...)
}

func pinFlags() []cli.Flag {
	flags := []cli.Flag{
		cli.StringFlag{
			Name:  "log-level, l",
			Value: "info",
			Usage: "the logging level of the application, one of " + strings.Join(log.Levels, "|"),
		},
		cli.StringFlag{
			Name:  "dir, d",
			Value: os.TempDir(),
			Usage: "the parent `DIRECTORY` for the pinned namespaces",
		},
		cli.StringFlag{
			Name:  "filename, f",
			Value: uuid.New().String(),
			Usage: "the `FILENAME` each namespace will be pinned to",
		},
		cli.StringFlag{
			Name:  "output, o",
			Value: outputNone,
			Usage: "print the pinned namespaces, " + outputNone + "|" + outputJSON,
		},
	}
	for _, t := range pinnableKinds() {
		names := namespaceFlagNames[t]
		flags = append(flags, cli.BoolFlag{
			Name:  string(t) + ", " + names.short,
			Usage: "pin the " + names.title + " namespace",
		})
	}
	return flags
}

func pinAction(c *cli.Context) error {
	if err := log.SetLevel(c.String("log-level")); err != nil {
		return err
	}
	output := c.String("output")
	if output != outputNone && output != outputJSON {
		return errors.Errorf("unknown output format %q", output)
	}
	config := namespace.Config{
		Dir:      c.String("dir"),
		FileName: c.String("filename"),
	}
	for _, t := range pinnableKinds() {
		if c.Bool(string(t)) {
			config.Namespaces = append(config.Namespaces, t)
		}
	}
	log.WithInterface(log.Logger(pinns.PhaseValidate, ""), "config", config).Debug("pinning with config")

	deferred := signals.Defer()
	result, err := newPinner(namespace.WithObserver(log.Observer())).Pin(config)
	if s := deferred.Release(); s != nil {
		log.Raw().WithField("signal", s).Warn("signal received while pinning")
		if err == nil {
			err = errors.Errorf("interrupted by %s", s)
		}
	}
	if result != nil {
		for _, pin := range result.Bound {
			log.Logger(pinns.PhaseBind, pin.Namespace).WithField("path", pin.Path).Info("pinned namespace")
		}
		if output == outputJSON {
			if errPrint := printJSON(c, result); errPrint != nil && err == nil {
				err = errPrint
			}
		}
	}
	if err != nil {
		return errors.Wrap(err, "failed to pin namespaces")
	}
	return nil
}

// printJSON writes the pinned namespaces in the form of the namespaces
// of an OCI runtime config
func printJSON(c *cli.Context, result *namespace.Result) error {
	namespaces := make([]specs.LinuxNamespace, 0, len(result.Bound))
	for _, pin := range result.Bound {
		namespaces = append(namespaces, types.LinuxNamespace(pin.Namespace, pin.Path))
	}
	content, err := json.MarshalIndent(namespaces, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode pinned namespaces")
	}
	content = append(content, '\n')
	if _, err = c.App.Writer.Write(content); err != nil {
		return errors.Wrap(err, "failed to print pinned namespaces")
	}
	return nil
}
