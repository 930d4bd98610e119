//go:build linux
// +build linux

package main

import (
	"os"

	"github.com/YLonely/pinns/log"
	"github.com/moby/sys/reexec"
	"github.com/urfave/cli"
)

// version is set at link time with -X main.version=...
var version = "dev"

func main() {
	// the first process of a new pid namespace is a copy of us
	if reexec.Init() {
		return
	}
	if err := newApp().Run(os.Args); err != nil {
		log.Raw().Error(err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "pinns"
	app.Usage = "a simple utility to pin Linux namespaces"
	app.Description = "Every requested namespace is pinned to DIRECTORY/<namespace>ns/FILENAME"
	app.Version = version
	app.Flags = pinFlags()
	app.Action = pinAction
	return app
}
