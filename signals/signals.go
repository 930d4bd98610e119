package signals

import (
	"os"
	"os/signal"
	"syscall"
)

var HandledSignals = []os.Signal{
	syscall.SIGTERM,
	syscall.SIGINT,
}

// Deferred holds back HandledSignals so that a pin run is not cut
// between creating a namespace file and mounting onto it
type Deferred struct {
	c chan os.Signal
}

func Defer() *Deferred {
	d := &Deferred{
		c: make(chan os.Signal, len(HandledSignals)),
	}
	signal.Notify(d.c, HandledSignals...)
	return d
}

// Release restores the default handling and returns the first signal
// received since Defer, or nil
func (d *Deferred) Release() os.Signal {
	signal.Stop(d.c)
	select {
	case s := <-d.c:
		return s
	default:
		return nil
	}
}
