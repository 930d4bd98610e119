//go:build linux
// +build linux

package log

import (
	"github.com/YLonely/pinns"
	"github.com/YLonely/pinns/namespace"
)

var phaseMessages = map[pinns.Phase]map[namespace.Outcome]string{
	pinns.PhaseValidate: {
		namespace.OutcomeStarted:   "validating config",
		namespace.OutcomeSucceeded: "config is valid",
		namespace.OutcomeFailed:    "invalid config",
	},
	pinns.PhaseUnshare: {
		namespace.OutcomeStarted:   "unsharing namespace",
		namespace.OutcomeSucceeded: "unshared namespace",
		namespace.OutcomeFailed:    "failed to unshare namespace",
	},
	pinns.PhaseBind: {
		namespace.OutcomeStarted:   "binding namespace",
		namespace.OutcomeSucceeded: "bound namespace",
		namespace.OutcomeFailed:    "failed to bind namespace",
	},
}

// Observer logs the events of a namespace.Pinner. Failures are logged
// at debug level too, reporting them is left to whoever gets the error.
func Observer() namespace.Observer {
	return func(e namespace.Event) {
		entry := Logger(e.Phase, e.Namespace)
		if e.Path != "" {
			entry = entry.WithField("path", e.Path)
		}
		if e.Err != nil {
			entry = entry.WithError(e.Err)
		}
		msg, exists := phaseMessages[e.Phase][e.Outcome]
		if !exists {
			msg = string(e.Outcome)
		}
		entry.Debug(msg)
	}
}
