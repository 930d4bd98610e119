//go:build linux
// +build linux

package namespace

import (
	"github.com/YLonely/pinns"
	"github.com/YLonely/pinns/api/types"
)

type Outcome string

const (
	OutcomeStarted   Outcome = "started"
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// Event describes the progress of a pin run. Namespace is empty for
// events concerning the whole run.
type Event struct {
	Phase     pinns.Phase
	Namespace types.NamespaceType
	Outcome   Outcome
	Path      string
	Err       error
}

// Observer receives every Event of a Pinner in order
type Observer func(Event)
