//go:build linux
// +build linux

package namespace

import (
	"fmt"
	"strings"

	"github.com/YLonely/pinns/api/types"
	"github.com/pkg/errors"
)

var (
	// ErrAlreadyUnshared is returned when unsharing is attempted a second time,
	// either with the same request or anywhere in the same process
	ErrAlreadyUnshared = errors.New("namespaces have already been unshared")
	// ErrNotValidated is returned for requests which did not come from Validate
	ErrNotValidated = errors.New("request has not been validated")
	// ErrNotUnshared is returned when binding is attempted before a successful unshare
	ErrNotUnshared = errors.New("namespaces of the request have not been unshared")
)

// ConfigError reports an invalid configuration. It is always returned
// before any namespace is touched.
type ConfigError struct {
	Path string
	Msg  string
	Err  error
}

func (e *ConfigError) Error() string {
	msg := e.Msg
	if e.Path != "" {
		msg = fmt.Sprintf("pin path %s %s", e.Path, e.Msg)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// KernelError reports a failed unshare. None of the requested namespaces
// has been created.
type KernelError struct {
	Namespaces []types.NamespaceType
	Flags      int
	// Hints lists sysctl limits which forbid creating one of the namespaces
	Hints []string
	Err   error
}

func (e *KernelError) Error() string {
	names := make([]string, 0, len(e.Namespaces))
	for _, t := range e.Namespaces {
		names = append(names, string(t))
	}
	msg := fmt.Sprintf("failed to unshare namespaces %s (flags %#x)", strings.Join(names, ","), e.Flags)
	if len(e.Hints) > 0 {
		msg += " [" + strings.Join(e.Hints, "; ") + "]"
	}
	return msg + ": " + e.Err.Error()
}

func (e *KernelError) Unwrap() error { return e.Err }

// BindFailure tells which step of pinning a single namespace failed
type BindFailure string

const (
	BindAlreadyExists BindFailure = "already exists"
	BindIO            BindFailure = "io"
	BindMountFailed   BindFailure = "mount failed"
)

// BindError reports the namespace which could not be pinned. Namespaces
// pinned before it stay pinned.
type BindError struct {
	Namespace types.NamespaceType
	Reason    BindFailure
	Source    string
	Target    string
	Err       error
}

func (e *BindError) Error() string {
	var msg string
	switch e.Reason {
	case BindAlreadyExists:
		msg = fmt.Sprintf("namespace file %s already exists", e.Target)
	case BindIO:
		msg = fmt.Sprintf("unable to create namespace file %s", e.Target)
	case BindMountFailed:
		msg = fmt.Sprintf("unable to bind mount namespace %s to %s", e.Source, e.Target)
	default:
		msg = fmt.Sprintf("unable to pin namespace to %s", e.Target)
	}
	msg = fmt.Sprintf("%s namespace: %s", e.Namespace, msg)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *BindError) Unwrap() error { return e.Err }
