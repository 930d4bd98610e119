//go:build linux
// +build linux

package namespace

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/YLonely/pinns"
	"github.com/YLonely/pinns/api/types"
	"github.com/YLonely/pinns/utils"
	"github.com/pkg/errors"
)

// Config is the unvalidated input of a pin run
type Config struct {
	// Dir is the parent directory of the per namespace directories
	Dir string
	// FileName is the name of the pinned file in every per namespace directory
	FileName string
	// Namespaces to pin, in any order
	Namespaces []types.NamespaceType
}

type requestState int

const (
	stateUnvalidated requestState = iota
	stateValidated
	stateUnshared
	stateUnshareFailed
	stateBound
)

// Request is a validated Config. A Request is consumed by a single
// Unshare followed by a single BindAll.
type Request struct {
	Dir      string
	FileName string
	// Namespaces is in declaration order
	Namespaces []Descriptor
	state      requestState
}

// ParentDir returns the directory the namespace of type t is pinned in
func (r *Request) ParentDir(t types.NamespaceType) string {
	return filepath.Join(r.Dir, string(t)+"ns")
}

// BindPath returns the file the namespace of type t is pinned to
func (r *Request) BindPath(t types.NamespaceType) string {
	return filepath.Join(r.ParentDir(t), r.FileName)
}

// Pin is a namespace bound to a file
type Pin struct {
	Namespace types.NamespaceType
	Path      string
}

// Result holds the outcome of binding the namespaces of a request
type Result struct {
	Requested []types.NamespaceType
	// Bound is in declaration order
	Bound []Pin
	// Failed is the first namespace which could not be pinned, the
	// namespaces after it were not attempted
	Failed *BindError
}

// Complete reports whether every requested namespace has been pinned
func (r *Result) Complete() bool {
	return r.Failed == nil && len(r.Bound) == len(r.Requested)
}

func (r *Result) Err() error {
	if r.Failed == nil {
		return nil
	}
	return r.Failed
}

// Pinner unshares namespaces and pins them to files. Namespaces are a
// property of the calling thread, so a Pinner must only be used from
// one goroutine.
type Pinner struct {
	sys      System
	observer Observer
}

type PinnerOpt func(*Pinner)

func WithSystem(sys System) PinnerOpt {
	return func(p *Pinner) {
		p.sys = sys
	}
}

func WithObserver(o Observer) PinnerOpt {
	return func(p *Pinner) {
		p.observer = o
	}
}

func NewPinner(opts ...PinnerOpt) *Pinner {
	p := &Pinner{
		sys: HostSystem(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Pin validates c, unshares the requested namespaces and pins all of them.
// The returned Result is nil if the namespaces have not been unshared.
func (p *Pinner) Pin(c Config) (*Result, error) {
	req, err := p.Validate(c)
	if err != nil {
		return nil, err
	}
	if err = p.Unshare(req); err != nil {
		return nil, err
	}
	return p.BindAll(req)
}

// Validate checks c and creates the missing per namespace directories
func (p *Pinner) Validate(c Config) (*Request, error) {
	p.emit(Event{Phase: pinns.PhaseValidate, Outcome: OutcomeStarted, Path: c.Dir})
	req, err := p.validate(c)
	if err != nil {
		p.emit(Event{Phase: pinns.PhaseValidate, Outcome: OutcomeFailed, Path: c.Dir, Err: err})
		return nil, err
	}
	p.emit(Event{Phase: pinns.PhaseValidate, Outcome: OutcomeSucceeded, Path: c.Dir})
	return req, nil
}

func (p *Pinner) validate(c Config) (*Request, error) {
	for _, t := range c.Namespaces {
		if _, err := types.ParseNamespaceType(string(t)); err != nil {
			return nil, &ConfigError{Msg: "invalid namespace", Err: err}
		}
	}
	enabled := Enabled(c.Namespaces)
	if len(enabled) == 0 {
		return nil, &ConfigError{Msg: "no namespace specified for pinning"}
	}
	if err := validateFileName(c.FileName); err != nil {
		return nil, err
	}
	if err := checkDir(c.Dir); err != nil {
		return nil, err
	}
	req := &Request{
		Dir:        c.Dir,
		FileName:   c.FileName,
		Namespaces: enabled,
		state:      stateValidated,
	}
	// not atomic, a single writer of Dir is assumed
	for _, d := range enabled {
		parent := req.ParentDir(d.Type)
		err := checkDir(parent)
		if err == nil {
			continue
		}
		if cerr, ok := err.(*ConfigError); !ok || !os.IsNotExist(cerr.Err) {
			return nil, err
		}
		if err = os.Mkdir(parent, 0755); err != nil {
			return nil, &ConfigError{Path: parent, Msg: "can not be created", Err: err}
		}
	}
	return req, nil
}

func checkDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ConfigError{Path: path, Msg: "does not exist", Err: err}
		}
		return &ConfigError{Path: path, Msg: "can not be accessed", Err: err}
	}
	if !info.IsDir() {
		return &ConfigError{Path: path, Msg: "is not a directory"}
	}
	return nil
}

func validateFileName(name string) error {
	switch {
	case name == "":
		return &ConfigError{Msg: "empty file name"}
	case name == "." || name == "..", strings.ContainsRune(name, filepath.Separator):
		return &ConfigError{Msg: "invalid file name " + name}
	}
	return nil
}

// Unshare moves the calling thread into new instances of every requested
// namespace with a single system call. The calling goroutine stays locked
// to its thread afterwards, so BindAll has to be called from it as well.
// A request can only be unshared once, even if it failed.
func (p *Pinner) Unshare(req *Request) error {
	switch req.state {
	case stateUnvalidated:
		return ErrNotValidated
	case stateValidated:
	default:
		return ErrAlreadyUnshared
	}
	req.state = stateUnshareFailed
	// never unlocked: the thread no longer shares the namespaces of the
	// process and is thrown away once the goroutine exits
	runtime.LockOSThread()

	flags := Flags(req.Namespaces)
	for _, d := range req.Namespaces {
		p.emit(Event{Phase: pinns.PhaseUnshare, Namespace: d.Type, Outcome: OutcomeStarted})
	}
	if err := p.sys.Unshare(flags); err != nil {
		return p.unshareFailed(req, &KernelError{
			Namespaces: typesOf(req.Namespaces),
			Flags:      flags,
			Hints:      limitHints(req.Namespaces),
			Err:        err,
		})
	}
	for _, d := range req.Namespaces {
		if d.Type != types.NamespacePID {
			continue
		}
		if err := p.sys.SpawnChild(); err != nil {
			return p.unshareFailed(req, &KernelError{
				Namespaces: []types.NamespaceType{d.Type},
				Flags:      d.Flag,
				Err:        err,
			})
		}
	}
	req.state = stateUnshared
	for _, d := range req.Namespaces {
		p.emit(Event{Phase: pinns.PhaseUnshare, Namespace: d.Type, Outcome: OutcomeSucceeded})
	}
	return nil
}

func (p *Pinner) unshareFailed(req *Request, err *KernelError) error {
	for _, d := range req.Namespaces {
		p.emit(Event{Phase: pinns.PhaseUnshare, Namespace: d.Type, Outcome: OutcomeFailed, Err: err})
	}
	return err
}

var readSysctl = utils.SysCtlReadInt

func limitHints(ds []Descriptor) []string {
	hints := []string{}
	for _, d := range ds {
		if limit, err := readSysctl(d.Sysctl); err == nil && limit == 0 {
			hints = append(hints, d.Sysctl+" is 0")
		}
	}
	return hints
}

// BindAll pins every namespace of an unshared request in declaration
// order. It stops at the first failure without undoing earlier pins,
// the returned error is the Failed field of the Result in that case.
func (p *Pinner) BindAll(req *Request) (*Result, error) {
	if req.state != stateUnshared {
		if req.state == stateBound {
			return nil, errors.New("namespaces of the request have already been pinned")
		}
		return nil, ErrNotUnshared
	}
	req.state = stateBound
	result := &Result{
		Requested: typesOf(req.Namespaces),
		Bound:     make([]Pin, 0, len(req.Namespaces)),
	}
	for _, d := range req.Namespaces {
		target := req.BindPath(d.Type)
		p.emit(Event{Phase: pinns.PhaseBind, Namespace: d.Type, Outcome: OutcomeStarted, Path: target})
		if err := p.bind(d, target); err != nil {
			p.emit(Event{Phase: pinns.PhaseBind, Namespace: d.Type, Outcome: OutcomeFailed, Path: target, Err: err})
			result.Failed = err
			return result, err
		}
		result.Bound = append(result.Bound, Pin{Namespace: d.Type, Path: target})
		p.emit(Event{Phase: pinns.PhaseBind, Namespace: d.Type, Outcome: OutcomeSucceeded, Path: target})
	}
	return result, nil
}

func (p *Pinner) bind(d Descriptor, target string) *BindError {
	source := filepath.Join(p.sys.NSDir(), d.ProcName)
	bindErr := func(reason BindFailure, err error) *BindError {
		return &BindError{
			Namespace: d.Type,
			Reason:    reason,
			Source:    source,
			Target:    target,
			Err:       err,
		}
	}
	// O_EXCL keeps an earlier pin from being mounted over
	f, err := os.OpenFile(target, os.O_RDONLY|os.O_CREATE|os.O_EXCL, 0)
	if err != nil {
		if os.IsExist(err) {
			return bindErr(BindAlreadyExists, err)
		}
		return bindErr(BindIO, err)
	}
	if err = f.Close(); err != nil {
		return bindErr(BindIO, errors.Wrap(err, "unable to close namespace file"))
	}
	if err = p.sys.Bind(source, target); err != nil {
		return bindErr(BindMountFailed, err)
	}
	return nil
}

func (p *Pinner) emit(e Event) {
	if p.observer != nil {
		p.observer(e)
	}
}
