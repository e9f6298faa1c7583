// Package stubsync keeps stub files (.goi) in step with component
// implementations.
//
// A stub file starts life as a verbatim copy of its implementation file.
// After that only the span of each tracked component is touched: a missing
// component is appended, a present one is replaced in place. Every update
// is a single whole-file write.
package stubsync

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/pthm/compmeta/lib/extract"
	"github.com/pthm/compmeta/lib/logger"
)

// DefaultSuffix is the stub file extension.
const DefaultSuffix = ".goi"

// Outcome describes what a sync did to the stub's class span.
type Outcome int

const (
	Unchanged Outcome = iota
	Appended
	Replaced
)

func (o Outcome) String() string {
	switch o {
	case Appended:
		return "appended"
	case Replaced:
		return "replaced"
	default:
		return "unchanged"
	}
}

// Options configures the synchronizer.
type Options struct {
	Suffix string // stub extension, defaults to DefaultSuffix
	DryRun bool   // compute outcomes without writing
}

// Synchronizer applies rendered interface blocks to stub files.
type Synchronizer struct {
	opts Options
}

// New creates a synchronizer.
func New(opts Options) *Synchronizer {
	if opts.Suffix == "" {
		opts.Suffix = DefaultSuffix
	}
	return &Synchronizer{opts: opts}
}

// Request is one synchronization of one class.
type Request struct {
	ImplPath  string // implementation file
	Source    string // full implementation text
	ClassName string
	Block     string // rendered interface block
}

// Result reports the stub touched and what happened to it.
type Result struct {
	StubPath string
	Created  bool // stub was bootstrapped from the implementation
	Outcome  Outcome
}

// StubPath derives the stub path: same base name, stub suffix.
func (s *Synchronizer) StubPath(implPath string) string {
	return strings.TrimSuffix(implPath, ".go") + s.opts.Suffix
}

// Sync updates the stub for req.ClassName with req.Block.
func (s *Synchronizer) Sync(req Request) (Result, error) {
	res := Result{StubPath: s.StubPath(req.ImplPath)}

	current, err := os.ReadFile(res.StubPath)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		res.Created = true
		current = []byte(req.Source)
		if !s.opts.DryRun {
			if err := os.WriteFile(res.StubPath, current, 0644); err != nil {
				return res, errors.Wrapf(err, "create stub %s", res.StubPath)
			}
		}
		logger.Logger.Debugw("bootstrapped stub", logger.FieldStub, res.StubPath, logger.FieldFile, req.ImplPath)
	default:
		return res, errors.Wrapf(err, "read stub %s", res.StubPath)
	}

	contents := string(current)
	span, found, err := extract.Extract(contents, req.ClassName)
	if err != nil {
		return res, errors.Wrapf(err, "extract %s from stub %s", req.ClassName, res.StubPath)
	}

	var updated string
	if !found {
		res.Outcome = Appended
		updated = contents + req.Block
	} else {
		block := strings.TrimSpace(req.Block)
		if span.Text == block {
			res.Outcome = Unchanged
			return res, nil
		}
		res.Outcome = Replaced
		updated = contents[:span.Start] + block + contents[span.End:]
	}

	if s.opts.DryRun {
		return res, nil
	}
	if err := os.WriteFile(res.StubPath, []byte(updated), 0644); err != nil {
		return res, errors.Wrapf(err, "write stub %s", res.StubPath)
	}
	return res, nil
}
