package stubsync

import (
	"github.com/cockroachdb/errors"

	"github.com/pthm/compmeta/lib/extract"
	"github.com/pthm/compmeta/lib/logger"
	"github.com/pthm/compmeta/lib/render"
	"github.com/pthm/compmeta/lib/source"
)

// ErrClassNotInSource means a component's own body could not be found in
// the file that declares it. The pipeline cannot trust its inputs when
// this happens; there is no fallback.
var ErrClassNotInSource = errors.New("stubsync: class not found in its own source")

// Target is one component to synchronize. Name is the Go type extracted
// from the source; Class is the registered name used in messages and
// defaults to Name.
type Target struct {
	Name   string
	Class  string
	Ref    source.Ref
	Events []string
}

func (t Target) label() string {
	if t.Class != "" {
		return t.Class
	}
	return t.Name
}

// Pipeline locates, extracts, renders and synchronizes.
type Pipeline struct {
	Locator  source.Locator
	Renderer *render.Renderer
	Sync     *Synchronizer
}

// NewPipeline creates a pipeline with the default renderer.
func NewPipeline(loc source.Locator, opts Options) *Pipeline {
	if loc == nil {
		loc = source.DirLocator{}
	}
	return &Pipeline{
		Locator:  loc,
		Renderer: render.New(),
		Sync:     New(opts),
	}
}

// Run synchronizes the stub for t. Every failure is returned unchanged in
// kind; nothing is retried.
func (p *Pipeline) Run(t Target) (Result, error) {
	path, err := p.Locator.Locate(t.Ref)
	if err != nil {
		return Result{}, err
	}

	src, err := source.Read(path)
	if err != nil {
		return Result{}, err
	}

	span, found, err := extract.Extract(src, t.Name)
	if err != nil {
		return Result{}, errors.Wrapf(err, "extract %s from %s", t.label(), path)
	}
	if !found {
		return Result{}, errors.WithHint(
			errors.Wrapf(ErrClassNotInSource, "%s (type %s) in %s", t.label(), t.Name, path),
			"declare the type at the top level of the file that registers it, or set SourceFile",
		)
	}

	block, err := p.Renderer.Render(render.Input{
		Receiver: span.Receiver,
		Contents: span.Text,
		Events:   t.Events,
	})
	if err != nil {
		return Result{}, err
	}

	res, err := p.Sync.Sync(Request{
		ImplPath:  path,
		Source:    src,
		ClassName: t.Name,
		Block:     block,
	})
	if err != nil {
		return res, err
	}

	logger.Logger.Infow("synced stub",
		logger.FieldClass, t.label(),
		logger.FieldStub, res.StubPath,
		logger.FieldOutcome, res.Outcome.String(),
		"created", res.Created)
	return res, nil
}
