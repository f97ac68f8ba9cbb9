package media

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Observer receives progress events from an Orchestrator. Calls are
// serialized, so implementations need no locking of their own.
type Observer interface {
	OnDiscovered(records []MediaFileRecord)
	OnFileDone(done, total int, outcome Outcome)
}

// Summary holds the aggregate counts of one run.
type Summary struct {
	Total  int
	OK     int
	Warned int
	Failed int

	TagsWritten   int
	TagsPlanned   int
	MtimesSet     int
	MtimesPlanned int
}

func (s *Summary) add(o Outcome) {
	s.Total++
	switch o.Status() {
	case StatusOK:
		s.OK++
	case StatusWarned:
		s.Warned++
	case StatusFailed:
		s.Failed++
	}

	switch o.Tag {
	case ActionDone:
		s.TagsWritten++
	case ActionPlanned:
		s.TagsPlanned++
	}
	switch o.Mtime {
	case ActionDone:
		s.MtimesSet++
	case ActionPlanned:
		s.MtimesPlanned++
	}
}

// Result is the outcome of a batch run. Outcomes are in discovery order.
type Result struct {
	Root       string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []Outcome
	Summary    Summary
}

// OrchestratorOptions tune an Orchestrator.
type OrchestratorOptions struct {
	// Workers is the number of files processed at once. Values below 2 process
	// files one at a time in discovery order.
	Workers  int
	Observer Observer
	Log      *zap.SugaredLogger
}

// Orchestrator drives discovery, extraction, resolution and reconciliation
// across a whole tree. A failure on one file never stops the others.
type Orchestrator struct {
	discoverer *Discoverer
	extractor  *Extractor
	reconciler *Reconciler

	workers  int
	observer Observer
	log      *zap.SugaredLogger

	locks pathLocks

	mu   sync.Mutex
	done int
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(d *Discoverer, e *Extractor, r *Reconciler, opts OrchestratorOptions) *Orchestrator {
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Orchestrator{
		discoverer: d,
		extractor:  e,
		reconciler: r,
		workers:    opts.Workers,
		observer:   opts.Observer,
		log:        log,
	}
}

// Run discovers the media under root and processes every file. The returned
// error is non-nil only for fatal conditions (see IsFatal) or cancellation;
// per-file failures are reported in the Result.
func (o *Orchestrator) Run(ctx context.Context, root string) (*Result, error) {
	records, err := o.discoverer.Discover(root)
	if err != nil {
		return nil, err
	}
	return o.RunDiscovered(ctx, root, records)
}

// RunDiscovered processes records that were already discovered under root,
// for callers that need to inspect the tree before committing to a run.
func (o *Orchestrator) RunDiscovered(ctx context.Context, root string, records []MediaFileRecord) (*Result, error) {
	o.announce(root, records)

	res, err := o.Process(ctx, records)
	if res != nil {
		res.Root, _ = CheckRoot(o.discoverer.fs, root)
	}
	return res, err
}

// announce logs the number of files found per kind and reports them to the
// observer.
func (o *Orchestrator) announce(root string, records []MediaFileRecord) {
	for _, kc := range CountByKind(records) {
		o.log.Infow("found media files", "kind", kc.Kind, "count", kc.Count)
	}
	if len(records) == 0 {
		o.log.Infow("no supported media files found", "root", root)
	}

	if o.observer != nil {
		o.observer.OnDiscovered(records)
	}
}

// Process runs the pipeline over records. Cancelling ctx stops new files from
// being started; files already in flight are finished.
func (o *Orchestrator) Process(ctx context.Context, records []MediaFileRecord) (*Result, error) {
	res := &Result{
		StartedAt: time.Now(),
		Outcomes:  make([]Outcome, len(records)),
	}
	o.done = 0

	started := make([]bool, len(records))
	var err error
	if o.workers < 2 {
		err = o.sequential(ctx, records, res.Outcomes, started)
	} else {
		err = o.parallel(ctx, records, res.Outcomes, started)
	}

	// Unstarted files are left out of the result on cancellation.
	kept := res.Outcomes[:0]
	for i, out := range res.Outcomes {
		if started[i] {
			kept = append(kept, out)
		}
	}
	res.Outcomes = kept

	for _, out := range res.Outcomes {
		res.Summary.add(out)
	}
	res.FinishedAt = time.Now()
	return res, err
}

func (o *Orchestrator) sequential(ctx context.Context, records []MediaFileRecord, outcomes []Outcome, started []bool) error {
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		started[i] = true
		outcomes[i] = o.processOne(ctx, rec)
		o.finished(len(records), outcomes[i])
	}
	return nil
}

func (o *Orchestrator) parallel(ctx context.Context, records []MediaFileRecord, outcomes []Outcome, started []bool) error {
	g := new(errgroup.Group)
	g.SetLimit(o.workers)

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			_ = g.Wait()
			return err
		}
		started[i] = true
		i, rec := i, rec
		g.Go(func() error {
			outcomes[i] = o.processOne(ctx, rec)
			o.finished(len(records), outcomes[i])
			return nil
		})
	}
	return g.Wait()
}

func (o *Orchestrator) finished(total int, out Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.done++
	if o.observer != nil {
		o.observer.OnFileDone(o.done, total, out)
	}
}

// processOne takes a single file from Discovered to Done or FailedAction.
// Cancellation only stops files from being started, so a file that has
// begun runs to completion.
func (o *Orchestrator) processOne(ctx context.Context, rec MediaFileRecord) Outcome {
	ctx = context.WithoutCancel(ctx)

	unlock := o.locks.lock(rec.FilePath)
	defer unlock()

	o.log.Debugw("processing", "path", rec.FilePath, "sidecar", rec.SidecarPath, "sidecarExists", rec.SidecarExists)

	sidecarTS := o.extractor.SidecarTimestamp(rec)
	embeddedTS, readErr := o.extractor.EmbeddedTimestamp(ctx, rec.FilePath)

	supportsTag := rec.SupportsEmbeddedTag
	if readErr != nil {
		// The tag state is unknown, so it must not be overwritten.
		supportsTag = false
		o.log.Debugw("capture tag unreadable", "path", rec.FilePath, "error", readErr)
	}

	resolved := Resolve(sidecarTS, embeddedTS, supportsTag)
	out := o.reconciler.Apply(ctx, rec.FilePath, resolved)
	out.Record = rec
	if readErr != nil {
		out.Errors = append([]error{readErr}, out.Errors...)
	}
	return out
}

// pathLocks hands out one mutex per file path so that no two in-flight
// operations ever target the same file.
type pathLocks struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

type pathLock struct {
	sync.Mutex
	refs int
}

func (p *pathLocks) lock(path string) func() {
	p.mu.Lock()
	if p.locks == nil {
		p.locks = make(map[string]*pathLock)
	}
	l, ok := p.locks[path]
	if !ok {
		l = &pathLock{}
		p.locks[path] = l
	}
	l.refs++
	p.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()

		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, path)
		}
		p.mu.Unlock()
	}
}
