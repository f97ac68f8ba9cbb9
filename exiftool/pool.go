package exiftool

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/multierr"
)

// ErrPoolClosed is returned by a Pool after Close.
var ErrPoolClosed = errors.New("exiftool pool is closed")

type instance interface {
	ReadCaptureTime(ctx context.Context, path string) (time.Time, bool, error)
	WriteCaptureTime(ctx context.Context, path string, t time.Time) error
	Close() error
}

// Pool hands calls to at most Options.Instances exiftool processes. Processes
// are started on first use and stopped by Close.
type Pool struct {
	opts  Options
	start func(Options) (instance, error)

	slots chan struct{}
	idle  chan instance

	mu     sync.Mutex
	all    []instance
	closed bool
}

// Open creates a Pool. No process is started until the first call.
func Open(opts Options) *Pool {
	return newPool(opts, func(o Options) (instance, error) {
		return NewEngine(o)
	})
}

func newPool(opts Options, start func(Options) (instance, error)) *Pool {
	if opts.Instances < 1 {
		opts.Instances = 1
	}
	return &Pool{
		opts:  opts,
		start: start,
		slots: make(chan struct{}, opts.Instances),
		idle:  make(chan instance, opts.Instances),
	}
}

// Started returns the number of processes started so far.
func (p *Pool) Started() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.all)
}

func (p *Pool) acquire(ctx context.Context) (instance, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, ErrPoolClosed
	}

	select {
	case in := <-p.idle:
		return in, nil
	default:
	}

	select {
	case in := <-p.idle:
		return in, nil
	case p.slots <- struct{}{}:
		in, err := p.start(p.opts)
		if err != nil {
			<-p.slots
			return nil, err
		}
		p.mu.Lock()
		p.all = append(p.all, in)
		p.mu.Unlock()
		return in, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Pool) release(in instance) {
	p.idle <- in
}

// ReadCaptureTime reads the capture tag on an idle process.
func (p *Pool) ReadCaptureTime(ctx context.Context, path string) (time.Time, bool, error) {
	in, err := p.acquire(ctx)
	if err != nil {
		return time.Time{}, false, err
	}
	defer p.release(in)
	return in.ReadCaptureTime(ctx, path)
}

// WriteCaptureTime writes the capture tag on an idle process.
func (p *Pool) WriteCaptureTime(ctx context.Context, path string, t time.Time) error {
	in, err := p.acquire(ctx)
	if err != nil {
		return err
	}
	defer p.release(in)
	return in.WriteCaptureTime(ctx, path, t)
}

// Close stops every started process. It must not be called while calls are
// in flight.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	var err error
	for _, in := range p.all {
		err = multierr.Append(err, in.Close())
	}
	return err
}
