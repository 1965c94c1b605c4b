package libqnet

import (
	"context"
	"time"

	"github.com/2x3systems/goqnet/goqnet"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// Engine grows canonical network sets depth by depth.
type Engine struct {
	opts    goqnet.EnumOpts
	metrics *Metrics
}

// NewEngine validates opts and returns an Engine ready to run them.
func NewEngine(opts goqnet.EnumOpts) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		opts: opts,
	}, nil
}

// WithMetrics directs per-depth counters to m.
func (e *Engine) WithMetrics(m *Metrics) *Engine {
	e.metrics = m
	return e
}

// Enumerate runs opts to completion; see Engine.Enumerate.
func Enumerate(ctx context.Context, opts goqnet.EnumOpts) (goqnet.Result, error) {
	e, err := NewEngine(opts)
	if err != nil {
		return goqnet.Result{}, err
	}
	return e.Enumerate(ctx)
}

// Enumerate computes one network per equivalence class at the target depth.
//
// ctx is only checked between depths.  If it is done, the returned Result holds the last completed depth alongside
// ctx.Err().
func (e *Engine) Enumerate(ctx context.Context) (goqnet.Result, error) {
	opts := &e.opts
	res := goqnet.Result{
		NQubit: opts.NQubit,
	}

	var (
		depth  int
		growth []goqnet.Network
	)

	if opts.Resume != nil {
		loaded, err := e.loadResume(opts.Resume)
		if err != nil {
			return res, err
		}
		depth = opts.Resume.Depth
		switch {
		case depth > opts.Depth:
			klog.V(1).Infof("resume record depth %d exceeds target depth %d; nothing to do", depth, opts.Depth)
			res.Depth = depth
			res.Networks = loaded
			if !opts.Resume.TimeReversal {
				res.Growth = loaded
			}
			res.NoOp = true
			return res, nil
		case opts.Resume.TimeReversal:
			if depth < opts.Depth || !opts.TimeReversal {
				return res, errors.Wrapf(goqnet.ErrResumeMismatch, "depth %d record is time-reversal collapsed", depth)
			}
			res.Depth = depth
			res.Networks = loaded
			return res, nil
		}
		growth = loaded
		klog.V(1).Infof("resuming at depth %d with %s networks", depth, humanize.Comma(int64(len(growth))))
	} else {
		depth = 1
		growth = []goqnet.Network{{goqnet.GateOf(0, 1)}}
		e.metrics.observeCanonical(depth, len(growth))
		if err := e.emitDepth(depth, growth); err != nil {
			return res, err
		}
	}

	for depth < opts.Depth {
		if err := ctx.Err(); err != nil {
			res.Depth = depth
			res.Networks = growth
			res.Growth = growth
			return res, err
		}

		next, err := e.growDepth(ctx, depth+1, growth)
		if err != nil {
			return res, err
		}
		depth++
		growth = next

		if err := e.emitDepth(depth, growth); err != nil {
			return res, err
		}
	}

	res.Depth = depth
	res.Growth = growth
	res.Networks = growth

	if opts.TimeReversal {
		gens := GenTimeReversal
		if opts.SwapConjugation {
			gens |= GenSwapConjugation
		}
		published, err := Collapse(ctx, growth, gens, opts.Workers)
		if err != nil {
			return res, err
		}
		klog.V(1).Infof("depth %d: time reversal leaves %s of %s classes", depth,
			humanize.Comma(int64(len(published))), humanize.Comma(int64(len(growth))))
		res.Networks = published
	}

	return res, nil
}

// growDepth computes the canonical set at depth from the canonical set one gate shallower.
func (e *Engine) growDepth(ctx context.Context, depth int, growth []goqnet.Network) ([]goqnet.Network, error) {
	opts := &e.opts
	t0 := time.Now()

	cands, rejected := Expand(growth, opts.NQubit)

	reducer := NewReducer(opts.Workers, NewKeySet(opts.KeySet))
	next, err := reducer.Reduce(ctx, cands)
	reducer.Close()
	if err != nil {
		return nil, err
	}
	relabeled := len(next)

	if opts.SwapConjugation {
		next, err = Collapse(ctx, next, GenSwapConjugation, opts.Workers)
		if err != nil {
			return nil, err
		}
	}

	elapsed := time.Since(t0)
	e.metrics.observeDepth(depth, len(cands), rejected, len(next), elapsed)

	klog.V(1).Infof("depth %d: %s candidates (%s over run limit) -> %s classes (%s after swap-conjugation) in %v",
		depth,
		humanize.Comma(int64(len(cands))),
		humanize.Comma(int64(rejected)),
		humanize.Comma(int64(relabeled)),
		humanize.Comma(int64(len(next))),
		elapsed.Round(time.Millisecond))

	// Candidates share one arena per depth; detach survivors so the arena can be released.
	out := make([]goqnet.Network, len(next))
	arena := make([]goqnet.Gate, 0, len(next)*depth)
	for i, net := range next {
		start := len(arena)
		arena = append(arena, net...)
		out[i] = arena[start:len(arena):len(arena)]
	}
	return out, nil
}

func (e *Engine) emitDepth(depth int, growth []goqnet.Network) error {
	if e.opts.OnDepth == nil {
		return nil
	}
	if err := e.opts.OnDepth(goqnet.NewRecord(&e.opts, depth, growth, false)); err != nil {
		return errors.Wrapf(err, "depth %d", depth)
	}
	return nil
}

// loadResume checks rec against this run and decodes its networks.
func (e *Engine) loadResume(rec *goqnet.Record) ([]goqnet.Network, error) {
	opts := &e.opts
	if rec.NQubit != opts.NQubit {
		return nil, errors.Wrapf(goqnet.ErrResumeMismatch, "record has nqubit=%d, run has nqubit=%d", rec.NQubit, opts.NQubit)
	}
	if rec.SwapConjugation != opts.SwapConjugation {
		return nil, errors.Wrapf(goqnet.ErrResumeMismatch, "record has swap_conjugation=%v", rec.SwapConjugation)
	}

	nets, err := rec.Decode()
	if err != nil {
		return nil, err
	}
	if rec.Depth == 0 && len(nets) != 1 {
		return nil, errors.Wrap(goqnet.ErrCorruptRecord, "depth 0 record must hold only the empty network")
	}

	seen := NewHashKeySet(0)
	defer seen.Close()
	var keyBuf [64]byte
	for i, net := range nets {
		if !seen.TryAdd(CanonicalKey(net, keyBuf[:0])) {
			return nil, errors.Wrapf(goqnet.ErrCorruptRecord, "network %d %v duplicates an earlier class", i, net)
		}
	}
	return nets, nil
}
