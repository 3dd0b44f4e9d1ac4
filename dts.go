// Package dts is a dynamic type system: a runtime registry of struct
// layouts arranged in a single-inheritance forest, where every constructed
// object is one contiguous allocation carrying its own ancestry's plugin
// data alongside its payload. It is the public surface over the internal
// packages that do the actual work — internal/registry for descriptors and
// the forest, internal/layout for sizing, internal/lifecycle for
// construct/clone/destroy.
package dts

import (
	"github.com/eirsys/dts/internal/dtsalloc"
	"github.com/eirsys/dts/internal/dtslock"
	"github.com/eirsys/dts/internal/dtslog"
	"github.com/eirsys/dts/internal/registry"
	"github.com/sirupsen/logrus"
)

// System is a type system: an owned, independent universe of descriptors.
// A process may run more than one; nothing about System is global state.
// It is safe for concurrent use by multiple goroutines when configured with
// a lock provider other than the default.
type System struct {
	reg   *registry.System
	alloc dtsalloc.Allocator
}

// Option configures a System at construction.
type Option interface{ apply(*config) }

type config struct {
	lockProvider dtslock.Provider
	allocator    dtsalloc.Allocator
	logger       dtslog.Logger
}

type optionFunc func(*config)

func (f optionFunc) apply(cfg *config) { f(cfg) }

// WithLockProvider selects how each descriptor mints its lock. The default,
// dtslock.NoopProvider, is correct only for single-threaded use; pass
// dtslock.StdProvider{} for a System shared across goroutines.
func WithLockProvider(p dtslock.Provider) Option {
	return optionFunc(func(cfg *config) { cfg.lockProvider = p })
}

// WithAllocator selects how constructed objects' backing memory is
// provisioned and reclaimed. The default, dtsalloc.Default, allocates a
// fresh slice per object; dtsalloc.NewPooled recycles same-size-class
// buffers, trading GC pressure for pool bookkeeping.
func WithAllocator(a dtsalloc.Allocator) Option {
	return optionFunc(func(cfg *config) { cfg.allocator = a })
}

// WithLogger routes the System's internal diagnostic logging (type
// registration, re-parenting) through l instead of discarding it.
func WithLogger(l *logrus.Logger) Option {
	return optionFunc(func(cfg *config) { cfg.logger = dtslog.NewLogrus(l) })
}

// New returns a ready-to-use System with no registered types.
func New(opts ...Option) *System {
	cfg := config{
		lockProvider: dtslock.NoopProvider{},
		allocator:    dtsalloc.Default{},
	}
	for _, o := range opts {
		if o != nil {
			o.apply(&cfg)
		}
	}
	return &System{
		reg:   registry.NewSystem(cfg.lockProvider, cfg.logger),
		alloc: cfg.allocator,
	}
}

// Type is a registered type descriptor: a node in the inheritance forest.
// It is an alias, not a new type, so values returned by this package's
// registration calls can be passed directly to its introspection and
// lifecycle calls.
type Type = registry.TypeDescriptor
