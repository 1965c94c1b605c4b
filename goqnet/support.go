package goqnet

import "sync"

// NewCatalogContext returns a CatalogContext that tracks the catalogs opened by one enumeration session
// (a CLI run or a python workspace) so they are all flushed and closed when the session ends.
func NewCatalogContext() CatalogContext {
	return &catalogRegistry{
		open: make(map[Catalog]struct{}),
		done: make(chan struct{}),
	}
}

// catalogRegistry holds the open catalogs of a session.  Once closing, a catalog attached late is closed
// straight away and Done fires only after every attached catalog has detached.
type catalogRegistry struct {
	mu      sync.Mutex
	open    map[Catalog]struct{}
	closing bool
	done    chan struct{}
}

func (reg *catalogRegistry) AttachCatalog(cat Catalog) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.open[cat]; exists {
		return
	}
	if reg.closing && len(reg.open) == 0 {
		// Done already fired; the catalog is not tracked but still gets closed
		go cat.Close()
		return
	}
	reg.open[cat] = struct{}{}
	if reg.closing {
		go cat.Close()
	}
}

func (reg *catalogRegistry) DetachCatalog(cat Catalog) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.open[cat]; !exists {
		return
	}
	delete(reg.open, cat)
	if reg.closing && len(reg.open) == 0 {
		close(reg.done)
	}
}

func (reg *catalogRegistry) Done() <-chan struct{} {
	return reg.done
}

// Close closes every attached catalog in the background.  Subsequent calls do nothing.
func (reg *catalogRegistry) Close() {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.closing {
		return
	}
	reg.closing = true
	if len(reg.open) == 0 {
		close(reg.done)
		return
	}
	for cat := range reg.open {
		go cat.Close()
	}
}
