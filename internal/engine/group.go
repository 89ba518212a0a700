package engine

import "sync"

// Group fans pause, resume and stop requests out to every controller
// registered with it. Batch scans register each job's controller so a
// single signal reaches all running jobs.
type Group struct {
	mu          sync.Mutex
	controllers map[*Controller]struct{}
	paused      bool
	stopped     bool
}

// NewGroup creates an empty Group.
func NewGroup() *Group {
	return &Group{controllers: make(map[*Controller]struct{})}
}

// Add registers c and returns a function that unregisters it.
// A controller added after Stop is stopped immediately, and one added
// while the group is paused starts paused.
func (g *Group) Add(c *Controller) (remove func()) {
	g.mu.Lock()
	g.controllers[c] = struct{}{}
	stopped, paused := g.stopped, g.paused
	g.mu.Unlock()

	switch {
	case stopped:
		c.Stop()
	case paused:
		c.Pause()
	}

	return func() {
		g.mu.Lock()
		delete(g.controllers, c)
		g.mu.Unlock()
	}
}

// Len returns the number of registered controllers.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.controllers)
}

// Paused reports whether the group is paused.
func (g *Group) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// Pause pauses every registered controller.
func (g *Group) Pause() {
	for _, c := range g.snapshot(func() { g.paused = true }) {
		c.Pause()
	}
}

// Resume resumes every registered controller.
func (g *Group) Resume() {
	for _, c := range g.snapshot(func() { g.paused = false }) {
		c.Resume()
	}
}

// TogglePause pauses a running group or resumes a paused one and reports
// whether the group is now paused.
func (g *Group) TogglePause() bool {
	if g.Paused() {
		g.Resume()
		return false
	}
	g.Pause()
	return true
}

// Stop stops every registered controller and any added later.
func (g *Group) Stop() {
	for _, c := range g.snapshot(func() {
		g.stopped = true
		g.paused = false
	}) {
		c.Stop()
	}
}

func (g *Group) snapshot(update func()) []*Controller {
	g.mu.Lock()
	defer g.mu.Unlock()

	update()
	out := make([]*Controller, 0, len(g.controllers))
	for c := range g.controllers {
		out = append(out, c)
	}
	return out
}
