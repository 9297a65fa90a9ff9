package anim

import "time"

// Scheduler is the per-frame clock that advances every running timeline.
// It is single-threaded; the daemon loop owns it.
type Scheduler struct {
	timelines []*Timeline
	ticking   bool
	pending   []*Timeline
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Add starts tl and schedules it. Timelines added from inside a frame callback
// are first advanced on the next call to Advance.
func (s *Scheduler) Add(tl *Timeline) {
	if tl == nil || tl.scheduled {
		return
	}
	tl.scheduled = true
	tl.Start()
	if s.ticking {
		s.pending = append(s.pending, tl)
		return
	}
	s.timelines = append(s.timelines, tl)
}

// Advance ticks all running timelines by dt in the order they were added and
// drops the ones that finished or were stopped.
func (s *Scheduler) Advance(dt time.Duration) {
	s.ticking = true
	for _, tl := range s.timelines {
		tl.Advance(dt)
	}
	s.ticking = false

	live := s.timelines[:0]
	for _, tl := range s.timelines {
		if tl.Running() {
			live = append(live, tl)
		} else {
			tl.scheduled = false
		}
	}
	for i := len(live); i < len(s.timelines); i++ {
		s.timelines[i] = nil
	}
	s.timelines = append(live, s.pending...)
	s.pending = nil
}

// Active returns the number of scheduled timelines still running.
func (s *Scheduler) Active() int {
	n := 0
	for _, tl := range s.timelines {
		if tl.Running() {
			n++
		}
	}
	for _, tl := range s.pending {
		if tl.Running() {
			n++
		}
	}
	return n
}
