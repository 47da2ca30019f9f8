package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thejerf/suture/v4"
)

// Loop owns the Compositor. Everything that touches compositor state runs
// as a task on the loop goroutine; a ticker drives the frame step.
type Loop struct {
	c        *Compositor
	renderer Renderer
	interval time.Duration
	tasks    chan func(*Compositor)
}

// NewLoop creates a loop rendering c into r every interval.
func NewLoop(c *Compositor, r Renderer, interval time.Duration) *Loop {
	if r == nil {
		r = nopRenderer{}
	}
	return &Loop{
		c:        c,
		renderer: r,
		interval: interval,
		tasks:    make(chan func(*Compositor), 256),
	}
}

// SetRenderer replaces the renderer. It must be called from a task.
func (l *Loop) SetRenderer(r Renderer) {
	if r == nil {
		r = nopRenderer{}
	}
	l.renderer = r
}

// Post queues f to run on the loop without waiting for it. It blocks
// while the queue is full, until ctx is done.
func (l *Loop) Post(ctx context.Context, f func(*Compositor)) error {
	select {
	case l.tasks <- f:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs f on the loop and waits for its result.
func (l *Loop) Do(ctx context.Context, f func(*Compositor) error) error {
	done := make(chan error, 1)
	select {
	case l.tasks <- func(c *Compositor) { done <- f(c) }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) String() string { return "event loop" }

// Serve implements suture.Service. It returns
// suture.ErrTerminateSupervisorTree once the compositor asked to quit.
func (l *Loop) Serve(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	logrus.WithField("interval", l.interval).Infoln("event loop started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-l.tasks:
			f(l.c)
		case <-ticker.C:
			if _, err := l.c.Frame(l.renderer); err != nil {
				logrus.WithError(err).Warnln("frame dropped")
			}
		}
		if l.c.Quitting() {
			logrus.Infoln("quit requested")
			return suture.ErrTerminateSupervisorTree
		}
	}
}
