package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	simTitleBarHeight = 24
	simBorderWidth    = 8
)

var simDefaultSize = Size{W: 640, H: 480}

// simSurface is the client-side view of one simulated toplevel.
type simSurface struct {
	id     SurfaceID
	client ClientID
	// size is what the client last committed.
	size    Size
	last    Configure
	pointer Point
	hovered bool
	focused bool
	frames  uint64
}

type simReply struct {
	due time.Time
	f   func(*Compositor)
}

// SimClients is a Protocol that behaves like a set of well-mannered
// clients: it acks every configure and commits the suggested size after
// a delay, and turns clicks on its decorations into move and resize
// requests. Protocol methods run on the loop goroutine; replies are
// delivered in order by Serve.
type SimClients struct {
	latency time.Duration
	post    func(context.Context, func(*Compositor)) error
	replies chan simReply

	surfaces    map[SurfaceID]*simSurface
	nextSurface SurfaceID
	nextClient  ClientID
	selection   SurfaceID
}

// NewSimClients creates simulated clients replying after latency.
func NewSimClients(latency time.Duration) *SimClients {
	return &SimClients{
		latency:  latency,
		replies:  make(chan simReply, 1024),
		surfaces: map[SurfaceID]*simSurface{},
	}
}

// Attach sets how replies reach the compositor, normally Loop.Post.
func (s *SimClients) Attach(post func(context.Context, func(*Compositor)) error) {
	s.post = post
}

func (s *SimClients) reply(f func(*Compositor)) {
	select {
	case s.replies <- simReply{due: time.Now().Add(s.latency), f: f}:
	default:
		logrus.Warnln("simulated clients fell behind, dropping reply")
	}
}

func (s *SimClients) String() string { return "simulated clients" }

// Serve implements suture.Service: it hands queued replies to the loop
// once their latency elapsed.
func (s *SimClients) Serve(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		var r simReply
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r = <-s.replies:
		}
		if wait := time.Until(r.due); wait > 0 {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(wait)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
		if s.post == nil {
			continue
		}
		if err := s.post(ctx, r.f); err != nil {
			return err
		}
	}
}

// Spawn connects a new client with one toplevel of the given size (the
// default size when empty). It must run on the loop goroutine.
func (s *SimClients) Spawn(c *Compositor, size Size) (*Window, error) {
	if size.Empty() {
		size = simDefaultSize
	}
	s.nextSurface++
	s.nextClient++
	surf := &simSurface{id: s.nextSurface, client: s.nextClient, size: size}
	s.surfaces[surf.id] = surf
	w, err := c.NewToplevel(surf.id, surf.client)
	if err != nil {
		delete(s.surfaces, surf.id)
		return nil, err
	}
	return w, nil
}

// Disconnect drops a client as if its connection broke.
func (s *SimClients) Disconnect(c *Compositor, client ClientID) {
	for id, surf := range s.surfaces {
		if surf.client == client {
			delete(s.surfaces, id)
		}
	}
	c.ClientGone(client)
}

// Frames returns how many frame callbacks a surface received.
func (s *SimClients) Frames(id SurfaceID) uint64 {
	if surf, ok := s.surfaces[id]; ok {
		return surf.frames
	}
	return 0
}

// Configure answers with an ack and a commit of the suggested size.
func (s *SimClients) Configure(id SurfaceID, cfg Configure) {
	surf, ok := s.surfaces[id]
	if !ok {
		return
	}
	surf.last = cfg
	size := surf.size
	if !cfg.Size.Empty() {
		size = cfg.Size
	}
	s.reply(func(c *Compositor) {
		if _, ok := s.surfaces[id]; !ok {
			return
		}
		surf.size = size
		c.AckConfigure(id, cfg.Serial)
		c.Commit(id, size)
	})
}

// CloseRequest destroys the surface.
func (s *SimClients) CloseRequest(id SurfaceID) {
	if _, ok := s.surfaces[id]; !ok {
		return
	}
	s.reply(func(c *Compositor) {
		if _, ok := s.surfaces[id]; !ok {
			return
		}
		delete(s.surfaces, id)
		c.Destroy(id)
	})
}

// FrameDone counts presented frames.
func (s *SimClients) FrameDone(id SurfaceID, _ uint32) {
	if surf, ok := s.surfaces[id]; ok {
		surf.frames++
	}
}

func (s *SimClients) PointerEnter(id SurfaceID, _ Serial, local Point) {
	if surf, ok := s.surfaces[id]; ok {
		surf.hovered = true
		surf.pointer = local
	}
}

func (s *SimClients) PointerLeave(id SurfaceID, _ Serial) {
	if surf, ok := s.surfaces[id]; ok {
		surf.hovered = false
	}
}

func (s *SimClients) PointerMotion(id SurfaceID, _ uint32, local Point) {
	if surf, ok := s.surfaces[id]; ok {
		surf.pointer = local
	}
}

// PointerButton turns a left press on the border into a resize request
// and one on the title bar into a move request.
func (s *SimClients) PointerButton(id SurfaceID, ev ButtonEvent) {
	surf, ok := s.surfaces[id]
	if !ok || ev.Button != BtnLeft || ev.State != ButtonPressed {
		return
	}
	edges := simEdgesAt(surf.pointer, surf.size)
	switch {
	case edges != EdgeNone:
		s.reply(func(c *Compositor) {
			if err := c.ResizeRequest(id, ev.Serial, edges); err != nil {
				logrus.WithError(err).WithField("surface", id).Debugln("simulated resize request failed")
			}
		})
	case surf.pointer.Y < simTitleBarHeight:
		s.reply(func(c *Compositor) {
			if err := c.MoveRequest(id, ev.Serial); err != nil {
				logrus.WithError(err).WithField("surface", id).Debugln("simulated move request failed")
			}
		})
	}
}

// simEdgesAt returns the edges within the border width of local.
func simEdgesAt(local Point, size Size) Edges {
	var e Edges
	switch {
	case local.X < simBorderWidth:
		e |= EdgeLeft
	case local.X >= float64(size.W-simBorderWidth):
		e |= EdgeRight
	}
	switch {
	case local.Y < simBorderWidth:
		e |= EdgeTop
	case local.Y >= float64(size.H-simBorderWidth):
		e |= EdgeBottom
	}
	return e
}

func (s *SimClients) PointerAxis(id SurfaceID, frame AxisFrame) {
	logrus.WithFields(logrus.Fields{
		"surface":    id,
		"vertical":   frame.Vertical,
		"horizontal": frame.Horizontal,
	}).Debugln("scroll")
}

func (s *SimClients) PointerGesture(id SurfaceID, ev GestureEvent) {
	logrus.WithFields(logrus.Fields{
		"surface": id,
		"kind":    ev.Kind,
	}).Debugln("gesture")
}

func (s *SimClients) KeyboardEnter(id SurfaceID, _ Serial) {
	if surf, ok := s.surfaces[id]; ok {
		surf.focused = true
	}
}

func (s *SimClients) KeyboardLeave(id SurfaceID, _ Serial) {
	if surf, ok := s.surfaces[id]; ok {
		surf.focused = false
	}
}

func (s *SimClients) KeyboardKey(id SurfaceID, _ Serial, _ uint32, key uint32, state KeyState) {
	logrus.WithFields(logrus.Fields{
		"surface": id,
		"key":     key,
		"pressed": state == KeyPressed,
	}).Debugln("key")
}

func (s *SimClients) SelectionFocus(id SurfaceID) { s.selection = id }
