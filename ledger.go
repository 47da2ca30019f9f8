package main

import (
	"fmt"
	"sort"
	"time"
)

// ResizePhase is where a surface is in the resize handshake.
type ResizePhase uint8

const (
	// NotResizing is the steady state.
	NotResizing ResizePhase = iota
	// Resizing means a resize grab is live; geometry is provisional.
	Resizing
	// WaitingForFinalAck means the grab ended and the client has yet to
	// ack the final configure.
	WaitingForFinalAck
	// WaitingForCommit means the final configure was acked and the
	// matching buffer commit is pending.
	WaitingForCommit
)

func (p ResizePhase) String() string {
	switch p {
	case NotResizing:
		return "not-resizing"
	case Resizing:
		return "resizing"
	case WaitingForFinalAck:
		return "waiting-for-final-ack"
	case WaitingForCommit:
		return "waiting-for-commit"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// ResizeData is captured when a resize grab starts.
type ResizeData struct {
	Edges           Edges
	InitialLocation Pos
	InitialSize     Size
}

// Anchor returns the window position that keeps the edges opposite to
// the dragged ones stationary, given the size the client committed.
func (d ResizeData) Anchor(current Pos, committed Size) Pos {
	loc := current
	if d.Edges&EdgeLeft != 0 {
		loc.X = d.InitialLocation.X + (d.InitialSize.W - committed.W)
	}
	if d.Edges&EdgeTop != 0 {
		loc.Y = d.InitialLocation.Y + (d.InitialSize.H - committed.H)
	}
	return loc
}

// ResizeState is one surface's ledger entry. Data is meaningful in every
// phase but NotResizing; AckSerial only in WaitingForFinalAck.
type ResizeState struct {
	Phase     ResizePhase
	Data      ResizeData
	AckSerial Serial

	since time.Time
}

// ResizeLedger records the resize handshake of every surface. It is owned
// by the Compositor and only touched from the event loop.
type ResizeLedger struct {
	entries map[SurfaceID]*ResizeState
	now     func() time.Time
}

// NewResizeLedger creates an empty ledger.
func NewResizeLedger(clock func() time.Time) *ResizeLedger {
	if clock == nil {
		clock = time.Now
	}
	return &ResizeLedger{entries: map[SurfaceID]*ResizeState{}, now: clock}
}

// Seed registers a new surface as NotResizing. Existing entries are kept.
func (l *ResizeLedger) Seed(id SurfaceID) {
	if _, ok := l.entries[id]; !ok {
		l.entries[id] = &ResizeState{Phase: NotResizing}
	}
}

// Forget drops the entry of a destroyed surface.
func (l *ResizeLedger) Forget(id SurfaceID) {
	delete(l.entries, id)
}

// Get returns a copy of the surface's entry.
func (l *ResizeLedger) Get(id SurfaceID) (ResizeState, bool) {
	e, ok := l.entries[id]
	if !ok {
		return ResizeState{}, false
	}
	return *e, true
}

// Phase returns the surface's phase, NotResizing if unknown.
func (l *ResizeLedger) Phase(id SurfaceID) ResizePhase {
	if e, ok := l.entries[id]; ok {
		return e.Phase
	}
	return NotResizing
}

// Pending reports whether the surface is parked waiting on its client.
func (l *ResizeLedger) Pending(id SurfaceID) bool {
	p := l.Phase(id)
	return p == WaitingForFinalAck || p == WaitingForCommit
}

// MarkResizing records a live resize. It is called on every motion sample
// and overwrites the data of a previous Resizing entry. A surface parked
// in a waiting phase is left alone.
func (l *ResizeLedger) MarkResizing(id SurfaceID, data ResizeData) bool {
	e, ok := l.entries[id]
	if !ok {
		return false
	}
	switch e.Phase {
	case NotResizing, Resizing:
		*e = ResizeState{Phase: Resizing, Data: data, since: l.now()}
		return true
	}
	return false
}

// FinishResizing moves a Resizing surface to WaitingForFinalAck on the
// serial of the final configure.
func (l *ResizeLedger) FinishResizing(id SurfaceID, serial Serial) bool {
	e, ok := l.entries[id]
	if !ok || e.Phase != Resizing {
		return false
	}
	e.Phase = WaitingForFinalAck
	e.AckSerial = serial
	e.since = l.now()
	return true
}

// Ack handles a configure acknowledgement. Only the serial of the final
// configure advances the entry; older acks are ignored.
func (l *ResizeLedger) Ack(id SurfaceID, serial Serial) bool {
	e, ok := l.entries[id]
	if !ok || e.Phase != WaitingForFinalAck || e.AckSerial != serial {
		return false
	}
	e.Phase = WaitingForCommit
	e.AckSerial = 0
	e.since = l.now()
	return true
}

// Commit handles a buffer commit. It returns the resize data if the
// window position must be re-anchored against the committed size. A
// WaitingForCommit entry completes and resets to NotResizing; a Resizing
// entry stays, as its ack is still outstanding.
func (l *ResizeLedger) Commit(id SurfaceID) (ResizeData, bool) {
	e, ok := l.entries[id]
	if !ok {
		return ResizeData{}, false
	}
	switch e.Phase {
	case Resizing:
		return e.Data, true
	case WaitingForCommit:
		data := e.Data
		*e = ResizeState{Phase: NotResizing}
		return data, true
	}
	return ResizeData{}, false
}

// Expire resets entries that have waited on their client for longer than
// timeout and returns their surfaces. A zero timeout disables expiry.
func (l *ResizeLedger) Expire(timeout time.Duration) []SurfaceID {
	if timeout <= 0 {
		return nil
	}
	now := l.now()
	var expired []SurfaceID
	for id, e := range l.entries {
		if e.Phase != WaitingForFinalAck && e.Phase != WaitingForCommit {
			continue
		}
		if now.Sub(e.since) >= timeout {
			*e = ResizeState{Phase: NotResizing}
			expired = append(expired, id)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i] < expired[j] })
	return expired
}
