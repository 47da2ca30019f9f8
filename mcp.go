package main

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/thejerf/suture/v4"
)

const (
	mcpServerName    = "headless-compositor"
	mcpServerVersion = "0.1.0"
)

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
	Seat    SeatInfo     `json:"seat"`
}

// SpawnWindowInput is the input for the spawn_window tool.
type SpawnWindowInput struct {
	W int `json:"w,omitempty" jsonschema:"Width of the new window (default 640)"`
	H int `json:"h,omitempty" jsonschema:"Height of the new window (default 480)"`
}

// WindowOutput reports the state of one window after a tool ran.
type WindowOutput struct {
	Window WindowInfo `json:"window"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	ID SurfaceID `json:"id" jsonschema:"Surface id of the window"`
	X  int       `json:"x" jsonschema:"New left edge in output coordinates"`
	Y  int       `json:"y" jsonschema:"New top edge in output coordinates"`
}

// WindowIDInput names a window.
type WindowIDInput struct {
	ID SurfaceID `json:"id" jsonschema:"Surface id of the window"`
}

// MCPServer exposes the compositor as MCP tools over stdio, so an agent
// can drive simulated windows the way the HTTP API does.
type MCPServer struct {
	loop *Loop
	sim  *SimClients
	srv  *mcpsdk.Server
}

// NewMCPServer creates the tool server. sim may be nil, in which case
// spawn_window fails.
func NewMCPServer(loop *Loop, sim *SimClients) *MCPServer {
	s := &MCPServer{loop: loop, sim: sim}
	s.srv = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    mcpServerName,
			Version: mcpServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

func (s *MCPServer) registerTools() {
	mcpsdk.AddTool(s.srv, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List mapped windows bottom to top with geometry, activation, opacity and resize phase, plus the seat state.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.srv, &mcpsdk.Tool{
		Name:        "spawn_window",
		Description: "Connect a simulated client with one toplevel. The size is a request: the window reports it once the client commits.",
	}, s.handleSpawnWindow)

	mcpsdk.AddTool(s.srv, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Place a window at a new position. Fails while the window is being moved, resized or waiting on its client.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.srv, &mcpsdk.Tool{
		Name:        "activate_window",
		Description: "Raise a window and give it keyboard focus.",
	}, s.handleActivateWindow)

	mcpsdk.AddTool(s.srv, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Ask a window's client to close it. The window fades out once the client destroys it.",
	}, s.handleCloseWindow)
}

func (s *MCPServer) handleListWindows(ctx context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	out := ListWindowsOutput{Windows: []WindowInfo{}}
	err := s.loop.Do(ctx, func(c *Compositor) error {
		for _, w := range c.Windows() {
			out.Windows = append(out.Windows, c.windowInfo(w))
		}
		out.Seat = c.seatInfo()
		return nil
	})
	return nil, out, err
}

func (s *MCPServer) handleSpawnWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args SpawnWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if s.sim == nil {
		return nil, WindowOutput{}, errors.New("simulated clients are disabled")
	}
	var out WindowOutput
	err := s.loop.Do(ctx, func(c *Compositor) error {
		w, err := s.sim.Spawn(c, Size{args.W, args.H})
		if err != nil {
			return err
		}
		out.Window = c.windowInfo(w)
		return nil
	})
	return nil, out, errors.Wrap(err, "spawn_window")
}

// withWindow runs f on the loop against the window with the given id and
// reports the window's state afterwards.
func (s *MCPServer) withWindow(ctx context.Context, tool string, id SurfaceID, f func(*Compositor, *Window) error) (*mcpsdk.CallToolResult, WindowOutput, error) {
	var out WindowOutput
	err := s.loop.Do(ctx, func(c *Compositor) error {
		w := c.Window(id)
		if w == nil {
			return errors.Wrapf(ErrUnknownSurface, "surface %d", id)
		}
		if err := f(c, w); err != nil {
			return err
		}
		out.Window = c.windowInfo(w)
		return nil
	})
	return nil, out, errors.Wrap(err, tool)
}

func (s *MCPServer) handleMoveWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.withWindow(ctx, "move_window", args.ID, func(c *Compositor, w *Window) error {
		x, y := args.X, args.Y
		return c.applyUpdate(w, windowUpdate{X: &x, Y: &y})
	})
}

func (s *MCPServer) handleActivateWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.withWindow(ctx, "activate_window", args.ID, func(c *Compositor, w *Window) error {
		return c.RequestActivation(w.ID)
	})
}

func (s *MCPServer) handleCloseWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.withWindow(ctx, "close_window", args.ID, func(c *Compositor, w *Window) error {
		w.CloseGracefully(c.proto)
		return nil
	})
}

func (s *MCPServer) String() string { return "mcp server" }

// Serve implements suture.Service. It speaks MCP on stdin/stdout until
// the peer hangs up.
func (s *MCPServer) Serve(ctx context.Context) error {
	logrus.Infoln("serving MCP on stdio")
	err := s.srv.Run(ctx, &mcpsdk.StdioTransport{})
	if ctx.Err() != nil {
		return ctx.Err()
	}
	// stdin cannot be reopened; restarting would spin.
	logrus.WithError(err).Infoln("MCP peer went away")
	return suture.ErrDoNotRestart
}
