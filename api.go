package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// WindowInfo is the API view of a window.
type WindowInfo struct {
	ID        SurfaceID `json:"id"`
	Client    ClientID  `json:"client"`
	X         int       `json:"x"`
	Y         int       `json:"y"`
	W         int       `json:"w"`
	H         int       `json:"h"`
	Z         int       `json:"z"`
	Activated bool      `json:"activated"`
	Alpha     float64   `json:"alpha"`
	Resize    string    `json:"resize"`
}

// SeatInfo is the API view of the seat.
type SeatInfo struct {
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Pointer  SurfaceID `json:"pointer_focus"`
	Keyboard SurfaceID `json:"keyboard_focus"`
	Buttons  []uint32  `json:"buttons"`
	Grab     string    `json:"grab,omitempty"`
	Cursor   string    `json:"cursor"`
}

func (c *Compositor) windowInfo(w *Window) WindowInfo {
	return WindowInfo{
		ID:        w.ID,
		Client:    w.Client,
		X:         w.Loc.X,
		Y:         w.Loc.Y,
		W:         w.Size.W,
		H:         w.Size.H,
		Z:         c.stack.Index(w),
		Activated: w.Activated,
		Alpha:     c.anim.Alpha(w.ID),
		Resize:    c.ledger.Phase(w.ID).String(),
	}
}

func (c *Compositor) seatInfo() SeatInfo {
	info := SeatInfo{
		X:        c.pointer.Location().X,
		Y:        c.pointer.Location().Y,
		Pointer:  c.pointer.Focus(),
		Keyboard: c.keyboard.Focus(),
		Buttons:  c.pointer.Pressed(),
		Cursor:   string(c.pointer.Cursor()),
	}
	if g := c.pointer.Grab(); g != nil {
		info.Grab = grabKind(g)
	}
	return info
}

// windowUpdate is the body of POST /windows/{id}. Absent fields are left
// alone.
type windowUpdate struct {
	X        *int  `json:"x"`
	Y        *int  `json:"y"`
	W        *int  `json:"w"`
	H        *int  `json:"h"`
	Activate *bool `json:"activate"`
}

// APIServer is the HTTP control surface.
type APIServer struct {
	server *http.Server
	loop   *Loop
	sim    *SimClients
}

func jsonResponse(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	logrus.WithFields(logrus.Fields{
		"status": status,
		"method": r.Method,
	}).Debugln(r.URL.Path)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	e := json.NewEncoder(w)
	e.Encode(data)
}

func errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch errors.Cause(err) {
	case ErrUnknownSurface:
		status = http.StatusNotFound
	case ErrResizePending, ErrGrabActive:
		status = http.StatusConflict
	case context.Canceled, context.DeadlineExceeded:
		status = http.StatusServiceUnavailable
	}
	jsonResponse(w, r, status, map[string]interface{}{"error": err.Error()})
}

// NewAPIServer creates the API. sim may be nil, in which case windows
// cannot be created over HTTP.
func NewAPIServer(loop *Loop, sim *SimClients, listenAddr string) (as *APIServer) {
	router := mux.NewRouter()
	as = &APIServer{
		server: &http.Server{
			Addr:           listenAddr,
			Handler:        router,
			ReadTimeout:    1 * time.Second,
			MaxHeaderBytes: 1 << 16,
		},
		loop: loop,
		sim:  sim,
	}

	router.HandleFunc("/windows/", func(w http.ResponseWriter, r *http.Request) {
		var items []WindowInfo
		err := as.loop.Do(r.Context(), func(c *Compositor) error {
			for _, win := range c.Windows() {
				items = append(items, c.windowInfo(win))
			}
			return nil
		})
		if err != nil {
			errorResponse(w, r, err)
			return
		}
		jsonResponse(w, r, http.StatusOK, map[string]interface{}{"items": items})
	}).Methods("GET")

	router.HandleFunc("/windows/", func(w http.ResponseWriter, r *http.Request) {
		if as.sim == nil {
			jsonResponse(w, r, http.StatusNotImplemented, nil)
			return
		}
		var size struct {
			W int `json:"w"`
			H int `json:"h"`
		}
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&size); err != nil {
				jsonResponse(w, r, http.StatusUnprocessableEntity, nil)
				return
			}
		}
		var item WindowInfo
		err := as.loop.Do(r.Context(), func(c *Compositor) error {
			win, err := as.sim.Spawn(c, Size{size.W, size.H})
			if err != nil {
				return err
			}
			item = c.windowInfo(win)
			return nil
		})
		if err != nil {
			errorResponse(w, r, err)
			return
		}
		jsonResponse(w, r, http.StatusCreated, map[string]interface{}{"item": item})
	}).Methods("POST")

	getID := func(r *http.Request) SurfaceID {
		id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
		if err != nil {
			return 0
		}
		return SurfaceID(id)
	}

	router.HandleFunc("/windows/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		id := getID(r)
		var update windowUpdate
		if r.Method == "POST" {
			if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
				jsonResponse(w, r, http.StatusUnprocessableEntity, nil)
				return
			}
		}
		var item WindowInfo
		err := as.loop.Do(r.Context(), func(c *Compositor) error {
			win := c.Window(id)
			if win == nil {
				return ErrUnknownSurface
			}
			switch r.Method {
			case "POST":
				if err := c.applyUpdate(win, update); err != nil {
					return err
				}
			case "DELETE":
				win.CloseGracefully(c.proto)
			}
			item = c.windowInfo(win)
			return nil
		})
		if err != nil {
			errorResponse(w, r, err)
			return
		}
		jsonResponse(w, r, http.StatusOK, map[string]interface{}{"item": item})
	}).Methods("GET", "POST", "DELETE")

	router.HandleFunc("/seat", func(w http.ResponseWriter, r *http.Request) {
		var info SeatInfo
		err := as.loop.Do(r.Context(), func(c *Compositor) error {
			info = c.seatInfo()
			return nil
		})
		if err != nil {
			errorResponse(w, r, err)
			return
		}
		jsonResponse(w, r, http.StatusOK, info)
	}).Methods("GET")

	router.HandleFunc("/events", makeWSHandler(as.streamEvents))

	router.PathPrefix("/").Handler(http.NotFoundHandler())
	return as
}

// applyUpdate moves, resizes or activates a window on behalf of the API.
// A size change is a request: the window only changes once the client
// commits.
func (c *Compositor) applyUpdate(w *Window, u windowUpdate) error {
	if u.X != nil || u.Y != nil {
		if c.ledger.Pending(w.ID) {
			return ErrResizePending
		}
		if g := c.pointer.Grab(); g != nil && g.Window() == w.ID {
			return ErrGrabActive
		}
		loc := w.Loc
		if u.X != nil {
			loc.X = *u.X
		}
		if u.Y != nil {
			loc.Y = *u.Y
		}
		c.placeWindow(w, loc)
	}
	if u.W != nil || u.H != nil {
		size := w.Size
		if u.W != nil {
			size.W = max(*u.W, 1)
		}
		if u.H != nil {
			size.H = max(*u.H, 1)
		}
		w.SetPendingSize(size)
		w.Configure(c.proto, &c.serials)
	}
	if u.Activate != nil && *u.Activate {
		return c.RequestActivation(w.ID)
	}
	return nil
}

// Handler returns the API's HTTP handler.
func (as *APIServer) Handler() http.Handler { return as.server.Handler }

func (as *APIServer) String() string { return "api server" }

// Serve implements suture.Service.
func (as *APIServer) Serve(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		logrus.Infof("Listening on http://%s", as.server.Addr)
		errc <- as.server.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return errors.Wrap(err, "api server")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		as.server.Shutdown(shutdownCtx)
		return ctx.Err()
	}
}
