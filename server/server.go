// Package server exposes a running graph over HTTP: frame snapshots as JSON
// and SVG, touch and tap input, node expansion, reset and metrics.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/TFMV/moviegraph/graph"
	"github.com/TFMV/moviegraph/host"
	"github.com/TFMV/moviegraph/ingest"
	"github.com/TFMV/moviegraph/metrics"
	"github.com/TFMV/moviegraph/models"
	"github.com/TFMV/moviegraph/render"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gonum.org/v1/gonum/spatial/r2"
)

// maxBody caps request bodies; input events are tiny.
const maxBody = 1 << 16

// Touch phases accepted by POST /api/touch.
const (
	PhaseBegan = "began"
	PhaseMoved = "moved"
	PhaseEnded = "ended"
)

// TouchRequest is the body of POST /api/touch. PX and PY carry the previous
// point of a moved touch.
type TouchRequest struct {
	Phase string  `json:"phase"`
	TID   int     `json:"tid"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	PX    float64 `json:"px"`
	PY    float64 `json:"py"`
}

// TapRequest is the body of POST /api/tap.
type TapRequest struct {
	TID int     `json:"tid"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
}

// NodeResponse names the node an input hit, if any.
type NodeResponse struct {
	Node  string `json:"node,omitempty"`
	Phase string `json:"phase,omitempty"`
}

// Config for the server
type Config struct {
	Port    int
	Dataset *models.Dataset
	Metrics *metrics.Collector
	Logger  *log.Logger
}

// Server serves one host loop.
type Server struct {
	loop    *host.Loop
	ds      *models.Dataset
	metrics *metrics.Collector
	logger  *log.Logger
	port    int
	router  chi.Router
}

// New creates a server for loop. The dataset, when set, is reloaded by
// POST /api/reset.
func New(loop *host.Loop, cfg Config) *Server {
	s := &Server{
		loop:    loop,
		ds:      cfg.Dataset,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		port:    cfg.Port,
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/frame.svg", s.handleFrameSVG)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/frame", s.handleFrame)
		r.Post("/touch", s.handleTouch)
		r.Post("/tap", s.handleTap)
		r.Post("/nodes/{id}/expand", s.handleExpand)
		r.Post("/reset", s.handleReset)
	})
	return r
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured port until ctx is done, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "port", s.port, "session", s.loop.Session())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// handleFrame returns the latest snapshot as JSON.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	data, err := render.EncodeFrame(s.loop.Frame())
	if err != nil {
		http.Error(w, "Error encoding frame: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("write frame", "err", err)
	}
}

// handleFrameSVG draws the current state as an SVG document.
func (s *Server) handleFrameSVG(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	width, height := s.loop.Size()
	canvas := render.NewSVGCanvas(&buf, width, height, render.DefaultBackground)
	s.loop.Render(canvas)
	canvas.Close()

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Warn("write svg frame", "err", err)
	}
}

// handleTouch routes a touch event to the graph.
func (s *Server) handleTouch(w http.ResponseWriter, r *http.Request) {
	var req TouchRequest
	if !decode(w, r, &req) {
		return
	}

	p := r2.Vec{X: req.X, Y: req.Y}
	var resp NodeResponse
	err := s.loop.Do(func(g *graph.Graph) error {
		switch req.Phase {
		case PhaseBegan:
			g.TouchBegan(p, req.TID)
		case PhaseMoved:
			g.TouchMoved(p, r2.Vec{X: req.PX, Y: req.PY}, req.TID)
		case PhaseEnded:
			if n := g.Touching(req.TID); n != nil {
				resp.Node = n.ID
			}
			g.TouchEnded(p, req.TID)
			return nil
		default:
			return fmt.Errorf("unknown touch phase %q", req.Phase)
		}
		if n := g.Touching(req.TID); n != nil {
			resp.Node = n.ID
			resp.Phase = n.Phase().String()
		}
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.metrics.Event("touch_" + req.Phase)
	s.writeJSON(w, http.StatusOK, resp)
}

// handleTap routes a double tap to the graph.
func (s *Server) handleTap(w http.ResponseWriter, r *http.Request) {
	var req TapRequest
	if !decode(w, r, &req) {
		return
	}

	var resp NodeResponse
	_ = s.loop.Do(func(g *graph.Graph) error {
		if n := g.DoubleTap(r2.Vec{X: req.X, Y: req.Y}, req.TID); n != nil {
			resp.Node = n.ID
			resp.Phase = n.Phase().String()
		}
		return nil
	})

	s.metrics.Event("tap")
	s.writeJSON(w, http.StatusOK, resp)
}

// handleExpand loads a node and unfolds its relations.
func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var resp NodeResponse
	err := s.loop.Do(func(g *graph.Graph) error {
		n, err := ingest.Expand(g, id)
		if err != nil {
			return err
		}
		resp.Node = n.ID
		resp.Phase = n.Phase().String()
		return nil
	})
	if errors.Is(err, ingest.ErrUnknownNode) {
		http.Error(w, "Node not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.logger.Debug("node expanded", "id", id)
	s.metrics.Event("expand")
	s.writeJSON(w, http.StatusOK, resp)
}

// handleReset clears the graph and reloads the dataset. The dataset is
// loaded into a scratch graph first so a failing reload leaves the live
// graph untouched.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	err := s.loop.Do(func(g *graph.Graph) error {
		if s.ds != nil {
			if _, err := ingest.Load(graph.New(g.Size()), s.ds); err != nil {
				return err
			}
		}
		g.Reset()
		if s.ds == nil {
			return nil
		}
		_, err := ingest.Load(g, s.ds)
		return err
	})
	if err != nil {
		http.Error(w, "Error reloading dataset: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.metrics.Event("reset")
	s.writeJSON(w, http.StatusOK, s.loop.Stats())
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		http.Error(w, "Error parsing request: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

// handleIndex renders a page that polls the SVG frame and forwards pointer
// input as touch and tap events.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	if _, err := fmt.Fprint(w, indexPage); err != nil {
		s.logger.Warn("write index", "err", err)
	}
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>moviegraph</title>
  <style>
    body { margin: 0; background: #141414; overflow: hidden; }
    #frame { display: block; user-select: none; touch-action: none; }
  </style>
</head>
<body>
  <img id="frame" src="/frame.svg" draggable="false">
  <script>
    const img = document.getElementById('frame');
    let prev = null;
    const post = (path, body) => fetch(path, {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify(body),
    });
    img.addEventListener('pointerdown', e => {
      prev = {x: e.offsetX, y: e.offsetY};
      post('/api/touch', {phase: 'began', tid: e.pointerId, x: e.offsetX, y: e.offsetY});
    });
    img.addEventListener('pointermove', e => {
      if (!prev) return;
      post('/api/touch', {phase: 'moved', tid: e.pointerId, x: e.offsetX, y: e.offsetY, px: prev.x, py: prev.y});
      prev = {x: e.offsetX, y: e.offsetY};
    });
    img.addEventListener('pointerup', e => {
      prev = null;
      post('/api/touch', {phase: 'ended', tid: e.pointerId, x: e.offsetX, y: e.offsetY});
    });
    img.addEventListener('dblclick', async e => {
      const res = await post('/api/tap', {tid: 0, x: e.offsetX, y: e.offsetY});
      const hit = await res.json();
      if (hit.node && hit.phase !== 'active') {
        post('/api/nodes/' + encodeURIComponent(hit.node) + '/expand', {});
      }
    });
    setInterval(() => { img.src = '/frame.svg?t=' + Date.now(); }, 100);
  </script>
</body>
</html>
`
