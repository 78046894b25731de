package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meshdrift/pkg/config"
	"github.com/matzehuels/meshdrift/pkg/engine"
	"github.com/matzehuels/meshdrift/pkg/layout"
	"github.com/matzehuels/meshdrift/pkg/observability"
	"github.com/matzehuels/meshdrift/pkg/render"
	"github.com/matzehuels/meshdrift/pkg/theme"
)

const (
	defaultAddr       = "127.0.0.1:8080"
	defaultBackground = "#0f172a"

	// runHeader carries the server's run id on every response.
	runHeader = "X-Mesh-Run"
)

// serveCommand creates the HTTP preview command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr   string
		width  float64
		height float64
		fps    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live preview over HTTP",
		Long: `Serve a live preview over HTTP.

Endpoints:
  GET  /            preview page
  GET  /frame.svg   latest frame
  GET  /state.json  latest frame as JSON
  GET  /healthz     liveness and run id
  POST /resize      change the viewport (?w=1440&h=900)
  POST /start       resume the simulation
  POST /stop        pause the simulation
  POST /theme       re-read the theme`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fps <= 0 {
				return fmt.Errorf("--fps must be positive (got %d)", fps)
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			s, err := newPreviewServer(cfg, layout.Viewport{W: width, H: height}, c.themeLookup(), c.Logger)
			if err != nil {
				return err
			}
			return s.run(cmd.Context(), addr, time.Second/time.Duration(fps))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().Float64Var(&width, "width", 1440, "initial viewport width")
	cmd.Flags().Float64Var(&height, "height", 900, "initial viewport height")
	cmd.Flags().IntVar(&fps, "fps", defaultFPS, "simulation frame rate")
	return cmd
}

// =============================================================================
// previewServer
// =============================================================================

// previewServer owns one engine. Every engine call happens under mu; the
// ticker goroutine drives Frame and handlers only read the capture.
type previewServer struct {
	mu       sync.Mutex
	engine   *engine.Engine
	viewport layout.Viewport

	capture *render.Capture
	runID   uuid.UUID
	seed    uint64
	start   time.Time
	logger  *log.Logger
}

func newPreviewServer(cfg config.Options, vp layout.Viewport, lookup theme.Lookup, logger *log.Logger) (*previewServer, error) {
	s := &previewServer{
		viewport: vp,
		capture:  render.NewCapture(cfg.Render),
		runID:    uuid.New(),
		seed:     cfg.Seed,
		start:    time.Now(),
		logger:   logger,
	}
	surface := engine.SurfaceFunc(func() (float64, float64, bool) {
		return s.viewport.W, s.viewport.H, s.viewport.Validate() == nil
	})

	e, err := engine.New(cfg, surface,
		engine.WithSink(s.capture),
		engine.WithLogger(logger),
		engine.WithThemeLookup(lookup))
	if err != nil {
		return nil, err
	}
	s.engine = e
	e.Start(s.now())
	e.Frame(s.now())
	return s, nil
}

func (s *previewServer) now() float64 {
	return float64(time.Since(s.start)) / float64(time.Millisecond)
}

// step advances the engine to the current time.
func (s *previewServer) step() {
	s.mu.Lock()
	s.engine.Frame(s.now())
	s.mu.Unlock()
}

// run serves until ctx is cancelled.
func (s *previewServer) run(ctx context.Context, addr string, interval time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.step()
			}
		}
	}()

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	printSuccess("Serving preview")
	printKeyValue("address", StyleLink.Render("http://"+addr))
	printKeyValue("run", s.runID.String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("shutdown", "err", err)
		}
		return ctx.Err()
	}
}

// routes builds the chi router.
func (s *previewServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/", s.handleIndex)
	r.Get("/frame.svg", s.handleFrame)
	r.Get("/state.json", s.handleState)
	r.Get("/healthz", s.handleHealth)
	r.Post("/resize", s.handleResize)
	r.Post("/start", s.handleStart)
	r.Post("/stop", s.handleStop)
	r.Post("/theme", s.handleTheme)
	return r
}

// instrument tags responses with the run id and reports each request.
func (s *previewServer) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		w.Header().Set(runHeader, s.runID.String())
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			path = rc.RoutePattern()
		}
		observability.Server().OnRequest(r.Context(), r.Method, path, ww.Status(), time.Since(start))
	})
}

func (s *previewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexHTML, defaultBackground, 1000/defaultFPS)
}

func (s *previewServer) handleFrame(w http.ResponseWriter, r *http.Request) {
	scene, _, ok := s.capture.Latest()
	if !ok {
		s.writeError(w, http.StatusServiceUnavailable, "no_frame", "no frame rendered yet")
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(render.RenderSVG(scene, render.WithBackground(defaultBackground)))
}

func (s *previewServer) handleState(w http.ResponseWriter, r *http.Request) {
	scene, frame, ok := s.capture.Latest()
	if !ok {
		s.writeError(w, http.StatusServiceUnavailable, "no_frame", "no frame rendered yet")
		return
	}
	data, err := render.RenderJSON(frame,
		render.WithRunID(s.runID),
		render.WithSeed(s.seed),
		render.WithScene(scene))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

type healthResponse struct {
	Status  string `json:"status"`
	RunID   string `json:"run_id"`
	Running bool   `json:"running"`
	Tick    uint64 `json:"tick"`
	Frames  uint64 `json:"frames"`
}

func (s *previewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := healthResponse{
		Status:  "ok",
		RunID:   s.runID.String(),
		Running: s.engine.Running(),
		Tick:    s.engine.Ticks(),
		Frames:  s.capture.Count(),
	}
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, resp)
}

type resizeResponse struct {
	Outcome string         `json:"outcome"`
	Targets layout.Targets `json:"targets"`
}

func (s *previewServer) handleResize(w http.ResponseWriter, r *http.Request) {
	width, errW := strconv.ParseFloat(r.URL.Query().Get("w"), 64)
	height, errH := strconv.ParseFloat(r.URL.Query().Get("h"), 64)
	vp := layout.Viewport{W: width, H: height}
	if errW != nil || errH != nil || vp.Validate() != nil {
		s.writeError(w, http.StatusBadRequest, "validation_failed", "w and h must be positive numbers")
		return
	}

	s.mu.Lock()
	prev := s.viewport
	s.viewport = vp
	outcome, err := s.engine.Resize()
	if err != nil {
		s.viewport = prev
	}
	targets := s.engine.Targets()
	s.mu.Unlock()

	if err != nil {
		s.writeError(w, http.StatusBadRequest, "resize_failed", err.Error())
		return
	}
	s.logger.Info("resized", "width", vp.W, "height", vp.H, "outcome", outcome)
	s.writeJSON(w, http.StatusOK, resizeResponse{Outcome: outcome.String(), Targets: targets})
}

func (s *previewServer) handleStart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.engine.Start(s.now())
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *previewServer) handleStop(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.engine.Stop()
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *previewServer) handleTheme(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	p := s.engine.RefreshTheme()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, map[string]string{
		"node":  p.Node.Hex(),
		"edge":  p.Edge.Hex(),
		"pulse": p.Pulse.Hex(),
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *previewServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", "err", err)
	}
}

func (s *previewServer) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, errorResponse{Code: code, Message: message})
}

const indexHTML = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>meshdrift</title>
<style>
  html, body { margin: 0; height: 100%%; background: %s; }
  img { display: block; width: 100vw; height: 100vh; object-fit: cover; }
</style>
</head>
<body>
<img id="frame" src="/frame.svg" alt="">
<script>
  const img = document.getElementById("frame");
  setInterval(() => { img.src = "/frame.svg?t=" + Date.now(); }, %d);
</script>
</body>
</html>
`
