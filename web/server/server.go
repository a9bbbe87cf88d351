package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

var logger = log.New("web")

// Request limits
const (
	minWidth   = 16
	maxWidth   = 2000
	maxSamples = 10000
	maxDepth   = 1000
)

// Server handles web requests for the path tracer
type Server struct {
	port      int
	scenesDir string
	mux       *http.ServeMux
}

// NewServer creates a new web server. Scene files are listed from scenesDir.
func NewServer(port int, scenesDir string) *Server {
	s := &Server{
		port:      port,
		scenesDir: scenesDir,
		mux:       http.NewServeMux(),
	}

	// Serve static files
	s.mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/image", s.handleImage)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)

	return s
}

// Handler returns the HTTP handler serving every endpoint
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	logger.Noticef("starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.mux)
}

// RenderRequest holds the scene and the overrides applied to it
type RenderRequest struct {
	Scene   string `json:"scene"`   // Scene ID (e.g., "default" or "file:three-spheres")
	Width   int    `json:"width"`   // Image width
	Samples int    `json:"samples"` // Samples per pixel
	Depth   int    `json:"depth"`   // Maximum bounce depth
	Seed    int64  `json:"seed"`    // Random seed
}

// Stats represents render statistics
type Stats struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	MaxDepth        int     `json:"maxDepth"`
	Workers         int     `json:"workers"`
	Tiles           int     `json:"tiles"`
	TotalSamples    int64   `json:"totalSamples"`
	TotalRays       int64   `json:"totalRays"`
	AverageBounces  float64 `json:"averageBounces"`
	ElapsedMs       int64   `json:"elapsedMs"`
	PrimitiveCount  int     `json:"primitiveCount"`
}

func newStats(stats renderer.RenderStats, primitiveCount int) Stats {
	return Stats{
		Width:           stats.Width,
		Height:          stats.Height,
		SamplesPerPixel: stats.SamplesPerPixel,
		MaxDepth:        stats.MaxDepth,
		Workers:         stats.Workers,
		Tiles:           stats.Tiles,
		TotalSamples:    stats.TotalSamples,
		TotalRays:       stats.TotalRays,
		AverageBounces:  stats.AverageBounces(),
		ElapsedMs:       stats.Duration.Milliseconds(),
		PrimitiveCount:  primitiveCount,
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig returns the default settings of a scene together with request limits
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneID := sceneParam(r.URL.Query())
	sceneObj, err := scene.Find(sceneID, s.scenesDir)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	camera := sceneObj.CameraConfig
	sampling := sceneObj.SamplingConfig
	response := map[string]interface{}{
		"scene": sceneID,
		"defaults": map[string]interface{}{
			"width":   camera.ImageWidth,
			"height":  camera.ImageHeight(),
			"samples": sampling.SamplesPerPixel,
			"depth":   sampling.MaxDepth,
			"seed":    sampling.Seed,
		},
		"limits": map[string]interface{}{
			"width":   map[string]int{"min": minWidth, "max": maxWidth},
			"samples": map[string]int{"min": 1, "max": maxSamples},
			"depth":   map[string]int{"min": 0, "max": maxDepth},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// loadScene resolves the scene named in the query and applies the overrides in it
func (s *Server) loadScene(values url.Values) (*scene.Scene, *RenderRequest, error) {
	req := &RenderRequest{Scene: sceneParam(values)}

	sceneObj, err := scene.Find(req.Scene, s.scenesDir)
	if err != nil {
		return nil, nil, err
	}

	// Parameters left out keep the scene's own settings
	if req.Width, err = parseIntParam(values, "width", sceneObj.CameraConfig.ImageWidth, minWidth, maxWidth); err != nil {
		return nil, nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", sceneObj.SamplingConfig.SamplesPerPixel, 1, maxSamples); err != nil {
		return nil, nil, err
	}
	if req.Depth, err = parseIntParam(values, "depth", sceneObj.SamplingConfig.MaxDepth, 0, maxDepth); err != nil {
		return nil, nil, err
	}
	if req.Seed, err = parseInt64Param(values, "seed", sceneObj.SamplingConfig.Seed); err != nil {
		return nil, nil, err
	}

	sceneObj.CameraConfig.ImageWidth = req.Width
	sceneObj.SamplingConfig.SamplesPerPixel = req.Samples
	sceneObj.SamplingConfig.MaxDepth = req.Depth
	sceneObj.SamplingConfig.Seed = req.Seed

	// Performance warning
	if req.Width*sceneObj.CameraConfig.ImageHeight() > 800*600 && req.Samples > 100 {
		logger.Warningf("large image with high samples may render slowly (%s)", req.Scene)
	}

	return sceneObj, req, nil
}

func sceneParam(values url.Values) string {
	if id := values.Get("scene"); id != "" {
		return id
	}
	return "default"
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid %s: %s", errBadRequest, key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%w: %s must be between %d and %d, got: %d", errBadRequest, key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseInt64Param parses an unbounded 64-bit integer parameter
func parseInt64Param(values url.Values, key string, defaultValue int64) (int64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid %s: %s", errBadRequest, key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

var errBadRequest = errors.New("bad request")

// statusFor maps request and scene errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, scene.ErrUnknownScene):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, output.ErrUnknownFormat),
		errors.Is(err, renderer.ErrInvalidCamera),
		errors.Is(err, renderer.ErrInvalidSampling),
		errors.Is(err, renderer.ErrPixelOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warningf("error writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
