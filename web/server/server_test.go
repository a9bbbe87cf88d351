package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/scene"
)

const testSceneYAML = `name: Test Sphere
description: One grey sphere
camera: {image_width: 20}
render: {samples_per_pixel: 1, max_depth: 2}
materials:
  grey: {type: lambertian, albedo: grey}
spheres:
  - {center: [0, 0, -1], radius: 0.5, material: grey}
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "test-sphere.yaml"), []byte(testSceneYAML), 0644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}
	return NewServer(0, dir)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v (%v)", body, err)
	}
}

func TestHandleScenes(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/scenes")

	var response scene.ScenesResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode scenes: %v", err)
	}
	if len(response.Groups) != 2 {
		t.Fatalf("Expected built-in and file groups, got %+v", response.Groups)
	}
	if id := response.Groups[1].Scenes[0].ID; id != "file:test-sphere" {
		t.Errorf("Expected file:test-sphere, got %q", id)
	}
}

func TestHandleSceneConfig(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/scene-config?scene=default")
	var response struct {
		Defaults map[string]float64 `json:"defaults"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode config: %v", err)
	}
	if response.Defaults["width"] != 400 || response.Defaults["samples"] != 100 || response.Defaults["depth"] != 50 {
		t.Errorf("Unexpected defaults for the default scene: %v", response.Defaults)
	}

	if rec := get(t, s, "/api/scene-config?scene=cornell-box"); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown scene, got %d", rec.Code)
	}
}

func TestHandleImage(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/image?scene=file:test-sphere&width=24")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Body is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 24 || b.Dy() != 24 {
		t.Errorf("Expected 24x24, got %v", b)
	}

	rec = get(t, s, "/api/image?scene=background&width=16&samples=1&format=ppm")
	if !strings.HasPrefix(rec.Body.String(), "P3\n16 16\n255\n") {
		t.Errorf("Expected a PPM body, got %q", rec.Body.String()[:min(20, rec.Body.Len())])
	}
}

func TestHandleImage_BadRequests(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		target string
		status int
	}{
		{"/api/image?scene=nonexistent", http.StatusNotFound},
		{"/api/image?scene=background&width=abc", http.StatusBadRequest},
		{"/api/image?scene=background&width=5", http.StatusBadRequest},
		{"/api/image?scene=background&samples=0", http.StatusBadRequest},
		{"/api/image?scene=background&width=16&format=gif", http.StatusBadRequest},
		{"/api/image?scene=file:../etc/passwd", http.StatusNotFound},
	}

	for _, tt := range tests {
		if rec := get(t, s, tt.target); rec.Code != tt.status {
			t.Errorf("%s: expected %d, got %d", tt.target, tt.status, rec.Code)
		}
	}
}

func parseSSE(body string) []SSEEvent {
	var events []SSEEvent
	for _, block := range strings.Split(body, "\n\n") {
		var event SSEEvent
		for _, line := range strings.Split(block, "\n") {
			if v, ok := strings.CutPrefix(line, "event: "); ok {
				event.Type = v
			} else if v, ok := strings.CutPrefix(line, "data: "); ok {
				event.Data = v
			}
		}
		if event.Type != "" {
			events = append(events, event)
		}
	}
	return events
}

func TestHandleRender_StreamsProgressAndImage(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/render?scene=default&width=32&samples=1&depth=3&seed=9")

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %q", ct)
	}

	events := parseSSE(rec.Body.String())
	counts := make(map[string]int)
	var image ImageUpdate
	for _, event := range events {
		counts[event.Type]++
		if event.Type == "image" {
			if err := json.Unmarshal([]byte(event.Data), &image); err != nil {
				t.Fatalf("Failed to decode image event: %v", err)
			}
		}
	}

	if counts["progress"] == 0 || counts["image"] != 1 || counts["complete"] != 1 || counts["error"] != 0 {
		t.Errorf("Unexpected event counts: %v", counts)
	}
	if counts["console"] == 0 {
		t.Errorf("Expected console messages in the stream")
	}
	if last := events[len(events)-1]; last.Type != "complete" {
		t.Errorf("Expected the stream to end with complete, got %q", last.Type)
	}

	if image.Stats.Width != 32 || image.Stats.Height != 18 || image.Stats.PrimitiveCount != 5 {
		t.Errorf("Unexpected stats: %+v", image.Stats)
	}
	data, err := base64.StdEncoding.DecodeString(image.ImageData)
	if err != nil {
		t.Fatalf("Image data is not base64: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("Image data is not a PNG: %v", err)
	}
}

func TestHandleRender_InvalidRequest(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/render?scene=nonexistent")

	events := parseSSE(rec.Body.String())
	if len(events) != 1 || events[0].Type != "error" {
		t.Errorf("Expected a single error event, got %+v", events)
	}
}

func TestHandleInspect(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/inspect?scene=file:test-sphere&width=21&x=10&y=10")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var response InspectResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode inspect response: %v", err)
	}
	if !response.Hit || response.MaterialType != "lambertian" || response.GeometryType != "sphere" || !response.FrontFace {
		t.Errorf("Expected a front-face hit on the lambertian sphere, got %+v", response)
	}
	if z := response.Point[2]; z < -0.501 || z > -0.499 {
		t.Errorf("Expected the hit on the near side of the sphere, got %v", response.Point)
	}
	geometryProps, _ := response.Properties["geometry"].(map[string]interface{})
	if geometryProps["radius"] != 0.5 {
		t.Errorf("Expected radius 0.5 in geometry properties, got %v", geometryProps)
	}

	rec = get(t, s, "/api/inspect?scene=file:test-sphere&width=21&x=0&y=0")
	response = InspectResponse{}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil || response.Hit {
		t.Errorf("Expected a miss in the corner, got %+v (%v)", response, err)
	}

	for _, target := range []string{
		"/api/inspect?scene=file:test-sphere&width=21&x=21&y=0",
		"/api/inspect?scene=file:test-sphere&width=21&x=a&y=0",
		"/api/inspect?scene=file:test-sphere&width=21&x=0",
	} {
		if rec := get(t, s, target); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestExtractMaterialInfo(t *testing.T) {
	s := scene.NewDefaultScene()

	expected := []string{"lambertian", "lambertian", "dielectric", "dielectric", "metal"}
	for i, object := range s.World.Objects {
		geometryType, geomProps := extractGeometryInfo(object)
		if geometryType != "sphere" || geomProps["radius"] == nil {
			t.Errorf("Object %d: expected sphere geometry, got %s %v", i, geometryType, geomProps)
		}
	}

	for i, object := range s.World.Objects {
		materialType, props := extractMaterialInfo(object.(*geometry.Sphere).Material)
		if materialType != expected[i] {
			t.Errorf("Object %d: expected %s, got %s", i, expected[i], materialType)
		}
		if props["color"] == nil {
			t.Errorf("Object %d: expected a display colour", i)
		}
	}

	if materialType, _ := extractMaterialInfo(nil); materialType != "unknown" {
		t.Errorf("Expected unknown for a nil material, got %s", materialType)
	}
}
