package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-pathtracer/pkg/log"
)

var logger = log.New("scene")

var ErrUnknownScene = errors.New("scene: unknown scene")

// Scene types
const (
	TypeBuiltin = "builtin"
	TypeFile    = "file"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the YAML file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const builtinGroup = "Built-in Scenes"

type builtinScene struct {
	info  SceneInfo
	build func() *Scene
}

var builtinScenes = []builtinScene{
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			Description: "Diffuse, glass and metal spheres on a yellow ground",
		},
		build: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "spheregrid",
			Name:        "Sphere Grid",
			Description: "Field of random small spheres around three large ones",
		},
		build: NewSphereGridScene,
	},
	{
		info: SceneInfo{
			ID:          "background",
			Name:        "Background",
			Description: "Empty world showing the sky gradient",
		},
		build: NewBackgroundScene,
	},
}

// ListBuiltinScenes returns the scenes compiled into the program
func ListBuiltinScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtinScenes))
	for _, b := range builtinScenes {
		info := b.info
		info.DisplayName = info.Name
		info.Group = builtinGroup
		info.Type = TypeBuiltin
		scenes = append(scenes, info)
	}
	return scenes
}

// Lookup builds the built-in scene with the given ID
func Lookup(id string) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == id {
			return b.build(), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
}

// Load resolves a scene reference: a path to a YAML file or a built-in scene ID
func Load(ref string) (*Scene, error) {
	if isSceneFile(ref) {
		return LoadFile(ref)
	}
	return Lookup(ref)
}

// Find resolves a scene ID returned by ListAllScenes. File scenes are only
// loaded from dir so IDs cannot name arbitrary paths.
func Find(id, dir string) (*Scene, error) {
	if !strings.HasPrefix(id, TypeFile+":") {
		return Lookup(id)
	}

	files, err := ListSceneFiles(dir)
	if err != nil {
		return nil, err
	}
	for _, info := range files {
		if info.ID == id {
			return LoadFile(info.FilePath)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
}

func isSceneFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// ListSceneFiles scans dir for YAML scenes. A missing directory yields no scenes.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if dir == "" {
		return []SceneInfo{}, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, entry := range entries {
		if entry.IsDir() || !isSceneFile(entry.Name()) {
			continue
		}

		filePath := filepath.Join(dir, entry.Name())
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			// Skip the broken file but keep listing the others
			logger.Warningf("failed to parse metadata for %s: %v", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneMetadata reads the name and description of a YAML scene file
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          TypeFile + ":" + nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Scene Files",
		Type:        TypeFile,
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return sceneInfo, err
	}
	defer file.Close()

	f, err := DecodeFile(file)
	if err != nil {
		return sceneInfo, err
	}

	if f.Name != "" {
		sceneInfo.Name = f.Name
		sceneInfo.DisplayName = f.Name
	}
	sceneInfo.Description = f.Description
	return sceneInfo, nil
}

// ListAllScenes returns built-in scenes followed by the scene files in dir, grouped by category
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	fileScenes, err := ListSceneFiles(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}

	response.Groups = append(response.Groups, SceneGroup{
		Name:   builtinGroup,
		Scenes: ListBuiltinScenes(),
	})
	if len(fileScenes) > 0 {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   fileScenes[0].Group,
			Scenes: fileScenes,
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
