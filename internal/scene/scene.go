// Package scene holds the scenario library: shared story scenes plus the
// character roster that reacts to them. Defaults are embedded; a config
// can point at an alternate YAML file.
package scene

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed scenes.yaml
var defaultScenesYAML []byte

// Scene is one shared story moment. Every character posts about the same
// scene from their own angle via Directions.
type Scene struct {
	Title       string            `yaml:"title"`
	Time        string            `yaml:"time"`
	Description string            `yaml:"description"`
	Directions  map[string]string `yaml:"directions"`
}

// RosterEntry describes one character's participation in the batch.
type RosterEntry struct {
	Name        string   `yaml:"name"`
	Role        string   `yaml:"role"`
	Interaction string   `yaml:"interaction"`
	Primary     bool     `yaml:"primary"`
	CrossChars  []string `yaml:"cross_chars,omitempty"`
}

// Library is a set of scenes plus the roster they play out against.
type Library struct {
	Scenes []Scene       `yaml:"scenes"`
	Roster []RosterEntry `yaml:"roster"`
}

// Default loads the embedded scene library.
func Default() (*Library, error) {
	return parse(defaultScenesYAML)
}

// LoadFile loads a scene library from a YAML file.
func LoadFile(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenes file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parsing scenes: %w", err)
	}
	if len(lib.Scenes) == 0 {
		return nil, fmt.Errorf("scene library has no scenes")
	}
	return &lib, nil
}

// SceneByTitle finds a scene by exact title.
func (l *Library) SceneByTitle(title string) (Scene, error) {
	for _, sc := range l.Scenes {
		if sc.Title == title {
			return sc, nil
		}
	}
	return Scene{}, fmt.Errorf("scene %q not found", title)
}

// Direction returns the character-specific direction for a scene, or ""
// when the scene has none for that character.
func (s Scene) Direction(character string) string {
	return s.Directions[character]
}
