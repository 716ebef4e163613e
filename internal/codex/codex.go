package codex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// CharacterRecord is the canonical description of one character,
// extracted from the story-bible export. Records are immutable once
// parsed; a new parse run produces a new set.
type CharacterRecord struct {
	Name              string              `json:"name"`
	Age               *int                `json:"age,omitempty"`
	Tags              []string            `json:"tags"`
	Background        string              `json:"background"`
	Motivations       string              `json:"motivations"`
	Connections       []string            `json:"connections"`
	VoiceNotes        string              `json:"voice_notes"`
	AestheticLean     string              `json:"aesthetic_lean"`
	SampleDialogue    []string            `json:"sample_dialogue"`
	PersonalityTraits []string            `json:"personality_traits"`
	KnowledgeScope    map[string][]string `json:"knowledge_scope,omitempty"`
	EmotionalState    string              `json:"emotional_state"`
	SocialPosition    string              `json:"social_position"`
}

// StoryEvent is a timeline anchor shared by all characters.
type StoryEvent struct {
	Date          string   `json:"date"`
	Time          string   `json:"time"`
	Event         string   `json:"event"`
	KeyCharacters []string `json:"key_characters"`
	Significance  string   `json:"significance"`
}

// Codex is the parse result for one export: every character record keyed
// by name, the story timeline, and run metadata. It is the sole input the
// generation side consumes; it never re-reads the export directly.
type Codex struct {
	Characters      map[string]CharacterRecord `json:"characters"`
	StoryEvents     []StoryEvent               `json:"story_events"`
	GeneratedAt     string                     `json:"generated_at"`
	TotalCharacters int                        `json:"total_characters"`
}

// Save writes the codex as indented JSON, creating parent directories.
func (c *Codex) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating codex directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling codex: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing codex: %w", err)
	}
	return nil
}

// Load reads a previously saved codex.
func Load(path string) (*Codex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading codex: %w", err)
	}
	var c Codex
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing codex: %w", err)
	}
	return &c, nil
}

// Summary returns a human-readable overview of the parsed codex.
func (c *Codex) Summary() string {
	var b strings.Builder
	sep := strings.Repeat("=", 60)
	fmt.Fprintf(&b, "%s\nStory Bible Export Summary\n%s\n", sep, sep)
	fmt.Fprintf(&b, "Characters parsed: %d\n\nCharacters:\n", len(c.Characters))

	names := make([]string, 0, len(c.Characters))
	for name := range c.Characters {
		names = append(names, name)
	}
	sort.Strings(names)
	relationships := c.RelationshipMap()
	for _, name := range names {
		tags := "untagged"
		if rec := c.Characters[name]; len(rec.Tags) > 0 {
			tags = strings.Join(rec.Tags, ", ")
		}
		allegiances := "none"
		if rel := relationships[name]; len(rel.Allegiances) > 0 {
			allegiances = strings.Join(rel.Allegiances, ", ")
		}
		fmt.Fprintf(&b, "  - %-20s | tags: %s | allegiances: %s\n", name, tags, allegiances)
	}

	fmt.Fprintf(&b, "\nStory Events: %d\n", len(c.StoryEvents))
	for _, ev := range c.StoryEvents {
		fmt.Fprintf(&b, "  - %s - %s\n", ev.Date, ev.Event)
	}
	fmt.Fprintf(&b, "%s\n", sep)
	return b.String()
}

// placeholderEvents is the fixed timeline stub. Real event extraction from
// scene files is not implemented; downstream code gets the interface and a
// single anchor event.
func placeholderEvents() []StoryEvent {
	return []StoryEvent{
		{
			Date:          "2025-06-03",
			Time:          "15:30",
			Event:         "Storm approaching, community divided on refugee protection",
			KeyCharacters: []string{"Chris", "Sarah", "Tria", "Kamea", "Randy"},
			Significance:  "Major conflict point",
		},
	}
}

func timestamp() string {
	return time.Now().Format(time.RFC3339)
}
