package codex

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// entryFile is the designated entry document inside each character directory.
const entryFile = "entry.md"

var (
	sectionSplitRe = regexp.MustCompile(`(?m)^## `)
	backgroundRe   = regexp.MustCompile(`(?i)^background\s*:\s*`)
	motivationRe   = regexp.MustCompile(`(?i)^motivations?\s*:\s*`)
	connectionRe   = regexp.MustCompile(`(?i)@(\w+)|mentions?\s+(\w+)`)
	ageRe          = regexp.MustCompile(`(?i)age[:\s]*(\d+)`)
)

// sectionRules classifies body sections by heading text. Rules are applied
// in order and the first match claims the section; this is a deliberate,
// lossy heuristic, not a grammar.
var sectionRules = []struct {
	keyword string
	apply   func(rec *CharacterRecord, section string)
}{
	{"background", func(rec *CharacterRecord, section string) {
		if text := sectionBody(section, backgroundRe); text != "" {
			rec.Background = text
		}
	}},
	{"motivation", func(rec *CharacterRecord, section string) {
		if text := sectionBody(section, motivationRe); text != "" {
			rec.Motivations = text
		}
	}},
	{"connection", func(rec *CharacterRecord, section string) {
		for _, m := range connectionRe.FindAllStringSubmatch(section, -1) {
			name := m[1]
			if name == "" {
				name = m[2]
			}
			if name != "" {
				rec.Connections = append(rec.Connections, name)
			}
		}
	}},
	{"age", func(rec *CharacterRecord, section string) {
		if m := ageRe.FindStringSubmatch(section); m != nil {
			if age, err := strconv.Atoi(m[1]); err == nil {
				rec.Age = &age
			}
		}
	}},
}

// sectionBody returns the text of a section after its heading line, with
// an optional repeated "Label:" prefix stripped, trimmed.
func sectionBody(section string, labelRe *regexp.Regexp) string {
	_, rest, _ := strings.Cut(section, "\n")
	rest = strings.TrimSpace(rest)
	return strings.TrimSpace(labelRe.ReplaceAllString(rest, ""))
}

// ParseExport reads a story-bible export directory and builds a Codex.
// Expected layout: <exportDir>/characters/<name>/entry.md. A missing
// characters directory or a broken entry document is reported and skipped;
// the parse always terminates with whatever subset succeeded.
func ParseExport(exportDir string) *Codex {
	c := &Codex{
		Characters:  map[string]CharacterRecord{},
		StoryEvents: placeholderEvents(),
		GeneratedAt: timestamp(),
	}

	charactersDir := filepath.Join(exportDir, "characters")
	entries, err := os.ReadDir(charactersDir)
	if err != nil {
		log.Printf("No characters directory found at %s", charactersDir)
		return c
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(charactersDir, entry.Name(), entryFile)
		if _, err := os.Stat(path); err != nil {
			continue
		}

		rec, err := parseEntry(path, entry.Name())
		if err != nil {
			log.Printf("Error parsing %s: %v", entry.Name(), err)
			continue
		}
		c.Characters[rec.Name] = rec
		log.Printf("Parsed: %s", rec.Name)
	}

	c.TotalCharacters = len(c.Characters)
	return c
}

// parseEntry parses a single character entry document.
func parseEntry(path, dirName string) (CharacterRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return CharacterRecord{}, fmt.Errorf("reading entry: %w", err)
	}

	frontmatter, body := splitFrontmatter(string(content))
	rec := extractFields(body, frontmatter)

	if rec.Name == "" {
		// Directory names look like "Kamea - student activist"; the part
		// before the hyphen is the character name.
		rec.Name = strings.TrimSpace(strings.SplitN(dirName, "-", 2)[0])
	}
	if rec.Name == "" {
		return CharacterRecord{}, fmt.Errorf("no resolvable name for %s", dirName)
	}
	return rec, nil
}

// splitFrontmatter separates an optional leading YAML metadata block
// (delimited by "---" lines) from the markdown body. Malformed YAML
// degrades to an empty mapping rather than failing the record.
func splitFrontmatter(content string) (map[string]any, string) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return map[string]any{}, content
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end < 0 {
		return map[string]any{}, content
	}

	frontmatter := map[string]any{}
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "\n")), &frontmatter); err != nil {
		frontmatter = map[string]any{}
	}
	return frontmatter, strings.Join(lines[end+1:], "\n")
}

// extractFields builds a record from the markdown body, seeded by the
// frontmatter. A nested "fields" mapping in the frontmatter is applied
// last, so metadata wins over body-derived values.
func extractFields(body string, frontmatter map[string]any) CharacterRecord {
	rec := CharacterRecord{
		Name:          asString(frontmatter["name"]),
		Tags:          asStringSlice(frontmatter["tags"]),
		AestheticLean: "balanced",
	}

	for _, section := range sectionSplitRe.Split(body, -1) {
		heading, _, _ := strings.Cut(section, "\n")
		heading = strings.ToLower(heading)
		for _, rule := range sectionRules {
			if strings.Contains(heading, rule.keyword) {
				rule.apply(&rec, section)
				break
			}
		}
	}

	if fields, ok := frontmatter["fields"].(map[string]any); ok {
		applyFields(&rec, fields)
	}
	return rec
}

// applyFields overlays known keys from the frontmatter "fields" mapping
// onto the record. Unknown keys are ignored.
func applyFields(rec *CharacterRecord, fields map[string]any) {
	for key, value := range fields {
		switch key {
		case "name":
			rec.Name = asString(value)
		case "age":
			if n, ok := asInt(value); ok {
				rec.Age = &n
			}
		case "tags":
			rec.Tags = asStringSlice(value)
		case "background":
			rec.Background = asString(value)
		case "motivations":
			rec.Motivations = asString(value)
		case "connections":
			rec.Connections = asStringSlice(value)
		case "voice_notes":
			rec.VoiceNotes = asString(value)
		case "aesthetic_lean":
			rec.AestheticLean = asString(value)
		case "sample_dialogue":
			rec.SampleDialogue = asStringSlice(value)
		case "personality_traits":
			rec.PersonalityTraits = asStringSlice(value)
		case "knowledge_scope":
			rec.KnowledgeScope = asScopeMap(value)
		case "emotional_state":
			rec.EmotionalState = asString(value)
		case "social_position":
			rec.SocialPosition = asString(value)
		}
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}

func asStringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func asScopeMap(v any) map[string][]string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := map[string][]string{}
	for key, value := range m {
		out[key] = asStringSlice(value)
	}
	return out
}
