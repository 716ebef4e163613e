package agent

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Post is one structured, in-character generated utterance. Posts are
// immutable after parsing; approval happens out-of-band and is not
// reflected back into this record.
type Post struct {
	CharacterName string            `json:"character_name"`
	Content       string            `json:"content"`
	Timestamp     string            `json:"timestamp"`
	Location      string            `json:"location"`
	Encryption    string            `json:"encryption"`
	PostType      string            `json:"post_type"`
	Score         float64           `json:"score"`
	Approved      bool              `json:"approved"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Images        []ImageRequest    `json:"images,omitempty"`
}

// ImageRequest pairs a model-supplied image description with a synthesized
// generation prompt. The actual image is produced elsewhere.
type ImageRequest struct {
	Description string `json:"description"`
	Type        string `json:"type"`
	Prompt      string `json:"prompt"`
}

// TypeSpec describes one post type for prompt assembly.
type TypeSpec struct {
	Length       string
	Description  string
	IncludeImage bool
}

// typeSpecs is the fixed post-type table. Unknown types fall back to
// "social".
var typeSpecs = map[string]TypeSpec{
	"social": {
		Length:       "50-150 words (tweet-length)",
		Description:  "Quick, urgent update. Can include image description if relevant.",
		IncludeImage: true,
	},
	"blog": {
		Length:       "300-500 words (anchor post)",
		Description:  "Longer analysis/narrative. Often includes detailed image description.",
		IncludeImage: true,
	},
	"editorial": {
		Length:       "400-600 words (opinion piece)",
		Description:  "Formal op-ed. Can include security footage descriptions.",
		IncludeImage: true,
	},
	"dm": {
		Length:       "100-300 words (private message)",
		Description:  "Confidential message. Often includes specific details/instructions.",
		IncludeImage: false,
	},
	"surveillance": {
		Length:       "200-400 words (security log)",
		Description:  "Security camera or surveillance report. Heavy on technical details and image descriptions.",
		IncludeImage: true,
	},
}

// SpecFor returns the spec for a post type, or the social spec for
// anything unrecognized.
func SpecFor(postType string) TypeSpec {
	if spec, ok := typeSpecs[postType]; ok {
		return spec
	}
	return typeSpecs["social"]
}

// PostTypes lists the five recognized post kinds.
func PostTypes() []string {
	return []string{"social", "blog", "editorial", "dm", "surveillance"}
}

// Archive is the durable per-character sequence of generated posts.
type Archive struct {
	Character   string  `json:"character"`
	GeneratedAt string  `json:"generated_at"`
	Posts       []*Post `json:"posts"`
	TotalPosts  int     `json:"total_posts"`
}

// SaveArchive writes an archive as indented JSON, creating parent
// directories. Whole-file overwrite; nothing else writes these paths
// during a batch run.
func SaveArchive(path string, archive *Archive) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating drafts directory: %w", err)
	}
	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling archive: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}
	return nil
}

// Format pretty-prints a post for CLI narration.
func (p *Post) Format(index int) string {
	var b strings.Builder
	sep := strings.Repeat("-", 70)
	fmt.Fprintf(&b, "POST %d\n", index)
	fmt.Fprintf(&b, "Type: %s | Location: %s | Encryption: %s\n", p.PostType, p.Location, p.Encryption)
	fmt.Fprintf(&b, "Timestamp: %s\n%s\n%s\n", p.Timestamp, sep, p.Content)
	return b.String()
}
