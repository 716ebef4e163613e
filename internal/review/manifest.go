// Package review packages generated posts for human review: the issue
// manifest handed to an external tracker, and a local HTML preview.
package review

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/benwest/storycast/internal/agent"
)

// ManifestEntry is one review-ready draft issue.
type ManifestEntry struct {
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Labels    []string `json:"labels"`
	Character string   `json:"character"`
	PostType  string   `json:"post_type"`
}

// NewManifestEntry builds a draft-issue entry for one post.
func NewManifestEntry(p *agent.Post) ManifestEntry {
	return ManifestEntry{
		Title:     fmt.Sprintf("[Draft] %s - %s", p.CharacterName, strings.ToUpper(p.PostType)),
		Body:      IssueBody(p),
		Labels:    []string{"draft", "ai-generated", "needs-review", p.CharacterName},
		Character: p.CharacterName,
		PostType:  p.PostType,
	}
}

const issueBodyTemplate = `---
type: draft_post
character: %s
timestamp: %s
location: %s
encryption: %s
post_type: %s
---

## %s

**Location:** %s
**Encryption:** %s
**Type:** %s

---

%s

---

*Generated at %s*
`

// IssueBody formats a post for draft-issue creation.
func IssueBody(p *agent.Post) string {
	return fmt.Sprintf(issueBodyTemplate,
		p.CharacterName, p.Timestamp, p.Location, p.Encryption, p.PostType,
		p.CharacterName,
		p.Location, p.Encryption, p.PostType,
		p.Content,
		time.Now().Format(time.RFC3339),
	)
}

// WriteManifest writes the manifest as indented JSON, creating parent
// directories.
func WriteManifest(path string, entries []ManifestEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest reads a previously written manifest.
func ReadManifest(path string) ([]ManifestEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return entries, nil
}
