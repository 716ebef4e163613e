// Package batch drives a full generation run: one scene, every rostered
// character found in the codex, a handful of post types each.
package batch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/benwest/storycast/internal/agent"
	"github.com/benwest/storycast/internal/codex"
	"github.com/benwest/storycast/internal/llm"
	"github.com/benwest/storycast/internal/review"
	"github.com/benwest/storycast/internal/scene"
	"github.com/benwest/storycast/internal/store"
)

const manifestName = "issues_manifest.json"

const groundingReminder = `Remember: Report what you personally experienced. Name specific people, moments, decisions.
This post is part of the permanent record of what happened.`

// Options control a single batch run.
type Options struct {
	Scene      string   // scene title; empty means the first scene
	PostTypes  []string // defaults to social + blog
	MaxRetries int
	DraftsDir  string
}

// CharacterResult summarizes one character's share of a run.
type CharacterResult struct {
	Character string
	Generated int
	Failed    int
	Archive   string
}

// Result holds the results of a full batch run.
type Result struct {
	Scene        string
	RunID        int64
	Generated    int
	Failed       int
	Characters   []CharacterResult
	Posts        []*agent.Post
	ManifestFile string
}

// PlannedPost is one (character, post type) pair a run would generate.
type PlannedPost struct {
	Character string
	PostType  string
}

// Driver orchestrates sequential post generation across the roster.
type Driver struct {
	codex    *codex.Codex
	library  *scene.Library
	provider llm.Provider
	store    *store.Store

	VoiceStyle string
	MaxTokens  int
	Timeout    time.Duration

	now func() time.Time
}

// New creates a batch driver. The store records the run ledger and may
// be nil when no ledger is wanted.
func New(cdx *codex.Codex, lib *scene.Library, provider llm.Provider, st *store.Store) *Driver {
	return &Driver{
		codex:      cdx,
		library:    lib,
		provider:   provider,
		store:      st,
		VoiceStyle: agent.DefaultVoiceStyle,
		MaxTokens:  1024,
		Timeout:    30 * time.Second,
		now:        time.Now,
	}
}

// Plan lists the posts a run with these options would generate, without
// calling the provider.
func (d *Driver) Plan(opts Options) ([]PlannedPost, error) {
	if _, err := d.pickScene(opts.Scene); err != nil {
		return nil, err
	}
	types := postTypes(opts.PostTypes)

	var planned []PlannedPost
	for _, entry := range d.library.Roster {
		if _, ok := d.codex.Characters[entry.Name]; !ok {
			continue
		}
		for _, pt := range types {
			planned = append(planned, PlannedPost{Character: entry.Name, PostType: pt})
		}
	}
	return planned, nil
}

// Run generates posts for every rostered character present in the codex,
// writes per-character archives and the review manifest, and records the
// run in the ledger.
func (d *Driver) Run(ctx context.Context, opts Options) (*Result, error) {
	sc, err := d.pickScene(opts.Scene)
	if err != nil {
		return nil, err
	}
	types := postTypes(opts.PostTypes)

	r := &Result{Scene: sc.Title}
	if d.store != nil {
		runID, err := d.store.InsertRun(sc.Title)
		if err != nil {
			return nil, fmt.Errorf("recording run: %w", err)
		}
		r.RunID = runID
	}

	log.Printf("Scene: %s (%s)", sc.Title, sc.Time)

	var manifest []review.ManifestEntry
	for _, entry := range d.library.Roster {
		rec, ok := d.codex.Characters[entry.Name]
		if !ok {
			log.Printf("Skipping %s: not in codex", entry.Name)
			continue
		}

		log.Printf("Generating posts from %s...", entry.Name)
		a := agent.NewAgent(rec, d.provider)
		a.VoiceStyle = d.VoiceStyle
		a.MaxTokens = d.MaxTokens
		a.Timeout = d.Timeout

		scenario := buildScenario(sc, entry.Name, rec.VoiceNotes)

		cr := CharacterResult{Character: entry.Name}
		for _, pt := range types {
			post := a.GeneratePost(ctx, scenario, pt, opts.MaxRetries)
			if post == nil {
				log.Printf("  failed to generate %s post for %s", pt, entry.Name)
				cr.Failed++
				continue
			}
			cr.Generated++
			r.Posts = append(r.Posts, post)
			manifest = append(manifest, review.NewManifestEntry(post))
			if d.store != nil {
				if _, err := d.store.InsertDraft(r.RunID, post.CharacterName, post.PostType, post.Location, post.Encryption, post.Content); err != nil {
					log.Printf("  recording draft for %s: %v", entry.Name, err)
				}
			}
		}

		if cr.Generated > 0 {
			path := d.archivePath(opts.DraftsDir, rec.Name)
			if err := agent.SaveArchive(path, a.BuildArchive()); err != nil {
				log.Printf("  saving archive for %s: %v", entry.Name, err)
			} else {
				cr.Archive = path
			}
		}

		r.Generated += cr.Generated
		r.Failed += cr.Failed
		r.Characters = append(r.Characters, cr)
	}

	manifestFile := filepath.Join(opts.DraftsDir, manifestName)
	if err := review.WriteManifest(manifestFile, manifest); err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}
	r.ManifestFile = manifestFile

	if d.store != nil {
		if err := d.store.FinishRun(r.RunID, r.Generated, r.Failed); err != nil {
			log.Printf("finishing run: %v", err)
		}
	}
	return r, nil
}

func (d *Driver) pickScene(title string) (scene.Scene, error) {
	if title != "" {
		return d.library.SceneByTitle(title)
	}
	if len(d.library.Scenes) == 0 {
		return scene.Scene{}, fmt.Errorf("no scenes available")
	}
	return d.library.Scenes[0], nil
}

func (d *Driver) archivePath(draftsDir, character string) string {
	name := fmt.Sprintf("%s_%s.json", character, d.now().Format("20060102T150405"))
	return filepath.Join(draftsDir, name)
}

func postTypes(types []string) []string {
	if len(types) == 0 {
		return []string{"social", "blog"}
	}
	return types
}

// buildScenario combines the scene description, the character's stage
// direction, and their voice notes into the scenario fed to the agent.
func buildScenario(sc scene.Scene, character, voiceNotes string) string {
	parts := []string{strings.TrimSpace(sc.Description)}
	if dir := sc.Direction(character); dir != "" {
		parts = append(parts, dir)
	}
	if voiceNotes != "" {
		parts = append(parts, voiceNotes)
	}
	parts = append(parts, groundingReminder)
	return strings.Join(parts, "\n\n")
}
