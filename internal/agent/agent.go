// Package agent turns one character's codex record plus a scenario into
// structured in-character posts via an external text-generation backend.
package agent

import (
	"context"
	"log"
	"time"

	"github.com/benwest/storycast/internal/codex"
	"github.com/benwest/storycast/internal/llm"
)

// DefaultVoiceStyle is the baseline writing style label fed into prompts.
const DefaultVoiceStyle = "ben_west"

// Agent embodies a single character. It exclusively owns the posts it
// generates during its lifetime; callers get read-only views.
type Agent struct {
	Character  codex.CharacterRecord
	VoiceStyle string
	MaxTokens  int
	Timeout    time.Duration

	provider llm.Provider
	sleep    func(time.Duration)
	now      func() time.Time

	posts []*Post
	// shortTerm accumulates recent posts for future multi-turn prompting.
	// It is store-only today: nothing feeds it back into prompts yet.
	shortTerm []*Post
}

// NewAgent creates an agent for one character.
func NewAgent(character codex.CharacterRecord, provider llm.Provider) *Agent {
	return &Agent{
		Character:  character,
		VoiceStyle: DefaultVoiceStyle,
		MaxTokens:  1024,
		Timeout:    30 * time.Second,
		provider:   provider,
		sleep:      time.Sleep,
		now:        time.Now,
	}
}

// GeneratePost produces one post for the given scenario and post type.
// Each attempt runs under the per-attempt timeout; failures are retried
// with exponential backoff (1s, 2s, 4s, ...) up to maxRetries attempts
// total. After exhaustion it returns nil rather than an error, so one
// stubborn request never aborts a batch.
func (a *Agent) GeneratePost(ctx context.Context, scenario, postType string, maxRetries int) *Post {
	if a.provider == nil {
		log.Printf("No generation backend for %s", a.Character.Name)
		return nil
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	prompt := BuildPrompt(a.Character, a.VoiceStyle, scenario, postType)

	for attempt := 0; attempt < maxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, a.Timeout)
		response, err := a.provider.Generate(attemptCtx, prompt, a.MaxTokens)
		cancel()

		if err != nil {
			log.Printf("Error generating %s post for %s (attempt %d/%d): %v",
				postType, a.Character.Name, attempt+1, maxRetries, err)
			if attempt < maxRetries-1 {
				a.sleep(time.Duration(1<<attempt) * time.Second)
			}
			continue
		}

		post := parseResponse(response, a.Character.Name, postType, scenario, a.now())
		a.posts = append(a.posts, post)
		a.shortTerm = append(a.shortTerm, post)
		return post
	}
	return nil
}

// Posts returns every post generated by this agent, in order.
func (a *Agent) Posts() []*Post {
	return a.posts
}

// BuildArchive packages the agent's posts for durable storage.
func (a *Agent) BuildArchive() *Archive {
	return &Archive{
		Character:   a.Character.Name,
		GeneratedAt: a.now().Format(time.RFC3339),
		Posts:       a.posts,
		TotalPosts:  len(a.posts),
	}
}
