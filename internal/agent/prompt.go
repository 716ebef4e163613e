package agent

import (
	"fmt"
	"strings"

	"github.com/benwest/storycast/internal/codex"
)

// baselineStyle is the fixed stylistic baseline every character prompt
// starts from, regardless of who is speaking.
const baselineStyle = `You write with wit, personality, and vulnerability. You critique power structures explicitly.
You propose solutions while maintaining healthy skepticism. Show three-dimensional complexity.
Balance earnestness with sharp observation. Vulnerability and personality evident in every piece.`

const personaPrompt = `You are %s from "Mandate: The Monkey Flower Experiment".

%s

YOUR CHARACTER:
- Background: %s
- Age: %s
- Motivations: %s
- Tags/Role: %s
- Social Position: %s

VOICE CHARACTERISTICS:
- Aesthetic lean: %s
- Known for: %s
- Style: %s

SETTING CONTEXT:
- You exist in an isolated campus (Akima University)
- Everything is networked but surveillance-watched
- Community is divided on refugee protection
- There's a storm both literal and figurative
- Technology is salvaged/sustainable hybrid
- Your posts appear on campus LAN boards

GENRE:
- 60%% Cyberpunk: Encryption, resistance, surveillance, power critique
- 40%% Solarpunk: Community action, solutions, hope, nature-tech integration
- Cypherpunk vocabulary: netrunner, ICE, cyberspace, chrome, jacking, black markets
- Solarpunk vocabulary: mesh networks, permaculture, bioregion, cooperative, sustainable

INSTRUCTIONS - GROUNDED IN SPECIFIC EVENTS:
1. ONLY comment on what you personally witnessed or directly experienced
2. Name specific actions, decisions, moments - not abstractions
3. "The board rejected emergency shelter" > "Systems of oppression"
4. "I watched them turn away three families" > "Power structures are cruel"
5. Reference specific conversations you overheard, decisions you saw, people involved
6. Ground vulnerability in concrete consequences, not philosophical reflection
7. Show wit through observation of specific moments, not general commentary
8. Feel like a witness reporting what happened, not a philosopher

CRITICAL: THIS BOOK IS MADE OF YOUR POSTS. Each post is a story moment.
- You are reporting events YOU EXPERIENCED
- Name specific people, locations, decisions, times
- Posts should advance the plot through your eyes
- Readers will build the full story from character posts
- Generic philosophy helps no one. Concrete moments build narrative.`

const imageInstruction = `

IF YOUR POST INCLUDES AN IMAGE:
- Describe what photo/screenshot would accompany this
- Examples: "Security cam footage from north entrance, 14:23" or "Photo of families camping in south field"
- Add: [image: <description>] at the end

The actual image will be generated separately from your description.`

const requestPrompt = `Generate a %s post for the campus LAN network.

POST TYPE SPECIFICATIONS:
- Length: %s
- Purpose: %s

SCENARIO/CONTEXT:
%s

REQUIRED OUTPUT FORMAT:
` + "```" + `
[timestamp] HH:MM
network_location: campus.lan/boards/{location}
encryption: {public|encrypted|partial}
user: {your_handle}

{post_content - %s}

{optional: attachments or metadata}
` + "```" + `

CRITICAL REQUIREMENTS:
1. This is your actual witnessed account of events
2. Include specific names, times, locations, decisions
3. Write like you were there - report what you saw
4. Keep consistent with character voice and position%s

Generate authentic, voice-consistent post now:`

// buildPersonaPrompt renders the "who is speaking" block for a character.
func buildPersonaPrompt(rec codex.CharacterRecord, voiceStyle string) string {
	age := "Unknown"
	if rec.Age != nil {
		age = fmt.Sprintf("%d", *rec.Age)
	}
	background := orDefault(rec.Background, "Unknown")
	motivations := orDefault(rec.Motivations, "Unknown")
	socialPosition := orDefault(rec.SocialPosition, "student/community")
	aestheticLean := orDefault(rec.AestheticLean, "balanced")
	voiceNotes := orDefault(rec.VoiceNotes, "Being authentic and thoughtful")

	return fmt.Sprintf(personaPrompt,
		rec.Name,
		baselineStyle,
		background,
		age,
		motivations,
		strings.Join(rec.Tags, ", "),
		socialPosition,
		aestheticLean,
		voiceNotes,
		voiceStyle,
	)
}

// buildRequestPrompt renders the scenario-specific instruction block for
// one post type.
func buildRequestPrompt(scenario, postType string) string {
	spec := SpecFor(postType)

	image := ""
	if spec.IncludeImage {
		image = imageInstruction
	}

	return fmt.Sprintf(requestPrompt,
		postType,
		spec.Length,
		spec.Description,
		scenario,
		spec.Length,
		image,
	)
}

// BuildPrompt assembles the full generation request: persona block plus
// scenario-specific instructions.
func BuildPrompt(rec codex.CharacterRecord, voiceStyle, scenario, postType string) string {
	return buildPersonaPrompt(rec, voiceStyle) + "\n\n" + buildRequestPrompt(scenario, postType)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
