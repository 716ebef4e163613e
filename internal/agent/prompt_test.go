package agent

import (
	"strings"
	"testing"

	"github.com/benwest/storycast/internal/codex"
)

func testCharacter() codex.CharacterRecord {
	age := 20
	return codex.CharacterRecord{
		Name:           "Kamea",
		Age:            &age,
		Tags:           []string{"student", "organizer"},
		Background:     "Student activist.",
		Motivations:    "Shelter for the families.",
		SocialPosition: "student",
		AestheticLean:  "balanced",
		VoiceNotes:     "Direct, urgent.",
	}
}

func TestBuildPromptLengthBands(t *testing.T) {
	tests := []struct {
		postType string
		want     string
	}{
		{"social", "50-150 words"},
		{"blog", "300-500 words"},
		{"editorial", "400-600 words"},
		{"dm", "100-300 words"},
		{"surveillance", "200-400 words"},
		// Unknown types use the social spec.
		{"podcast", "50-150 words"},
	}

	for _, tt := range tests {
		t.Run(tt.postType, func(t *testing.T) {
			prompt := BuildPrompt(testCharacter(), DefaultVoiceStyle, "scenario", tt.postType)
			if !strings.Contains(prompt, tt.want) {
				t.Errorf("expected length band %q in prompt for %s", tt.want, tt.postType)
			}
		})
	}
}

func TestBuildPromptImageInstruction(t *testing.T) {
	withImage := BuildPrompt(testCharacter(), DefaultVoiceStyle, "scenario", "social")
	if !strings.Contains(withImage, "[image: <description>]") {
		t.Error("expected image instruction for image-eligible post type")
	}

	noImage := BuildPrompt(testCharacter(), DefaultVoiceStyle, "scenario", "dm")
	if strings.Contains(noImage, "[image: <description>]") {
		t.Error("did not expect image instruction for dm posts")
	}
}

func TestBuildPromptIncludesCharacterAndScenario(t *testing.T) {
	scenario := "SCENE: Emergency Board Meeting - the board deferred again."
	prompt := BuildPrompt(testCharacter(), DefaultVoiceStyle, scenario, "blog")

	for _, want := range []string{
		"You are Kamea",
		"Student activist.",
		"Shelter for the families.",
		"student, organizer",
		"Aesthetic lean: balanced",
		scenario,
		"campus.lan/boards/{location}",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}

func TestBuildPromptDefaultsForSparseRecord(t *testing.T) {
	prompt := BuildPrompt(codex.CharacterRecord{Name: "Ghost"}, DefaultVoiceStyle, "s", "social")

	if !strings.Contains(prompt, "Age: Unknown") {
		t.Error("expected 'Age: Unknown' for record without age")
	}
	if !strings.Contains(prompt, "Social Position: student/community") {
		t.Error("expected default social position")
	}
}

func TestSpecForFallback(t *testing.T) {
	if got := SpecFor("nonsense"); got != typeSpecs["social"] {
		t.Errorf("expected social fallback, got %+v", got)
	}
}
