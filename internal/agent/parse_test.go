package agent

import (
	"strings"
	"testing"
	"time"
)

var parseNow = time.Date(2025, 6, 3, 16, 45, 0, 0, time.UTC)

func TestParseResponseFullTemplate(t *testing.T) {
	response := "[14:23] campus.lan/boards/south\nencryption: partial\nuser: kamea\n\nThey turned us away again. [image: families under tarps, south field]"

	post := parseResponse(response, "Kamea", "social", "board meeting", parseNow)

	if !strings.HasSuffix(post.Timestamp, "14:23") {
		t.Errorf("expected timestamp ending 14:23, got %q", post.Timestamp)
	}
	if post.Location != "south" {
		t.Errorf("expected location 'south', got %q", post.Location)
	}
	if post.Encryption != "partial" {
		t.Errorf("expected encryption 'partial', got %q", post.Encryption)
	}
	if post.Content != "They turned us away again." {
		t.Errorf("unexpected content: %q", post.Content)
	}
	if len(post.Images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(post.Images))
	}
	if post.Images[0].Description != "families under tarps, south field" {
		t.Errorf("unexpected image description: %q", post.Images[0].Description)
	}
	if !strings.Contains(post.Images[0].Prompt, "families under tarps, south field") {
		t.Errorf("expected prompt to contain description, got %q", post.Images[0].Prompt)
	}
	if post.Metadata["scenario"] != "board meeting" {
		t.Errorf("expected scenario metadata, got %v", post.Metadata)
	}
}

func TestParseResponseDefaults(t *testing.T) {
	post := parseResponse("just some freeform text with no template markers", "Chris", "dm", "s", parseNow)

	if post.Location != "general" {
		t.Errorf("expected default location 'general', got %q", post.Location)
	}
	if post.Encryption != "public" {
		t.Errorf("expected default encryption 'public', got %q", post.Encryption)
	}
	// No bracketed time: falls back to the wall clock.
	want := parseNow.Format("2006-01-02 15:04")
	if post.Timestamp != want {
		t.Errorf("expected timestamp %q, got %q", want, post.Timestamp)
	}
	if post.Content != "just some freeform text with no template markers" {
		t.Errorf("expected whole-response fallback, got %q", post.Content)
	}
}

func TestParseResponseMultipleImages(t *testing.T) {
	response := "user: eli\n\nNetwork is up.\n\n[image: server room at night] [image: mesh antenna on the roof]"
	post := parseResponse(response, "Eli", "blog", "s", parseNow)

	if len(post.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(post.Images))
	}
	for _, img := range post.Images {
		if img.Type != "auto" {
			t.Errorf("expected image type 'auto', got %q", img.Type)
		}
		if !strings.Contains(img.Prompt, img.Description) {
			t.Errorf("prompt %q does not contain description %q", img.Prompt, img.Description)
		}
	}
	if post.Content != "Network is up." {
		t.Errorf("unexpected content: %q", post.Content)
	}
}

func TestParseResponseNoImagesIsAbsent(t *testing.T) {
	post := parseResponse("user: sarah\n\nNo attachments here.", "Sarah", "editorial", "s", parseNow)
	if post.Images != nil {
		t.Errorf("expected absent images, got %v", post.Images)
	}
}

func TestParseResponseContentStopsAtImageBlock(t *testing.T) {
	response := "user: tria\n\nFirst paragraph.\n\nSecond paragraph.\n\n[image: crowd outside the hall]"
	post := parseResponse(response, "Tria", "blog", "s", parseNow)

	if post.Content != "First paragraph.\n\nSecond paragraph." {
		t.Errorf("unexpected content: %q", post.Content)
	}
	if len(post.Images) != 1 {
		t.Errorf("expected 1 image, got %d", len(post.Images))
	}
}

func TestParseResponseUnrecognizedEncryption(t *testing.T) {
	post := parseResponse("encryption: quantum\nuser: randy\n\nMoving the families now.", "Randy", "social", "s", parseNow)
	if post.Encryption != "public" {
		t.Errorf("expected fallback encryption 'public', got %q", post.Encryption)
	}
}

func TestParseResponseAlwaysUnapproved(t *testing.T) {
	post := parseResponse("user: amir\n\nEight rooms ready.", "Amir", "social", "s", parseNow)
	if post.Approved {
		t.Error("posts must start unapproved")
	}
	if post.Score != 0 {
		t.Errorf("expected score 0, got %f", post.Score)
	}
}
