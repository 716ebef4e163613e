package agent

import (
	"regexp"
	"strings"
	"time"
)

var (
	timestampRe  = regexp.MustCompile(`\[(\d{2}:\d{2})\]`)
	locationRe   = regexp.MustCompile(`campus\.lan/boards/(\w+)`)
	encryptionRe = regexp.MustCompile(`(?i)encryption:\s*(public|encrypted|partial)`)
	contentRe    = regexp.MustCompile(`(?s)user:.*?\n\s*\n(.*?)(?:\n\s*\n\[image:|\z)`)
	imageRe      = regexp.MustCompile(`\[image:\s*(.+?)\]`)
)

// imagePromptPrefix is prepended to every extracted image description to
// form the downstream generation prompt.
const imagePromptPrefix = "Scene from Akima University: "

// parseResponse turns a raw model response into a Post. Every field falls
// back to a documented default independently, so any non-empty response
// yields a post; there is no total-parse-failure state.
func parseResponse(response, characterName, postType, scenario string, now time.Time) *Post {
	hhmm := now.Format("15:04")
	if m := timestampRe.FindStringSubmatch(response); m != nil {
		hhmm = m[1]
	}

	location := "general"
	if m := locationRe.FindStringSubmatch(response); m != nil {
		location = m[1]
	}

	encryption := "public"
	if m := encryptionRe.FindStringSubmatch(response); m != nil {
		encryption = strings.ToLower(m[1])
	}

	content := strings.TrimSpace(response)
	if m := contentRe.FindStringSubmatch(response); m != nil {
		content = m[1]
	}
	// Image tags live in the images list, not in the body.
	content = strings.TrimSpace(imageRe.ReplaceAllString(content, ""))

	var images []ImageRequest
	for _, m := range imageRe.FindAllStringSubmatch(response, -1) {
		desc := strings.TrimSpace(m[1])
		images = append(images, ImageRequest{
			Description: desc,
			Type:        "auto",
			Prompt:      imagePromptPrefix + desc,
		})
	}

	return &Post{
		CharacterName: characterName,
		Content:       content,
		Timestamp:     now.Format("2006-01-02") + " " + hhmm,
		Location:      location,
		Encryption:    encryption,
		PostType:      postType,
		Metadata:      map[string]string{"scenario": scenario},
		Images:        images,
	}
}
