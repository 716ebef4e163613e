package codex

import "strings"

// Relationship is a best-effort view of who a character knows and where
// they stand ideologically. It is derived from the codex on demand and
// not persisted with it.
type Relationship struct {
	Knows          []string `json:"knows"`
	SocialPosition string   `json:"social_position"`
	Allegiances    []string `json:"allegiances"`
}

// allegiance tag indicators, matched against a character's tags.
var allegianceRules = []struct {
	label      string
	indicators []string
}{
	{"cypherpunk", []string{"rebel", "security", "resistance", "crypto", "hacker"}},
	{"solarpunk", []string{"organizer", "community", "sustainability", "ethics"}},
	{"administration", []string{"admin", "faculty", "staff", "president", "board"}},
}

// RelationshipMap builds the character relationship graph from
// connections, social position, and inferred allegiances.
func (c *Codex) RelationshipMap() map[string]Relationship {
	relationships := make(map[string]Relationship, len(c.Characters))
	for name, rec := range c.Characters {
		relationships[name] = Relationship{
			Knows:          rec.Connections,
			SocialPosition: rec.SocialPosition,
			Allegiances:    inferAllegiances(rec.Tags),
		}
	}
	return relationships
}

// inferAllegiances maps a character's tags to ideological labels. A
// character may carry zero, one, or several allegiances; the rules are
// not mutually exclusive.
func inferAllegiances(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	lower := make(map[string]bool, len(tags))
	for _, t := range tags {
		lower[strings.ToLower(t)] = true
	}

	var allegiances []string
	for _, rule := range allegianceRules {
		for _, indicator := range rule.indicators {
			if lower[indicator] {
				allegiances = append(allegiances, rule.label)
				break
			}
		}
	}
	return allegiances
}
