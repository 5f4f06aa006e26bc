package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ryoungl/health-information-harmonizer/interfaces"
)

// jsonBlockPattern finds the outermost {...} block in a model reply. Models
// occasionally wrap the contract object in prose or code fences despite the
// prompt, so the block is cut out before decoding.
var jsonBlockPattern = regexp.MustCompile(`\{[\s\S]*\}`)

// extractReply is the extraction contract envelope. Entries are decoded one
// by one so a single malformed item cannot discard the rest.
type extractReply struct {
	MentionedDrugs []json.RawMessage `json:"mentioned_drugs"`
}

// extractJSONObject returns the JSON object carried in a model reply, either
// the reply itself or the first {...} block found inside it.
func extractJSONObject(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", errors.New("empty model reply")
	}
	if json.Valid([]byte(trimmed)) && strings.HasPrefix(trimmed, "{") {
		return trimmed, nil
	}
	block := jsonBlockPattern.FindString(trimmed)
	if block == "" {
		return "", errors.New("no JSON object found in model reply")
	}
	return block, nil
}

// parseMentions decodes the extraction contract out of a model reply. Items
// that are not objects or carry neither field are skipped; whitespace-only
// fields are treated as empty.
func parseMentions(content string) ([]interfaces.DrugMention, error) {
	block, err := extractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var reply extractReply
	if err := json.Unmarshal([]byte(block), &reply); err != nil {
		return nil, fmt.Errorf("decoding extraction reply: %w", err)
	}

	mentions := make([]interfaces.DrugMention, 0, len(reply.MentionedDrugs))
	for _, raw := range reply.MentionedDrugs {
		var m interfaces.DrugMention
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		m.Raw = strings.TrimSpace(m.Raw)
		m.Normalized = strings.TrimSpace(m.Normalized)
		if m.Raw == "" && m.Normalized == "" {
			continue
		}
		mentions = append(mentions, m)
	}

	return mentions, nil
}
