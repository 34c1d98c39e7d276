package classify

import (
	"context"
	"fmt"
	"strings"
)

const (
	// DefaultTagInstruction asks for at most MaxTags tags as a JSON object.
	DefaultTagInstruction = `You are a lifesciences news analyzer. Extract the possible news tags from the provide news. Provide maximum 5 tags.
Respond only with a JSON object of the form {"tags": ["tag1", "tag2"]}.`
	MaxTags = 5
)

// JSONSummarizer is satisfied by *summarize.Summarizer.
type JSONSummarizer interface {
	SummarizeJSON(ctx context.Context, text, instruction string, out any) error
}

type Tagger struct {
	summarizer  JSONSummarizer
	instruction string
}

func NewTagger(s JSONSummarizer, instruction string) *Tagger {
	if instruction == "" {
		instruction = DefaultTagInstruction
	}
	return &Tagger{summarizer: s, instruction: instruction}
}

// Tags extracts up to MaxTags non-empty, de-duplicated tags from summary.
func (t *Tagger) Tags(ctx context.Context, summary string) ([]string, error) {
	var resp struct {
		Tags []string `json:"tags"`
	}
	if err := t.summarizer.SummarizeJSON(ctx, summary, t.instruction, &resp); err != nil {
		return nil, fmt.Errorf("failed to extract tags: %w", err)
	}

	tags := make([]string, 0, MaxTags)
	seen := make(map[string]bool)
	for _, tag := range resp.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
		if len(tags) == MaxTags {
			break
		}
	}
	return tags, nil
}
