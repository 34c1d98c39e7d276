package splitter

import (
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

// TextSplitter wraps the langchaingo text splitter
type TextSplitter struct {
	splitter textsplitter.TextSplitter
}

// NewRecursiveCharacterTextSplitter creates a new recursive character text splitter
func NewRecursiveCharacterTextSplitter(chunkSize, chunkOverlap int) *TextSplitter {
	ts := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)

	return &TextSplitter{splitter: ts}
}

// SplitText splits text into chunks
func (ts *TextSplitter) SplitText(text string) ([]string, error) {
	return ts.splitter.SplitText(text)
}

// Truncate keeps the leading chunks of text whose combined length stays within
// maxChars, so a long page is cut on a paragraph or sentence boundary rather
// than mid-word. maxChars <= 0 disables truncation.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}

	chunkSize := maxChars / 4
	if chunkSize < 200 {
		chunkSize = maxChars
	}

	chunks, err := NewRecursiveCharacterTextSplitter(chunkSize, 0).SplitText(text)
	if err != nil || len(chunks) == 0 {
		return hardCut(text, maxChars)
	}

	var sb strings.Builder
	for _, chunk := range chunks {
		extra := len(chunk)
		if sb.Len() > 0 {
			extra++
		}
		if sb.Len()+extra > maxChars {
			break
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(chunk)
	}

	if sb.Len() == 0 {
		return hardCut(text, maxChars)
	}
	return sb.String()
}

// hardCut truncates on a rune boundary.
func hardCut(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) > maxChars {
		runes = runes[:maxChars]
	}
	out := string(runes)
	for len(out) > maxChars {
		runes = runes[:len(runes)-1]
		out = string(runes)
	}
	return out
}
