package classify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want Category
	}{
		{"Clinical", Clinical},
		{"Regulatory", Regulatory},
		{"Commercial", Commercial},
		{"  Regulatory\n", Regulatory},
		{"clinical", Other},
		{"Clinical.", Other},
		{"Clinical, Regulatory", Other},
		{"Category: Commercial", Other},
		{"Other", Other},
		{"", Other},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}

type fakeSummarizer struct {
	reply       string
	jsonReply   string
	err         error
	instruction string
	text        string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text, instruction string) (string, error) {
	f.text, f.instruction = text, instruction
	return f.reply, f.err
}

func (f *fakeSummarizer) SummarizeJSON(ctx context.Context, text, instruction string, out any) error {
	f.text, f.instruction = text, instruction
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.jsonReply), out)
}

func TestClassify(t *testing.T) {
	s := &fakeSummarizer{reply: " Regulatory "}
	c := New(s, "", nil)

	got := c.Classify(context.Background(), "- FDA approved the label expansion")
	assert.Equal(t, Regulatory, got)
	assert.Equal(t, DefaultInstruction, s.instruction)
	assert.Equal(t, "- FDA approved the label expansion", s.text)
}

func TestClassifyModelFailureIsOther(t *testing.T) {
	c := New(&fakeSummarizer{err: errors.New("Error summarizing content: timeout")}, "", nil)
	assert.Equal(t, Other, c.Classify(context.Background(), "summary"))
}

func TestClassifyUnexpectedReply(t *testing.T) {
	c := New(&fakeSummarizer{reply: "This is clearly clinical news."}, "", nil)
	assert.Equal(t, Other, c.Classify(context.Background(), "summary"))
}

func TestTags(t *testing.T) {
	s := &fakeSummarizer{jsonReply: `{"tags": ["FDA", " Oncology ", "", "FDA", "BMS", "Opdivo", "Approval", "Europe"]}`}
	tagger := NewTagger(s, "")

	tags, err := tagger.Tags(context.Background(), "summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"FDA", "Oncology", "BMS", "Opdivo", "Approval"}, tags)
	assert.Equal(t, DefaultTagInstruction, s.instruction)
}

func TestTagsFailure(t *testing.T) {
	tagger := NewTagger(&fakeSummarizer{err: errors.New("boom")}, "")

	tags, err := tagger.Tags(context.Background(), "summary")
	require.Error(t, err)
	assert.Nil(t, tags)
}
