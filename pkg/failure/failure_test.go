package failure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailureMessages(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		prefix string
	}{
		{"fetch", Fetch(errors.New("connection refused")), "Error fetching text: connection refused"},
		{"parse", Parse(errors.New("no paragraphs")), "Error fetching text: no paragraphs"},
		{"model", Model(errors.New("rate limited")), "Error summarizing content: rate limited"},
		{"search", Search(errors.New("bad key")), "Error searching: bad key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.prefix, tt.err.Error())
		})
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("article 3: %w", Fetch(context.DeadlineExceeded))

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, FetchFailure, kind)
	assert.True(t, Is(err, FetchFailure))
	assert.False(t, Is(err, ModelFailure))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestKindOfPlainError(t *testing.T) {
	_, ok := KindOf(errors.New("Error fetching text: looks like a failure but is not"))
	assert.False(t, ok)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "fetch", FetchFailure.String())
	assert.Equal(t, "model", ModelFailure.String())
	assert.True(t, strings.HasPrefix(Kind(99).String(), "unknown"))
}
