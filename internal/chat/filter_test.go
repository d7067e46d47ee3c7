package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterMatches(t *testing.T) {
	msgs := []Message{
		{Sender: "Ada", Text: "plain text"},
		{Sender: "Grace", Text: "see https://example.com"},
		{Sender: "ada lovelace", Media: MediaPhoto},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{"none matches all", Filter{}, []int{0, 1, 2}},
		{"sender is case-insensitive substring", Filter{Kind: FilterSender, Sender: "ada"}, []int{0, 2}},
		{"media", Filter{Kind: FilterMedia, Media: MediaPhoto}, []int{2}},
		{"links", Filter{Kind: FilterLinks}, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int
			for i, m := range msgs {
				if tt.filter.Matches(m) {
					got = append(got, i)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterDescribe(t *testing.T) {
	assert.Equal(t, "", Filter{}.Describe())
	assert.Equal(t, "sender:Ada", Filter{Kind: FilterSender, Sender: "Ada"}.Describe())
	assert.Equal(t, "media:photo", Filter{Kind: FilterMedia, Media: MediaPhoto}.Describe())
	assert.Equal(t, "links", Filter{Kind: FilterLinks}.Describe())
}

func TestParseMediaKind(t *testing.T) {
	k, ok := ParseMediaKind("photos")
	assert.True(t, ok)
	assert.Equal(t, MediaPhoto, k)

	_, ok = ParseMediaKind("carrier-pigeon")
	assert.False(t, ok)
}
