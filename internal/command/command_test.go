package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panechat/internal/chat"
	"panechat/internal/errs"
	"panechat/internal/layout"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"/split", Split{Orient: layout.Vertical}},
		{"/split h", Split{Orient: layout.Horizontal}},
		{"/sp v", Split{Orient: layout.Vertical}},
		{"/close", Close{}},
		{"/q", Close{}},
		{"/clear", Clear{}},
		{"/open Infra Team", Open{Target: "Infra Team"}},
		{"/reply 12", Reply{MessageID: 12}},
		{"/reply 12 on my way", Reply{MessageID: 12, Text: "on my way"}},
		{"/edit 7 fixed typo", Edit{MessageID: 7, Text: "fixed typo"}},
		{"/delete 7", Delete{MessageID: 7}},
		{"/forward 3 Reading Club", Forward{MessageID: 3, Target: "Reading Club"}},
		{"/filter off", ClearFilter{}},
		{"/filter links", SetFilter{Filter: chat.Filter{Kind: chat.FilterLinks}}},
		{"/filter photos", SetFilter{Filter: chat.Filter{Kind: chat.FilterMedia, Media: chat.MediaPhoto}}},
		{"/filter ada", SetFilter{Filter: chat.Filter{Kind: chat.FilterSender, Sender: "ada"}}},
		{"/alias 1001 Grace", Alias{SenderID: 1001, Name: "Grace"}},
		{"/unalias 1001", Unalias{SenderID: 1001}},
		{"  /clear  ", Clear{}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	lines := []string{
		"/frobnicate",
		"/split diagonal",
		"/open",
		"/reply",
		"/reply zero",
		"/reply -4",
		"/edit 7",
		"/delete",
		"/delete 1 2",
		"/forward 3",
		"/filter",
		"/alias 1001",
		"/alias grace Grace",
		"/unalias",
		"plain text",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			_, err := Parse(line)
			require.Error(t, err)
			assert.True(t, errs.Is(errs.InvalidCommand, err))
		})
	}
}
