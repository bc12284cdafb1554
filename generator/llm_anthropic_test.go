package generator

import (
	"testing"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicMessages_Order(t *testing.T) {
	p := Prompt{
		System: "persona",
		User:   "task",
		History: []Message{
			{Role: RoleUser, Content: "earlier question"},
			{Role: RoleAssistant, Content: "earlier answer"},
		},
	}

	msgs := anthropicMessages(p, true)
	require.Len(t, msgs, 4)

	type turn struct {
		role anthropic.ChatRole
		text string
	}
	got := make([]turn, len(msgs))
	for i, m := range msgs {
		require.Len(t, m.Content, 1)
		got[i] = turn{m.Role, *m.Content[0].Text}
	}
	assert.Equal(t, []turn{
		{anthropic.RoleUser, "earlier question"},
		{anthropic.RoleAssistant, "earlier answer"},
		{anthropic.RoleUser, "task"},
		{anthropic.RoleAssistant, "{"},
	}, got)
}

func TestAnthropicMessages_Unstructured(t *testing.T) {
	msgs := anthropicMessages(Prompt{User: "task"}, false)
	require.Len(t, msgs, 1)
	assert.Equal(t, anthropic.RoleUser, msgs[0].Role)
}
