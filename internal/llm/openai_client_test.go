package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coddify/pkg/tutortypes"
)

func TestOpenAIClient_Construction(t *testing.T) {
	client := NewOpenAIClient("test-key", "gpt-4o-mini")

	assert.Equal(t, "openai", client.GetProviderName())
	assert.True(t, client.IsConfigured())
	assert.Nil(t, client.client, "client initializes lazily")

	empty := NewOpenAIClient("", "gpt-4o-mini")
	assert.False(t, empty.IsConfigured())
}

func TestOpenAIClient_BuildParams(t *testing.T) {
	client := NewOpenAIClient("test-key", "gpt-4o-mini")

	req := &tutortypes.GenerationRequest{
		SystemInstruction: "be helpful",
		Messages: []tutortypes.Message{
			{Role: tutortypes.RoleUser, Parts: []tutortypes.MessagePart{{Text: "what is rain?"}}},
			{Role: tutortypes.RoleModel, Parts: []tutortypes.MessagePart{{Text: "condensed water"}}},
			{Role: tutortypes.RoleUser, Parts: []tutortypes.MessagePart{
				{Text: "show me"},
				{InlineData: &tutortypes.AttachmentHandle{Base64Data: "aGk=", MIMEType: "image/png"}},
			}},
		},
	}

	params := client.buildParams(req)

	assert.Equal(t, "gpt-4o-mini", string(params.Model))
	// System message plus the three history entries
	require.Len(t, params.Messages, 4)
}

func TestOpenAIClient_BuildParamsModelOverride(t *testing.T) {
	client := NewOpenAIClient("test-key", "gpt-4o-mini")

	params := client.buildParams(&tutortypes.GenerationRequest{
		Model: "gpt-4o",
		Messages: []tutortypes.Message{
			{Role: tutortypes.RoleUser, Parts: []tutortypes.MessagePart{{Text: "hi"}}},
		},
	})

	assert.Equal(t, "gpt-4o", string(params.Model))
	assert.Len(t, params.Messages, 1, "no system entry without an instruction")
}

func TestFlattenText(t *testing.T) {
	tests := []struct {
		name string
		msg  tutortypes.Message
		want string
	}{
		{
			name: "single text part",
			msg:  tutortypes.Message{Parts: []tutortypes.MessagePart{{Text: "hello"}}},
			want: "hello",
		},
		{
			name: "inline data dropped",
			msg: tutortypes.Message{Parts: []tutortypes.MessagePart{
				{Text: "look: "},
				{InlineData: &tutortypes.AttachmentHandle{Base64Data: "aGk=", MIMEType: "image/png"}},
				{Text: "an image"},
			}},
			want: "look: an image",
		},
		{
			name: "no parts",
			msg:  tutortypes.Message{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, flattenText(tt.msg))
		})
	}
}
