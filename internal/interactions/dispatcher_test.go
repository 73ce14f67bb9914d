package interactions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchPing(t *testing.T) {
	d := NewDispatcher()

	// Ping must be served regardless of any other payload content
	tests := []struct {
		name        string
		interaction *Interaction
	}{
		{"bare ping", &Interaction{Type: InteractionPing}},
		{"ping with extra fields", &Interaction{
			Type:    InteractionPing,
			Data:    InteractionData{Name: "verify"},
			GuildID: "1",
			Member:  &Member{User: InvokingUser{Username: "alice"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := d.Dispatch(tt.interaction)
			require.NoError(t, err)
			assert.Equal(t, &Response{Type: ResponsePong}, resp)
		})
	}
}

func TestDispatchCommands(t *testing.T) {
	d := NewDispatcher()

	tests := []struct {
		name        string
		command     string
		wantContent string
	}{
		{
			name:        "verify greets the invoking user",
			command:     "verify",
			wantContent: "Hello alice! Please visit our verification page to complete the process.",
		},
		{
			name:        "roles",
			command:     "roles",
			wantContent: "Here are your available roles...",
		},
		{
			name:        "unknown command gets the generic fallback",
			command:     "ban-everyone",
			wantContent: "Unknown command!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := d.Dispatch(&Interaction{
				Type:   InteractionApplicationCommand,
				Data:   InteractionData{Name: tt.command},
				Member: &Member{User: InvokingUser{ID: "42", Username: "alice"}},
			})
			require.NoError(t, err)

			assert.Equal(t, ResponseChannelMessageWithSource, resp.Type)
			require.NotNil(t, resp.Data)
			assert.Equal(t, tt.wantContent, resp.Data.Content)
			assert.Equal(t, FlagEphemeral, resp.Data.Flags, "command responses are always ephemeral")
		})
	}
}

func TestDispatchComponent(t *testing.T) {
	d := NewDispatcher()

	resp, err := d.Dispatch(&Interaction{
		Type: InteractionMessageComponent,
		Data: InteractionData{CustomID: "role_select"},
	})
	require.NoError(t, err)

	assert.Equal(t, ResponseChannelMessageWithSource, resp.Type)
	assert.Equal(t, "Component interaction handled!", resp.Data.Content)
	assert.Equal(t, FlagEphemeral, resp.Data.Flags)
}

func TestDispatchUnknownType(t *testing.T) {
	d := NewDispatcher()

	for _, typ := range []InteractionType{0, 4, 99} {
		resp, err := d.Dispatch(&Interaction{Type: typ})
		assert.ErrorIs(t, err, ErrUnknownType)
		assert.Nil(t, resp)
	}
}

func TestDispatchCommandWithoutMember(t *testing.T) {
	d := NewDispatcher()

	resp, err := d.Dispatch(&Interaction{
		Type: InteractionApplicationCommand,
		Data: InteractionData{Name: "verify"},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Data.Content, "Hello !")
}
