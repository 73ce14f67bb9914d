// Package interactions implements Discord's signed interaction webhook:
// Ed25519 signature verification over the raw request body and dispatch
// of ping, slash command and message component events.
package interactions

// InteractionType identifies the kind of inbound interaction.
type InteractionType int

const (
	InteractionPing               InteractionType = 1
	InteractionApplicationCommand InteractionType = 2
	InteractionMessageComponent   InteractionType = 3
)

// ResponseType identifies the kind of interaction response.
type ResponseType int

const (
	ResponsePong                     ResponseType = 1
	ResponseChannelMessageWithSource ResponseType = 4
)

// FlagEphemeral marks a response as visible only to the invoking user.
const FlagEphemeral = 64

// Interaction is the payload pushed by Discord. No field may be trusted
// before the request signature has been verified.
type Interaction struct {
	Type    InteractionType `json:"type"`
	Data    InteractionData `json:"data"`
	Member  *Member         `json:"member"`
	GuildID string          `json:"guild_id"`
}

// InteractionData carries the command name or component identifier.
type InteractionData struct {
	Name     string `json:"name"`
	CustomID string `json:"custom_id"`
}

// Member is the guild member who triggered the interaction.
type Member struct {
	User InvokingUser `json:"user"`
}

// InvokingUser is the subset of the user object the dispatcher needs.
type InvokingUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Response is the body returned to Discord.
type Response struct {
	Type ResponseType  `json:"type"`
	Data *ResponseData `json:"data,omitempty"`
}

// ResponseData is the message portion of a channel-message response.
type ResponseData struct {
	Content string `json:"content"`
	Flags   int    `json:"flags,omitempty"`
}

// username returns the invoking user's name, tolerating absent members
// (interactions from DMs carry a top-level user instead).
func (i *Interaction) username() string {
	if i.Member == nil {
		return ""
	}
	return i.Member.User.Username
}
