package interactions

import (
	"errors"
	"fmt"
)

// ErrUnknownType is returned for interaction types the dispatcher does
// not support.
var ErrUnknownType = errors.New("unknown interaction type")

// CommandHandler produces the response for one slash command.
type CommandHandler func(i *Interaction) *Response

// Dispatcher routes verified interactions to their handlers by type and
// command name.
type Dispatcher struct {
	commands map[string]CommandHandler
}

// NewDispatcher creates a dispatcher with the built-in command table.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{commands: make(map[string]CommandHandler)}
	d.commands["verify"] = handleVerifyCommand
	d.commands["roles"] = handleRolesCommand
	return d
}

// Dispatch produces the response for a verified interaction. Callers
// must not invoke it before the request signature has been checked.
func (d *Dispatcher) Dispatch(i *Interaction) (*Response, error) {
	switch i.Type {
	case InteractionPing:
		// Liveness check from Discord; answered before anything else and
		// with no downstream dependencies.
		return &Response{Type: ResponsePong}, nil

	case InteractionApplicationCommand:
		if handler, ok := d.commands[i.Data.Name]; ok {
			return handler(i), nil
		}
		// Discord does not expect failures for commands it does not
		// control, so unknown names get a generic ephemeral reply.
		return ephemeralMessage("Unknown command!"), nil

	case InteractionMessageComponent:
		return ephemeralMessage("Component interaction handled!"), nil

	default:
		return nil, ErrUnknownType
	}
}

func handleVerifyCommand(i *Interaction) *Response {
	return ephemeralMessage(fmt.Sprintf(
		"Hello %s! Please visit our verification page to complete the process.",
		i.username(),
	))
}

func handleRolesCommand(i *Interaction) *Response {
	return ephemeralMessage("Here are your available roles...")
}

func ephemeralMessage(content string) *Response {
	return &Response{
		Type: ResponseChannelMessageWithSource,
		Data: &ResponseData{
			Content: content,
			Flags:   FlagEphemeral,
		},
	}
}
