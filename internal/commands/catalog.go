// Package commands registers the application's slash commands with
// Discord. Registration is an administrative one-shot, run from the CLI
// rather than at server startup.
package commands

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Command is one slash command definition as Discord's API expects it.
type Command struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Type        int    `json:"type" yaml:"type"`
}

// chatInputCommand is the CHAT_INPUT application command type.
const chatInputCommand = 1

// DefaultCatalog returns the built-in command set.
func DefaultCatalog() []Command {
	return []Command{
		{Name: "verify", Description: "Start the verification process", Type: chatInputCommand},
		{Name: "roles", Description: "View available roles", Type: chatInputCommand},
		{Name: "status", Description: "Check bot status", Type: chatInputCommand},
	}
}

// LoadCatalog reads a yaml command catalog, falling back to the built-in
// catalog when no path is given.
func LoadCatalog(path string) ([]Command, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read command catalog: %w", err)
	}

	var catalog []Command
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse command catalog: %w", err)
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("command catalog %s is empty", path)
	}

	for i := range catalog {
		if catalog[i].Name == "" {
			return nil, fmt.Errorf("command catalog entry %d has no name", i)
		}
		if catalog[i].Type == 0 {
			catalog[i].Type = chatInputCommand
		}
	}
	return catalog, nil
}
