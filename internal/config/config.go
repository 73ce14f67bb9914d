package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("discordgw version %s, commit %s, built at %s", version, commit, date)
}

type Config struct {
	Server       ServerConfig  `mapstructure:"server"`
	Logging      LoggingConfig `mapstructure:"logging"`
	Discord      DiscordConfig `mapstructure:"discord"`
	Notify       NotifyConfig  `mapstructure:"notify"`
	Store        StoreConfig   `mapstructure:"store"`
	CommandsFile string        `mapstructure:"commands_file"`
}

type ServerConfig struct {
	Port    int    `mapstructure:"port"`
	Host    string `mapstructure:"host"`
	Timeout string `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	Color             bool   `mapstructure:"color"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console"`
}

// DiscordConfig holds the application credentials issued by the Discord
// developer portal. PublicKey is the hex-encoded Ed25519 key used to
// verify interaction webhooks.
type DiscordConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	BotToken     string `mapstructure:"bot_token"`
	PublicKey    string `mapstructure:"public_key"`
	// BaseURL overrides the origin used to build the OAuth redirect URI.
	// When empty the origin of the inbound request is used, which keeps
	// the redirect URI correct across deployment environments.
	BaseURL string `mapstructure:"base_url"`
}

// NotifyConfig configures the operator notification channel. An empty
// WebhookURL disables notifications silently.
type NotifyConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

// StoreConfig configures verification persistence. An empty DSN selects
// the log-only store.
type StoreConfig struct {
	DSN string `mapstructure:"dsn"`
}

// InitFlags initializes command line flags (without parsing)
func InitFlags() {
	pflag.String("commands-file", "", "Path to the slash command catalog file")
	// Note: no pflag.Parse() here as it's called in main.go
}

func Load() (*Config, error) {
	viper.Reset() // Ensure clean state

	viper.SetEnvPrefix("DISCORDGW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}

	// Load ./config.yaml first
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.AddConfigPath("/etc/discordgw")

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional; everything can come from the environment
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Loading additional config files
	if _, err := os.Stat("/config/config.yaml"); err == nil {
		viper.SetConfigFile("/config/config.yaml")
		// Merge /config/config.yaml (overrides overlapping keys)
		if err := viper.MergeInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if commandsFile := viper.GetString("commands-file"); commandsFile != "" {
		config.CommandsFile = commandsFile
	}

	if config.Server.Port == 0 {
		config.Server.Port = 3000
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return &config, nil
}

// Validate checks that the credentials required to serve traffic are
// present. Optional features (notify, store) are allowed to be absent.
func (c *Config) Validate() error {
	if c.Discord.ClientID == "" {
		return fmt.Errorf("discord.client_id is required, set it in the config or via DISCORDGW_DISCORD_CLIENT_ID")
	}
	if c.Discord.ClientSecret == "" {
		return fmt.Errorf("discord.client_secret is required, set it in the config or via DISCORDGW_DISCORD_CLIENT_SECRET")
	}
	if c.Discord.PublicKey == "" {
		return fmt.Errorf("discord.public_key is required, set it in the config or via DISCORDGW_DISCORD_PUBLIC_KEY")
	}
	return nil
}
