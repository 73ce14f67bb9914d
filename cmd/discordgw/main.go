package main

import (
	"context"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/gameservices/discordgw/internal/commands"
	"github.com/gameservices/discordgw/internal/config"
	"github.com/gameservices/discordgw/internal/discord"
	"github.com/gameservices/discordgw/internal/interactions"
	"github.com/gameservices/discordgw/internal/logger"
	"github.com/gameservices/discordgw/internal/notify"
	"github.com/gameservices/discordgw/internal/obs"
	"github.com/gameservices/discordgw/internal/server"
	"github.com/gameservices/discordgw/internal/store"
	"github.com/gameservices/discordgw/internal/verify"
)

func main() {
	Execute()
}

var (
	guildID      string
	commandsFile string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "discordgw",
	Short: "Discord verification gateway",
	Long: `discordgw authenticates users through Discord's OAuth2 flow and serves
the signed interaction webhook. It records verifications, notifies an
operator channel and registers the bot's slash commands.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the verification gateway server",
	Run:   runServe,
}

var registerCommandsCmd = &cobra.Command{
	Use:   "register-commands",
	Short: "Register the slash command catalog for a guild",
	Run:   runRegisterCommands,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	config.InitFlags()

	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")
	registerCommandsCmd.Flags().StringVar(&guildID, "guild-id", "", "Guild to register commands for")
	registerCommandsCmd.Flags().StringVar(&commandsFile, "commands-file", "", "Path to a yaml command catalog")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(registerCommandsCmd)
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		pterm.Error.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	if err := logger.InitLogger(&cfg.Logging); err != nil {
		pterm.Error.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func runServe(cmd *cobra.Command, args []string) {
	defer func() {
		if r := recover(); r != nil {
			pterm.Error.Printf("\nCaught panic: %v\n", r)
			pterm.Error.Printf("%s\n", debug.Stack())
			os.Exit(2)
		}
	}()

	cfg := loadConfig()
	defer func() { _ = logger.Sync() }()

	obs.Init()

	var srv *server.Server
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Provide(func(c *config.Config) *config.DiscordConfig { return &c.Discord }),
		discord.Module,
		interactions.Module,
		store.Module,
		notify.Module,
		verify.Module,
		server.Module,
		fx.Populate(&srv),
	)
	if err := app.Err(); err != nil {
		pterm.Error.Printf("Error wiring application: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		pterm.Error.Printf("Server error: %v\n", err)
		os.Exit(1)
	}
}

func runRegisterCommands(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	defer func() { _ = logger.Sync() }()

	if guildID == "" {
		pterm.Error.Println("Guild ID is required, you must supply it with --guild-id")
		os.Exit(1)
	}

	catalogPath := commandsFile
	if catalogPath == "" {
		catalogPath = cfg.CommandsFile
	}

	catalog, err := commands.LoadCatalog(catalogPath)
	if err != nil {
		pterm.Error.Printf("Error loading command catalog: %v\n", err)
		os.Exit(1)
	}

	registrar := commands.NewRegistrar(&cfg.Discord)
	registered, err := registrar.Register(cmd.Context(), guildID, catalog)
	if err != nil {
		pterm.Error.Printf("Error registering commands: %v\n", err)
		os.Exit(1)
	}

	pterm.Info.Printfln("Registered %s commands for guild %s.",
		pterm.LightGreen(len(registered)),
		pterm.White(guildID))
	for _, c := range registered {
		pterm.Info.Printfln("  /%s (%s)", c.Name, c.Description)
	}
}
