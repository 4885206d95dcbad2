package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/eternalglow/internal/cli"
	"github.com/julianstephens/eternalglow/internal/cli/daily"
	"github.com/julianstephens/eternalglow/internal/cli/profile"
	"github.com/julianstephens/eternalglow/internal/cli/shares"
	"github.com/julianstephens/eternalglow/internal/cli/studio"
	"github.com/julianstephens/eternalglow/internal/cli/system"
	"github.com/julianstephens/eternalglow/internal/cli/tasks"
	"github.com/julianstephens/eternalglow/internal/config"
	"github.com/julianstephens/eternalglow/internal/constants"
	apperrors "github.com/julianstephens/eternalglow/internal/errors"
	"github.com/julianstephens/eternalglow/internal/keyring"
	"github.com/julianstephens/eternalglow/internal/logger"
	"github.com/julianstephens/eternalglow/internal/storage"
	"github.com/julianstephens/eternalglow/internal/storage/postgres"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"State file path (.db or .json) or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use .pgpass or 'key set database'." type:"string" default:"${default_config}"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd     `cmd:"" help:"Initialize eternalglow storage."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive countdown." default:"1"`
	Onboard  profile.OnboardCmd `cmd:"" help:"Set up names, date and style."`
	Status   system.StatusCmd   `cmd:"" help:"Show the countdown."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Profile  profile.ProfileCmd `cmd:"" help:"Change your profile."`
	Options  profile.OptionsCmd `cmd:"" help:"Change display options."`
	Premium  daily.PremiumCmd   `cmd:"" help:"Turn premium on or off."`
	Trial    daily.TrialCmd     `cmd:"" help:"Start the free trial."`
	Daily    daily.DailyCmd     `cmd:"" help:"Show today's image, generating it if needed."`
	Recreate daily.RecreateCmd  `cmd:"" help:"Generate a new image for today (once per day)."`
	Task     tasks.TaskCmd      `cmd:"" help:"Manage the wedding checklist."`
	Share    shares.ShareCmd    `cmd:"" help:"Share today's countdown card."`
	Tips     daily.TipsCmd      `cmd:"" help:"Show today's tips."`
	Letter   studio.LetterCmd   `cmd:"" help:"Write a save-the-date letter."`
	Prompts  studio.PromptsCmd  `cmd:"" help:"Suggest scenes to illustrate."`
	Image    studio.ImageCmd    `cmd:"" help:"Illustrate a scene."`
	Key      struct {
		Set    system.KeySetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Delete system.KeyDeleteCmd `cmd:"" help:"Delete a secret from the OS keyring."`
		Status system.KeyStatusCmd `cmd:"" help:"Show which secrets are configured." default:"1"`
	} `cmd:"" help:"Manage API keys and credentials."`
	Reset system.ResetCmd `cmd:"" help:"Erase all data and start over."`
}

// Commands that manage storage or secrets themselves run without a loaded store.
func needsStore(command string) bool {
	for _, prefix := range []string{"init", "key", "doctor"} {
		if command == prefix || strings.HasPrefix(command, prefix+" ") {
			return false
		}
	}
	return true
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Wedding countdown with daily images, checklist and share cards"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	configPath := expandHome(CLI.Config)
	fromKeyring := false
	if configPath == expandHome(constants.DefaultConfigPath) {
		// A connection string saved with `key set database` replaces the default file.
		if conn := keyring.Lookup(keyring.DatabaseConn); conn != "" {
			configPath = conn
			fromKeyring = true
		}
	}

	configDir := cli.ConfigDir(configPath)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		apperrors.Fatal(err)
	}

	var provider storage.Provider
	if fromKeyring {
		// Keyring secrets may carry a password; they never reach shell history.
		provider = postgres.New(configPath)
	} else if provider, err = cli.NewProvider(configPath); err != nil {
		apperrors.Fatal(err)
	}

	appCtx := &cli.Context{
		Provider: provider,
		Config:   cfg,
	}

	if needsStore(ctx.Command()) {
		if err := appCtx.Open(); err != nil {
			apperrors.Fatal(err)
		}
	}

	runErr := ctx.Run(appCtx)
	closeErr := appCtx.Close()
	if runErr != nil {
		apperrors.Fatal(runErr)
	}
	if closeErr != nil {
		apperrors.Fatal(closeErr)
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	}
	return path
}
