package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	api "github.com/ffajobchange/ffa-status/internal/api"
	"github.com/ffajobchange/ffa-status/internal/config"
	"github.com/ffajobchange/ffa-status/internal/countdown"
	"github.com/ffajobchange/ffa-status/internal/lookup"
	"github.com/ffajobchange/ffa-status/internal/storage"
	"github.com/ffajobchange/ffa-status/internal/tui"
)

var errNoCharacterID = errors.New("no character ID given and none remembered from a previous lookup")

//nolint:gochecknoglobals // replaced in tests.
var newController = countdown.NewController

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Used for flags.
	storageFile = storage.DefaultPath
	configFile  string
	verbose     bool
	jsonOutput  bool
	tuiMode     bool
	baseURL     string
	shortWait   int
	timeout     time.Duration

	rootCmd = &cobra.Command{
		Use:   "ffa-status",
		Short: "Check a character's current job status from the ffajobchange backend.",
		Long:  `This tool asks the status backend for a character's current job and status. While the lookup runs it shows a short countdown; if the backend has not answered by then it is probably waking up, and a longer countdown begins.`,
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to avoid polluting stdout, especially for --json output.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format instead of rich text")
	rootCmd.PersistentFlags().
		StringVar(&configFile, "config", config.DefaultPath, "Path to the YAML config file")

	statusCmd.Flags().BoolVar(&tuiMode, "tui", false, "Show the countdown in an interactive TUI")
	statusCmd.Flags().StringVar(&baseURL, "base-url", "", "Override the status backend base URL")
	statusCmd.Flags().IntVar(&shortWait, "wait", 0, "Override the initial countdown length in seconds")
	statusCmd.Flags().DurationVar(&timeout, "timeout", 0, "Optional: bound each request (e.g. 2m); 0 disables")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = api.BuildVersion
	rootCmd.Annotations = map[string]string{"commit": api.BuildCommit, "date": api.BuildDate}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}

func setLogLevel() {
	if (jsonOutput || tuiMode) && !verbose {
		logrus.SetLevel(logrus.WarnLevel)
	} else if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL = baseURL
	}
	if cmd.Flags().Changed("wait") {
		cfg.ShortWaitSeconds = shortWait
	}
	if cmd.Flags().Changed("timeout") {
		cfg.RequestTimeout = timeout
	}
	return cfg, cfg.Validate()
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var statusCmd = &cobra.Command{
	Use:   "status [CHARACTER_ID]",
	Short: "Look up a character's status. [Defaults to the last character looked up]",
	Long:  "Look up a character's current job and status. If no CHARACTER_ID is given, the one from the previous lookup is used.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Check for conflicting flags
		if jsonOutput && tuiMode {
			logrus.Fatal("Cannot use --json and --tui flags together")
		}
		setLogLevel()

		if err := runStatus(cmd, args); err != nil {
			logrus.Fatal(err)
		}
	},
}

// runStatus performs one lookup and prints it. The countdown is closed
// before it returns, whatever the outcome.
func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := storage.NewStorage(storageFile, cfg.HistoryLimit)
	if err != nil {
		return fmt.Errorf("unable to open storage: %w", err)
	}

	characterID := st.Data.LastCharacterID
	if len(args) == 1 {
		characterID = args[0]
	}
	if characterID == "" {
		return errNoCharacterID
	}

	cl, err := api.NewClient(api.WithBaseURL(cfg.BaseURL), api.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return err
	}
	ctl := newController(countdown.WithExtensionSeconds(cfg.ExtensionSeconds))
	defer ctl.Close()
	runner := lookup.NewRunner(cl, ctl,
		lookup.WithShortWait(cfg.ShortWaitSeconds),
		lookup.WithRecorder(st),
	)

	var res lookup.Result
	if tuiMode {
		res, err = tui.Run(cmd.Context(), runner, characterID)
		if errors.Is(err, tui.ErrQuit) {
			return nil
		}
	} else {
		unbind := ctl.OnChange(func(s countdown.State) {
			if s.Visible && s.Phase != countdown.PhaseFinished {
				logrus.Infof("%s %ds", runner.Message().Load(), s.Remaining)
			}
		})
		res, err = runner.Run(cmd.Context(), characterID)
		unbind()
	}
	if err != nil {
		return err
	}
	return lookup.PrintResult(cmd.OutOrStdout(), res, jsonOutput)
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past lookups",
	Long:  "Show past status lookups, newest first.",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		st, err := storage.NewStorage(storageFile, 0)
		if err != nil {
			logrus.Fatal(err)
		}
		if jsonOutput {
			if err := printJSON(st.Data.Lookups); err != nil {
				logrus.Fatal(err)
			}
			return
		}
		lookup.PrintHistory(os.Stdout, st.Data.Lookups, time.Now())
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear past lookups",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		st, err := storage.NewStorage(storageFile, 0)
		if err != nil {
			logrus.Fatal(err)
		}
		if err := st.Clear(); err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintln(os.Stdout, "History cleared")
	},
}

func main() {
	Execute()
}
