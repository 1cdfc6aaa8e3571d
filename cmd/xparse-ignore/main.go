package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/bethropolis/xparse-ignore/internal/app"
	"github.com/bethropolis/xparse-ignore/internal/config"
	"github.com/spf13/cobra"
)

// configuration stores the settings bound to the command line flags.
var configuration = config.Default()

// printVersion handles --version for every command.
func printVersion(command *cobra.Command) bool {
	if !configuration.ShowVersion {
		return false
	}
	fmt.Fprintf(command.OutOrStdout(), "xparse-ignore version %s\n", configuration.Version)
	return true
}

// rootArgs requires exactly one ROOT unless only the version was asked for.
func rootArgs(command *cobra.Command, arguments []string) error {
	if configuration.ShowVersion {
		return cobra.MaximumNArgs(1)(command, arguments)
	}
	return cobra.ExactArgs(1)(command, arguments)
}

// rootMain lists the kept (or ignored) paths below ROOT.
func rootMain(command *cobra.Command, arguments []string) error {
	if printVersion(command) {
		return nil
	}
	configuration.RootDir = arguments[0]
	if err := configuration.Finalize(); err != nil {
		return err
	}

	application := app.New(configuration)
	return application.RunList(command.Context())
}

// rootCommand is the root command.
var rootCommand = &cobra.Command{
	Use:   "xparse-ignore ROOT",
	Short: "List the paths of a tree that survive its .gitignore rules",
	Long: `xparse-ignore walks ROOT, applies every .gitignore it finds together
with the built-in ignore tables and prints the paths that are kept. Use
--ignored to print the ignored paths instead.`,
	Args:         rootArgs,
	RunE:         rootMain,
	SilenceUsage: true,
}

func init() {
	// Disable Cobra's command sorting behavior.
	cobra.EnableCommandSorting = false

	config.BindFlags(rootCommand.PersistentFlags(), configuration)
	flags := rootCommand.Flags()
	flags.SortFlags = false
	config.BindListFlags(flags, configuration)

	// Hide Cobra's completion command.
	rootCommand.CompletionOptions.HiddenDefaultCmd = true

	rootCommand.AddCommand(backupCommand)
}

// run executes the root command with arguments and returns the exit code.
func run(ctx context.Context, arguments []string, stdout, stderr io.Writer) int {
	rootCommand.SetArgs(arguments)
	rootCommand.SetOut(stdout)
	rootCommand.SetErr(stderr)
	if err := rootCommand.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
