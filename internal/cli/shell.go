package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/lettersync/cli/internal/errors"
	"github.com/lettersync/cli/internal/interfaces"
	"github.com/lettersync/cli/internal/project"
	"github.com/lettersync/cli/internal/sync"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive session that keeps the gateway connection open",
	Long: `Start an interactive shell that connects to the template service once and
runs pull, defaults, push, and test commands against the same session.
This avoids paying the session setup cost for every command.`,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := openEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	return runShellLoop(ctx, env, cmd.OutOrStdout())
}

// runShellLoop reads commands with readline until exit or EOF. Gateway session
// failures offer a restart-and-retry prompt instead of terminating the shell.
func runShellLoop(ctx context.Context, env *environment, out io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "lettersync> ",
		HistoryFile:     filepath.Join(env.projectRoot, project.ConfigDirName, "shell_history"),
		AutoComplete:    shellCompleter(env),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return errors.NewGenericError("failed to initialize readline", err)
	}
	defer rl.Close()

	printShellHeader(out, env)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Fprintln(out, "Bye!")
				return nil
			}
			return errors.NewGenericError("error reading input", err)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" || fields[0] == "quit" {
			fmt.Fprintln(out, "Bye!")
			return nil
		}

		if err := runShellCommand(ctx, env, out, fields[0], fields[1:]); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

// runShellCommand dispatches one shell command line. A session failure is
// retried once after the user agrees to restart the gateway.
func runShellCommand(ctx context.Context, env *environment, out io.Writer, command string, args []string) error {
	err := dispatchShellCommand(ctx, env, out, command, args)
	if !errors.IsSession(err) {
		return err
	}

	restart, promptErr := selectRecovery(fmt.Sprintf("Session failed (%v). How to proceed?", err))
	if promptErr != nil || !restart {
		return err
	}
	if restartErr := env.session.Restart(ctx); restartErr != nil {
		return restartErr
	}
	return dispatchShellCommand(ctx, env, out, command, args)
}

func dispatchShellCommand(ctx context.Context, env *environment, out io.Writer, command string, args []string) error {
	switch command {
	case "pull":
		report, err := env.syncer.Pull(ctx)
		report.Print(out)
		return err

	case "defaults":
		report, err := env.syncer.PullDefaults(ctx)
		report.Print(out)
		return err

	case "push":
		paths := args
		if len(paths) == 0 {
			modified, err := env.syncer.LocallyModified(ctx)
			if err != nil {
				return err
			}
			if len(modified) == 0 {
				fmt.Fprintln(out, "No locally modified letters to push.")
				return nil
			}
			paths, err = selectLetters(modified)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				fmt.Fprintln(out, "Nothing selected.")
				return nil
			}
		}
		report, err := env.syncer.Push(ctx, paths)
		report.Print(out)
		return err

	case "test":
		specs := args
		if len(specs) == 0 {
			specs = []string{"*.xml"}
		}
		runner := env.renderRunner()
		var outcomes []sync.RenderOutcome
		for _, spec := range specs {
			pattern, languages := parseRenderSpec(spec)
			documents, err := globDocuments(env.testDataDir(), pattern)
			if err != nil {
				return err
			}
			batch, err := runner.Run(ctx, documents, languages)
			outcomes = append(outcomes, batch...)
			if err != nil {
				sync.PrintOutcomes(out, outcomes)
				return err
			}
		}
		sync.PrintOutcomes(out, outcomes)
		return nil

	case "status":
		return printShellStatus(ctx, env, out)

	case "help":
		printShellHelp(out)
		return nil

	default:
		fmt.Fprintf(out, "Unknown command %q. Type 'help' for the command list.\n", command)
		return nil
	}
}

func printShellHeader(out io.Writer, env *environment) {
	mode := "local gateway container"
	if env.config.Gateway.Mode == interfaces.ModeRemote {
		mode = env.config.Gateway.URL
	}

	fmt.Fprintln(out, "lettersync interactive shell")
	fmt.Fprintf(out, "Project:  %s\n", env.projectRoot)
	fmt.Fprintf(out, "Gateway:  %s\n", mode)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands: pull, defaults, push, test, status, help, exit")
	fmt.Fprintln(out)
}

func printShellStatus(ctx context.Context, env *environment, out io.Writer) error {
	status, err := env.session.Status(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Gateway:   %s\n", env.session.BaseURL())
	fmt.Fprintf(out, "Running:   %t\n", status.Running)
	fmt.Fprintf(out, "Healthy:   %t\n", status.Healthy)

	lastSync, err := env.ledger.LastSync()
	if err != nil {
		return err
	}
	if lastSync.IsZero() {
		fmt.Fprintln(out, "Last sync: never")
	} else {
		fmt.Fprintf(out, "Last sync: %s\n", lastSync.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func printShellHelp(out io.Writer) {
	fmt.Fprintln(out, "pull              fetch remotely changed letters")
	fmt.Fprintln(out, "defaults          fetch updated vendor-default letters")
	fmt.Fprintln(out, "push [letter...]  upload local edits (picker when no arguments)")
	fmt.Fprintln(out, "test [doc[@lang,...] ...]  render test documents")
	fmt.Fprintln(out, "status            show gateway and ledger status")
	fmt.Fprintln(out, "exit              leave the shell")
}

// shellCompleter completes command names, letter paths for push, and test
// document names for test.
func shellCompleter(env *environment) *readline.PrefixCompleter {
	letters := func(string) []string {
		paths, err := env.repo.List()
		if err != nil {
			return nil
		}
		return paths
	}

	documents := func(string) []string {
		entries, err := os.ReadDir(env.testDataDir())
		if err != nil {
			return nil
		}
		var names []string
		for _, entry := range entries {
			if !entry.IsDir() {
				names = append(names, entry.Name())
			}
		}
		return names
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("pull"),
		readline.PcItem("defaults"),
		readline.PcItem("push", readline.PcItemDynamic(letters)),
		readline.PcItem("test", readline.PcItemDynamic(documents)),
		readline.PcItem("status"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
	)
}
