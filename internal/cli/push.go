package cli

import (
	"github.com/spf13/cobra"
)

var pushCmd = &cobra.Command{
	Use:   "push [letter ...]",
	Short: "Upload locally edited letters to the template service",
	Long: `Upload the named letters (paths relative to the letters directory) to the
template service. Without arguments, an interactive picker offers every
letter whose local content diverged from the last sync.

A letter the remote side changed since the last sync is refused with a
conflict; pull it first.`,
	RunE: runPush,
}

func init() {
	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := openEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	paths := args
	if len(paths) == 0 {
		modified, err := env.syncer.LocallyModified(ctx)
		if err != nil {
			return err
		}
		if len(modified) == 0 {
			cmd.Println("No locally modified letters to push.")
			return nil
		}
		paths, err = selectLetters(modified)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			cmd.Println("Nothing selected.")
			return nil
		}
	}

	report, err := env.syncer.Push(ctx, paths)
	report.Print(cmd.OutOrStdout())
	return err
}
