package cli

import (
	"github.com/spf13/cobra"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch remotely changed letters into the working directory",
	Long: `Compare every customized letter on the template service against the local
copy and the status ledger. Letters changed only on the remote side are
downloaded; letters changed on both sides are reported as conflicts and
left untouched.`,
	RunE: runPull,
}

func init() {
	rootCmd.AddCommand(pullCmd)
}

func runPull(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := openEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	report, err := env.syncer.Pull(ctx)
	report.Print(cmd.OutOrStdout())
	return err
}
