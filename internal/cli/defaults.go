package cli

import (
	"github.com/spf13/cobra"
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Fetch updated vendor-default letters",
	Long: `Download vendor-default letters whose remote content changed since the last
sync. Customized letters are never touched by this command, even when they
have remote changes; use pull for those.`,
	RunE: runDefaults,
}

func init() {
	rootCmd.AddCommand(defaultsCmd)
}

func runDefaults(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := openEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	report, err := env.syncer.PullDefaults(ctx)
	report.Print(cmd.OutOrStdout())
	return err
}
