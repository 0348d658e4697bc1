package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lettersync/cli/internal/errors"
	"github.com/lettersync/cli/internal/sync"
	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test [document[@lang,...] ...]",
	Short: "Render test documents through their letters",
	Long: `Render test documents from the test-data directory through the letters they
exercise, one rendering per document and language. Rendered screenshots
are stored under the project's screenshots directory.

Each argument is a file pattern relative to the test-data directory,
optionally suffixed with a comma-separated language list:

  lettersync test overdue.xml
  lettersync test 'invoice*.xml@en,no'

Without arguments, every *.xml document is rendered in English.`,
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := openEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

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
			sync.PrintOutcomes(cmd.OutOrStdout(), outcomes)
			return err
		}
	}

	sync.PrintOutcomes(cmd.OutOrStdout(), outcomes)
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			return errors.NewRenderError("one or more renderings failed", nil)
		}
	}
	return nil
}

// parseRenderSpec splits "pattern@lang1,lang2" into the document pattern and
// its language list. Without a suffix the document renders in English.
func parseRenderSpec(spec string) (string, []string) {
	pattern, suffix, found := strings.Cut(spec, "@")
	if !found {
		return spec, []string{"en"}
	}

	var languages []string
	for _, language := range strings.Split(suffix, ",") {
		language = strings.TrimSpace(language)
		if language != "" {
			languages = append(languages, language)
		}
	}
	if len(languages) == 0 {
		languages = []string{"en"}
	}
	return pattern, languages
}

// globDocuments expands a pattern inside the test-data directory.
func globDocuments(testDataDir string, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(testDataDir, pattern))
	if err != nil {
		return nil, errors.NewGenericError(fmt.Sprintf("invalid document pattern %q", pattern), err)
	}
	if len(matches) == 0 {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no test documents match %q in %s", pattern, testDataDir))
	}
	sort.Strings(matches)
	return matches, nil
}
