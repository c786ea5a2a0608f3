package cli

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"jarvis/internal/config"
)

func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <text>...",
		Short: "Resolve an utterance into a command without executing it",
		Long: `Print the intent and extracted parameters for an utterance as JSON. No
handler runs and nothing is logged, which makes this safe for probing the
catalog.

Example:
  jarvis resolve "remind me to stretch in 10 minutes"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := buildResolver(config.Load())
			if err != nil {
				return err
			}

			result := resolver.Resolve(strings.Join(args, " "))
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}
