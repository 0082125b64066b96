package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"ride-booking/internal/models"

	"github.com/spf13/cobra"
)

var askContext string

var askCmd = &cobra.Command{
	Use:   "ask <utterance>",
	Short: "Run one assistant turn against the live fleet and print the result",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var bc models.BookingContext
		if askContext != "" {
			if err := json.Unmarshal([]byte(askContext), &bc); err != nil {
				return fmt.Errorf("--context: %w", err)
			}
		}

		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		res := a.assist.Handle(cmd.Context(), strings.Join(args, " "), bc)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	askCmd.Flags().StringVar(&askContext, "context", "", "Known booking context as JSON")
}
