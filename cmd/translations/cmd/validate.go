package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var validateNamespace string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report translation completeness",
	Long: `Prints the completeness report. With required-key enforcement on, the
command fails when a required key lacks a Nepali translation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.container.TranslationService().ValidateTranslationCompleteness(cmd.Context(), validateNamespace)
		if err != nil {
			return err
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return err
		}
		if a.container.SettingsState().EnforceRequired() && len(report.MissingRequired) > 0 {
			return fmt.Errorf("%d required keys lack a Nepali translation", len(report.MissingRequired))
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateNamespace, "namespace", "", "limit the report to one namespace")
	rootCmd.AddCommand(validateCmd)
}
