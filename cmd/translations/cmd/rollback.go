package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	translationscmd "github.com/goliatone/go-translations/internal/commands/translations"
	"github.com/goliatone/go-translations/internal/identity"
	"github.com/goliatone/go-translations/internal/translations"
)

var (
	rollbackKey     string
	rollbackVersion int
	rollbackReason  string
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Restore a key to an earlier version",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		var restored translations.TranslationKey
		if err := a.container.RollbackHandler().Execute(cmd.Context(), translationscmd.RollbackTranslationCommand{
			Key:     rollbackKey,
			Version: rollbackVersion,
			ActorID: identity.SystemActorID(),
			Reason:  rollbackReason,
			Result:  &restored,
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s restored to version %d\n", restored.Key, rollbackVersion)
		return nil
	},
}

func init() {
	rollbackCmd.Flags().StringVar(&rollbackKey, "key", "", "translation key")
	rollbackCmd.Flags().IntVar(&rollbackVersion, "version", 0, "history version to restore")
	rollbackCmd.Flags().StringVar(&rollbackReason, "reason", "", "optional reason recorded in history")
	_ = rollbackCmd.MarkFlagRequired("key")
	_ = rollbackCmd.MarkFlagRequired("version")
	rootCmd.AddCommand(rollbackCmd)
}
