package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	translationscmd "github.com/goliatone/go-translations/internal/commands/translations"
	"github.com/goliatone/go-translations/internal/identity"
	"github.com/goliatone/go-translations/internal/translations"
)

var (
	exportFormat string
	exportOut    string
	importFormat string
	importFile   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every translation key as JSON or CSV",
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Upsert translation keys from a JSON or CSV file",
	Long: `Reads a JSON document or CSV file and upserts every row. Row errors
are reported and never abort the batch; the command fails when any row failed.`,
	RunE: runImport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "export format (json|csv)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (stdout when empty)")
	importCmd.Flags().StringVar(&importFormat, "format", "", "import format (json|csv, defaults to the file extension)")
	importCmd.Flags().StringVar(&importFile, "file", "", "file to import")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(exportCmd, importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	var export translations.Export
	if err := a.container.ExportHandler().Execute(cmd.Context(), translationscmd.ExportTranslationsCommand{
		Format: exportFormat,
		Result: &export,
	}); err != nil {
		return err
	}

	if exportOut == "" {
		_, err := cmd.OutOrStdout().Write(export.Data)
		return err
	}
	if err := os.WriteFile(exportOut, export.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "exported %d bytes to %s\n", len(export.Data), exportOut)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	format := importFormat
	if strings.TrimSpace(format) == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(importFile)), ".")
	}
	data, err := os.ReadFile(importFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", importFile, err)
	}

	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	var result translations.ImportResult
	if err := a.container.ImportHandler().Execute(cmd.Context(), translationscmd.ImportTranslationsCommand{
		Format:  format,
		Data:    data,
		ActorID: identity.SystemActorID(),
		Result:  &result,
	}); err != nil {
		return err
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("import finished with %d row errors", len(result.Errors))
	}
	return nil
}
