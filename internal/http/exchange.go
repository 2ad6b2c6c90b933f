package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	translationscmd "github.com/goliatone/go-translations/internal/commands/translations"
	"github.com/goliatone/go-translations/internal/domain"
	"github.com/goliatone/go-translations/internal/middleware"
	"github.com/goliatone/go-translations/internal/translations"
)

// multipartOverhead is the allowance for form boundaries and headers on top
// of the file itself.
const multipartOverhead = 64 << 10

func (api *TranslationsAPI) registerExchangeRoutes(mux *http.ServeMux, root string) {
	api.protected(mux, "GET "+root+"/export", api.handleExport)
	api.protected(mux, "POST "+root+"/import", api.handleImport)
}

func (api *TranslationsAPI) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := translations.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		api.fail(w, r, err)
		return
	}
	export, err := api.translations.ExportTranslations(r.Context(), format)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Data)
}

func (api *TranslationsAPI) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, api.maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(api.maxUpload + multipartOverhead); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			api.fail(w, r, err)
			return
		}
		api.fail(w, r, domain.Validation("Invalid multipart upload", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		api.fail(w, r, domain.Validation("No file uploaded", err))
		return
	}
	defer file.Close()

	format, err := uploadFormat(r.FormValue("format"), header.Filename)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, api.maxUpload+1))
	if err != nil {
		api.fail(w, r, domain.Validation("Could not read upload", err))
		return
	}
	if int64(len(data)) > api.maxUpload {
		api.fail(w, r, &http.MaxBytesError{Limit: api.maxUpload})
		return
	}

	var result translations.ImportResult
	err = api.importer.Execute(r.Context(), translationscmd.ImportTranslationsCommand{
		Format:  string(format),
		Data:    data,
		ActorID: middleware.ActorID(r.Context()),
		Result:  &result,
	})
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

// uploadFormat prefers an explicit format field and otherwise uses the file
// extension. Only .json and .csv uploads are accepted.
func uploadFormat(explicit, filename string) (translations.Format, error) {
	if strings.TrimSpace(explicit) != "" {
		return translations.ParseFormat(explicit)
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return translations.FormatJSON, nil
	case ".csv":
		return translations.FormatCSV, nil
	}
	return "", domain.Validationf("Only .json and .csv files are supported")
}
