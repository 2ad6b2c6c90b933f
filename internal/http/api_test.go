package http_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	settings "github.com/goliatone/go-translations/internal/admin/settings"
	"github.com/goliatone/go-translations/internal/audit"
	apihttp "github.com/goliatone/go-translations/internal/http"
	"github.com/goliatone/go-translations/internal/localizer"
	"github.com/goliatone/go-translations/internal/middleware"
	"github.com/goliatone/go-translations/internal/translationconfig"
	"github.com/goliatone/go-translations/internal/translations"
)

var testSecret = []byte("http-test-secret")

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

type fixture struct {
	mux      *http.ServeMux
	service  translations.Service
	recorder *audit.MemoryRecorder
}

func newFixture(t *testing.T, opts ...apihttp.Option) *fixture {
	t.Helper()
	service := translations.NewService(translations.NewMemoryStore())
	recorder := audit.NewMemoryRecorder()
	settingsSvc := settings.NewService(translationconfig.NewMemoryRepository(), recorder)

	auth, err := middleware.Auth(middleware.AuthConfig{Secret: testSecret})
	if err != nil {
		t.Fatalf("auth: %v", err)
	}
	base := []apihttp.Option{
		apihttp.WithTranslationService(service),
		apihttp.WithLocalizer(localizer.NewService(localizer.NewMemoryStore())),
		apihttp.WithSettingsService(settingsSvc),
		apihttp.WithAuth(auth),
	}
	api := apihttp.NewTranslationsAPI(append(base, opts...)...)
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		t.Fatalf("register: %v", err)
	}
	return &fixture{mux: mux, service: service, recorder: recorder}
}

func bearer(t *testing.T, subject string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

func (f *fixture) do(t *testing.T, method, target string, body any, authorized bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", bearer(t, "admin-1"))
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec, decodeEnvelope(t, rec)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		return env
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func createKey(t *testing.T, f *fixture, key, en, ne string) {
	t.Helper()
	rec, env := f.do(t, http.MethodPost, "/api/translations", map[string]any{
		"key":          key,
		"namespace":    strings.SplitN(key, ".", 2)[0],
		"translations": map[string]string{"en": en, "ne": ne},
	}, true)
	if rec.Code != http.StatusCreated || !env.Success {
		t.Fatalf("create %s: %d %s", key, rec.Code, rec.Body.String())
	}
}

func TestRegisterRequiresTranslationService(t *testing.T) {
	if err := apihttp.NewTranslationsAPI().Register(http.NewServeMux()); err == nil {
		t.Fatalf("expected error without translation service")
	}
}

func TestGetTranslationsIsPublicAndNested(t *testing.T) {
	f := newFixture(t)
	createKey(t, f, "common.buttons.save", "Save", "सुरक्षित गर्नुहोस्")
	createKey(t, f, "common.buttons.cancel", "Cancel", "")

	rec, env := f.do(t, http.MethodGet, "/api/translations?language=ne&namespace=common", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var tree map[string]map[string]string
	if err := json.Unmarshal(env.Data, &tree); err != nil {
		t.Fatalf("decode tree: %v", err)
	}
	if tree["buttons"]["save"] != "सुरक्षित गर्नुहोस्" {
		t.Fatalf("unexpected save value %q", tree["buttons"]["save"])
	}
	if tree["buttons"]["cancel"] != "Cancel" {
		t.Fatalf("expected english fallback, got %q", tree["buttons"]["cancel"])
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newFixture(t)
	rec, env := f.do(t, http.MethodPost, "/api/translations", map[string]any{"key": "common.x"}, false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if env.Success || env.Code != "UNAUTHORIZED" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestCreateKeyErrors(t *testing.T) {
	f := newFixture(t)
	createKey(t, f, "auth.login.title", "Login", "")

	rec, env := f.do(t, http.MethodPost, "/api/translations", map[string]any{
		"key":          "auth.login.title",
		"namespace":    "auth",
		"translations": map[string]string{"en": "Again"},
	}, true)
	if rec.Code != http.StatusConflict || env.Code != "CONFLICT" {
		t.Fatalf("expected 409 CONFLICT, got %d %+v", rec.Code, env)
	}

	rec, env = f.do(t, http.MethodPost, "/api/translations", map[string]any{
		"key":          "auth.login.title",
		"namespace":    "unknown",
		"translations": map[string]string{"en": "x"},
	}, true)
	if rec.Code != http.StatusBadRequest || env.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected 400, got %d %+v", rec.Code, env)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/translations", strings.NewReader("{"))
	req.Header.Set("Authorization", bearer(t, "admin-1"))
	raw := httptest.NewRecorder()
	f.mux.ServeHTTP(raw, req)
	if raw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed json, got %d", raw.Code)
	}
}

func TestUpdateAndDeleteKey(t *testing.T) {
	f := newFixture(t)
	createKey(t, f, "common.greeting", "Hello", "")

	rec, env := f.do(t, http.MethodPut, "/api/translations/common.greeting", map[string]string{"ne": "नमस्ते"}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body.String())
	}
	var updated translations.TranslationKey
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decode key: %v", err)
	}
	if updated.Translations.NE != "नमस्ते" || updated.Translations.EN != "Hello" {
		t.Fatalf("unexpected translations %+v", updated.Translations)
	}

	rec, _ = f.do(t, http.MethodPut, "/api/translations/common.greeting", map[string]any{
		"translations": map[string]string{"en": "Hi"},
		"isRequired":   true,
	}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("full update: %d %s", rec.Code, rec.Body.String())
	}

	rec, env = f.do(t, http.MethodDelete, "/api/translations/common.greeting", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(string(env.Data), "common.greeting") {
		t.Fatalf("expected deleted key in data, got %s", env.Data)
	}

	rec, env = f.do(t, http.MethodDelete, "/api/translations/common.greeting", nil, true)
	if rec.Code != http.StatusNotFound || env.Code != "NOT_FOUND" {
		t.Fatalf("expected 404, got %d %+v", rec.Code, env)
	}
}

func TestListKeysPagination(t *testing.T) {
	f := newFixture(t)
	createKey(t, f, "forms.email", "Email", "इमेल")
	createKey(t, f, "forms.name", "Name", "")
	createKey(t, f, "forms.phone", "Phone", "")

	rec, env := f.do(t, http.MethodGet, "/api/translations/keys?namespace=forms&page=2&limit=2", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d %s", rec.Code, rec.Body.String())
	}
	var page struct {
		Keys       []translations.TranslationKey `json:"keys"`
		Total      int                           `json:"total"`
		TotalPages int                           `json:"totalPages"`
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Total != 3 || page.TotalPages != 2 || len(page.Keys) != 1 || page.Keys[0].Key != "forms.phone" {
		t.Fatalf("unexpected page %+v", page)
	}

	for _, target := range []string{
		"/api/translations/keys?page=0",
		"/api/translations/keys?limit=0",
		"/api/translations/keys?limit=101",
		"/api/translations/keys?page=abc",
	} {
		rec, _ := f.do(t, http.MethodGet, target, nil, true)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestValidateCompleteness(t *testing.T) {
	f := newFixture(t)
	createKey(t, f, "news.title", "News", "समाचार")
	createKey(t, f, "news.more", "More", "")

	rec, env := f.do(t, http.MethodGet, "/api/translations/validate?namespace=news", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("validate: %d %s", rec.Code, rec.Body.String())
	}
	var report struct {
		TotalKeys    int     `json:"totalKeys"`
		Completeness float64 `json:"completeness"`
	}
	if err := json.Unmarshal(env.Data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.TotalKeys != 2 || report.Completeness != 50 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestHistoryRollbackAndCompare(t *testing.T) {
	f := newFixture(t)
	createKey(t, f, "common.save", "Save", "")
	if rec, _ := f.do(t, http.MethodPut, "/api/translations/common.save", map[string]string{"en": "Store", "ne": "सुरक्षित"}, true); rec.Code != http.StatusOK {
		t.Fatalf("update: %d", rec.Code)
	}

	rec, env := f.do(t, http.MethodGet, "/api/translations/common.save/history?limit=10", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("history: %d %s", rec.Code, rec.Body.String())
	}
	var entries []translations.HistoryEntry
	if err := json.Unmarshal(env.Data, &entries); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(entries) != 2 || entries[0].Version != 2 {
		t.Fatalf("unexpected history %+v", entries)
	}

	rec, env = f.do(t, http.MethodGet, "/api/translations/common.save/compare?v1=1&v2=2", nil, true)
	if rec.Code != http.StatusOK || !strings.Contains(string(env.Data), "English translation changed") {
		t.Fatalf("compare: %d %s", rec.Code, rec.Body.String())
	}
	if rec, _ := f.do(t, http.MethodGet, "/api/translations/common.save/compare?v1=1", nil, true); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without v2, got %d", rec.Code)
	}

	rec, env = f.do(t, http.MethodPost, "/api/translations/common.save/rollback", map[string]any{"version": 1, "reason": "typo"}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("rollback: %d %s", rec.Code, rec.Body.String())
	}
	var restored translations.TranslationKey
	if err := json.Unmarshal(env.Data, &restored); err != nil {
		t.Fatalf("decode restored: %v", err)
	}
	if restored.Translations.EN != "Save" {
		t.Fatalf("expected rollback to Save, got %q", restored.Translations.EN)
	}

	rec, _ = f.do(t, http.MethodPost, "/api/translations/common.save/rollback", map[string]any{"version": 42}, true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown version, got %d", rec.Code)
	}

	rec, env = f.do(t, http.MethodGet, "/api/translations/changes/recent?namespace=common&limit=1", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("recent: %d", rec.Code)
	}
	entries = nil
	if err := json.Unmarshal(env.Data, &entries); err != nil {
		t.Fatalf("decode recent: %v", err)
	}
	if len(entries) != 1 || entries[0].Version != 3 {
		t.Fatalf("unexpected recent changes %+v", entries)
	}
}

func TestExportSetsAttachmentHeaders(t *testing.T) {
	f := newFixture(t)
	createKey(t, f, "home.welcome", "Welcome", "स्वागत छ")

	req := httptest.NewRequest(http.MethodGet, "/api/translations/export?format=csv", nil)
	req.Header.Set("Authorization", bearer(t, "admin-1"))
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("export: %d %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment;") {
		t.Fatalf("missing attachment header: %q", rec.Header().Get("Content-Disposition"))
	}
	if !strings.HasPrefix(rec.Body.String(), "key,namespace,en,ne,context,isRequired") {
		t.Fatalf("unexpected csv body %q", rec.Body.String())
	}

	rec, env := f.do(t, http.MethodGet, "/api/translations/export?format=xml", nil, true)
	if rec.Code != http.StatusBadRequest || !strings.Contains(env.Error, "xml") {
		t.Fatalf("expected 400 for xml, got %d %+v", rec.Code, env)
	}
}

func upload(t *testing.T, f *fixture, filename string, content []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/translations/import", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", bearer(t, "admin-1"))
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec, decodeEnvelope(t, rec)
}

func TestImportUpload(t *testing.T) {
	f := newFixture(t)
	csv := "key,namespace,en,ne,context,isRequired\n" +
		"orders.status,orders,Status,स्थिति,,false\n" +
		"orders.total,,Total,,,true\n"

	rec, env := upload(t, f, "translations.csv", []byte(csv))
	if rec.Code != http.StatusOK {
		t.Fatalf("import: %d %s", rec.Code, rec.Body.String())
	}
	var result translations.ImportResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Created != 2 || !result.Success {
		t.Fatalf("unexpected import result %+v", result)
	}

	rec, _ = upload(t, f, "translations.txt", []byte(csv))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for .txt, got %d", rec.Code)
	}
}

func TestImportUploadTooLarge(t *testing.T) {
	f := newFixture(t, apihttp.WithMaxUploadBytes(16))
	rec, env := upload(t, f, "big.json", bytes.Repeat([]byte("a"), 1024))
	if rec.Code != http.StatusRequestEntityTooLarge || env.Code != "PAYLOAD_TOO_LARGE" {
		t.Fatalf("expected 413, got %d %+v", rec.Code, env)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	f := newFixture(t)
	rec, env := f.do(t, http.MethodGet, "/api/translations/settings", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("get settings: %d", rec.Code)
	}
	var current translationconfig.Settings
	if err := json.Unmarshal(env.Data, &current); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if current != translationconfig.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", current)
	}

	rec, env = f.do(t, http.MethodPut, "/api/translations/settings", map[string]bool{"enforceRequired": true}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("put settings: %d %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(env.Data, &current); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if !current.EnforceRequired || !current.FallbackToEnglish {
		t.Fatalf("expected merge onto current settings, got %+v", current)
	}
	events := f.recorder.Events()
	if len(events) == 0 || events[len(events)-1].ActorID != "admin-1" {
		t.Fatalf("expected audit event by admin-1, got %+v", events)
	}
}

func TestContentRoutes(t *testing.T) {
	f := newFixture(t)
	rec, env := f.do(t, http.MethodPost, "/api/translations/content", map[string]any{
		"en":       map[string]any{"title": "Market opens", "description": "Opening **today**"},
		"ne":       map[string]any{"title": "बजार खुल्यो"},
		"metadata": map[string]any{"type": "news", "priority": "HIGH"},
	}, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create content: %d %s", rec.Code, rec.Body.String())
	}
	var doc localizer.MultilingualDocument
	if err := json.Unmarshal(env.Data, &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}

	rec, env = f.do(t, http.MethodGet, "/api/translations/content/news/"+doc.ID.String()+"?language=ne", nil, false)
	if rec.Code != http.StatusOK || !strings.Contains(string(env.Data), "बजार खुल्यो") {
		t.Fatalf("get localized: %d %s", rec.Code, rec.Body.String())
	}

	rec, env = f.do(t, http.MethodGet, "/api/translations/content/search?q=market&contentType=news", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: %d %s", rec.Code, rec.Body.String())
	}
	var results localizer.SearchResults
	if err := json.Unmarshal(env.Data, &results); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if results.Total != 1 {
		t.Fatalf("expected one hit, got %+v", results)
	}

	rec, _ = f.do(t, http.MethodGet, "/api/translations/content/search?q=market&dateFrom=yesterday", nil, false)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", rec.Code)
	}

	rec, _ = f.do(t, http.MethodPut, "/api/translations/content/not-a-uuid", map[string]any{
		"en": map[string]any{"title": "x"},
	}, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
	}
}

func TestContentUnavailableWithoutLocalizer(t *testing.T) {
	api := apihttp.NewTranslationsAPI(apihttp.WithTranslationService(translations.NewService(translations.NewMemoryStore())))
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		t.Fatalf("register: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/translations/content/search?q=x", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec, env := f.do(t, http.MethodGet, "/healthz", nil, false)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("healthz: %d %+v", rec.Code, env)
	}
}
