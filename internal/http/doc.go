// Package http exposes the translation and content localization services over
// REST. Routes mount under /api by default:
//   - Translations: /translations, /translations/{key}, /translations/keys,
//     /translations/validate, /translations/export, /translations/import,
//     /translations/settings
//   - History: /translations/{key}/history, /translations/{key}/rollback,
//     /translations/{key}/compare, /translations/changes/recent
//   - Content: /translations/content, /translations/content/{id},
//     /translations/content/search, /translations/content/{contentType}/{id}
//
// Every response is an envelope {success, data, error, code}.
package http
