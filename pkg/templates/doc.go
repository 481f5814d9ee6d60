// Package templates is a name-to-markup registry with brace substitution.
//
// A template is plain text containing {key} placeholders. Render replaces
// each placeholder with the stringified variable of the same name and leaves
// placeholders without a matching variable untouched:
//
//	store := templates.New()
//	store.Register("note", `<div class="note">{content}</div>`)
//	html, err := store.Render("note", map[string]any{"content": "Hi"})
//	// html == `<div class="note">Hi</div>`
//
// A backslash before the opening brace (\{key}) emits the literal {key}.
// No HTML escaping is performed; callers are responsible for safe content.
//
// Templates can also be loaded in bulk from YAML files (LoadFS) or from an
// S3 bucket (LoadS3).
package templates
