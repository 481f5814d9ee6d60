package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"tooltip.json": `{
  "name": "Docs",
  "page": {"body": "page.html"},
  "tooltips": [
    {"trigger": "save", "content": {"title": "Save", "body": "Keeps a draft"}, "template": "card", "activation": "hover"},
    {"trigger": "help", "content": "Ask us anything", "origin": "bottom-left"}
  ]
}`,
		"page.html": `<button id="save">Save</button> <a id="help" href="#">?</a>`,
		"templates/cards.yaml": `card:
  - '<div class="card">'
  - '<h3>{title}</h3><p>{body}</p>'
  - '</div>'
`,
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, "tooltip.json")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		configPath, verbose, noColor = "", false, false
	})

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRender(t *testing.T) {
	path := writeProject(t)

	out, err := execute(t, "render", "-c", path, "--show", "save")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.Contains(out, "<h3>Save</h3><p>Keeps a draft</p>") {
		t.Errorf("render output missing card panel:\n%s", out)
	}
	if !strings.Contains(out, `class="card shown"`) {
		t.Errorf("render output missing settled shown class:\n%s", out)
	}
	if strings.Contains(out, "Ask us anything") {
		t.Errorf("render showed a tooltip not named by --show:\n%s", out)
	}
	if !strings.Contains(out, `data-tt-events="click"`) {
		t.Errorf("render output missing click listener attribute:\n%s", out)
	}
}

func TestRender_All(t *testing.T) {
	path := writeProject(t)

	out, err := execute(t, "render", "-c", path, "--all")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.Contains(out, "Ask us anything") || !strings.Contains(out, "Keeps a draft") {
		t.Errorf("render --all output:\n%s", out)
	}
}

func TestTemplates(t *testing.T) {
	path := writeProject(t)

	out, err := execute(t, "templates", "-c", path)
	if err != nil {
		t.Fatalf("templates error = %v", err)
	}
	for _, want := range []string{"button", "built-in", "card", "templates/*.yaml", "tooltip"} {
		if !strings.Contains(out, want) {
			t.Errorf("templates output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "templates", "-c", path, "--name", "card")
	if err != nil {
		t.Fatalf("templates --name error = %v", err)
	}
	if strings.TrimSpace(out) != `<div class="card"><h3>{title}</h3><p>{body}</p></div>` {
		t.Errorf("templates --name card = %q", out)
	}

	if _, err := execute(t, "templates", "-c", path, "--name", "nope"); err == nil {
		t.Error("templates --name nope succeeded")
	}
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tooltip.json")
	if err := os.WriteFile(path, []byte(`{"tooltips": [{"trigger": "x", "activation": "drag"}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "render", "-c", path)
	if err == nil || !strings.Contains(err.Error(), "T003") {
		t.Errorf("render with bad activation error = %v, want T003", err)
	}

	_, err = execute(t, "render", "-c", filepath.Join(dir, "missing.json"))
	if err == nil || !strings.Contains(err.Error(), "T021") {
		t.Errorf("render with missing config error = %v, want T021", err)
	}
}

func TestDemoBody(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tooltip.json")
	if err := os.WriteFile(path, []byte(`{"tooltips": [{"trigger": "one"}, {"trigger": "two", "group": "g"}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "render", "-c", path, "--show", "two")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.Contains(out, `<button type="button" id="one"`) || !strings.Contains(out, "Tooltip Content") {
		t.Errorf("demo body render:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version --short = %q, want %q", out, version)
	}
}
