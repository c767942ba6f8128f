package client

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBasicLookup(t *testing.T) {
	defer forgetTemplates()

	for _, name := range []string{"error", "game"} {
		tmpl1, err := loadPageTemplate(name)
		if err != nil {
			t.Fatalf("Failed to load %s template: %v", name, err)
		}
		tmpl2, err := loadPageTemplate(name)
		if err != nil || tmpl2 != tmpl1 {
			t.Errorf("Second load of %s template didn't use cache! (%v, %v)", name, tmpl2, tmpl1)
		}
	}
	if _, err := loadPageTemplate("nosuch"); err == nil {
		t.Errorf("Loaded a template that doesn't exist")
	}
}

func TestEnvVarOverride(t *testing.T) {
	defer forgetTemplates()

	// first check that we fail with the wrong directory
	t.Setenv(defaultTemplateDirectoryEnvVar, filepath.Join(t.TempDir(), "nosuchdir"))
	if _, err := loadPageTemplate("error"); err == nil {
		t.Fatalf("Load with OS env directory %v", os.Getenv(defaultTemplateDirectoryEnvVar))
	}
	if err := VerifyResources(); err == nil {
		t.Errorf("Missing template directory verified")
	}

	// now use a directory with a test template
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "test"+templatePageSuffix), []byte("<p>{{.}}</p>"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(defaultTemplateDirectoryEnvVar, dir)
	if err := VerifyResources(); err != nil {
		t.Errorf("Template directory didn't verify: %v", err)
	}
	if page := executePage("test", "hi"); page != "<p>hi</p>" {
		t.Errorf("Test page is %q", page)
	}

	// now unset the environment to use the built-in
	forgetTemplates()
	t.Setenv(defaultTemplateDirectoryEnvVar, "")
	if _, err := loadPageTemplate("error"); err != nil {
		t.Fatalf("Failed to load error template: %v", err)
	}
}

func TestStaticHandler(t *testing.T) {
	tests := []struct {
		path    string
		served  bool
		content string
	}{
		{"/robots.txt", true, "Disallow: /api/"},
		{"/netwalk.css", true, "table.grid"},
		{"/netwalk.js", true, "EventSource"},
		{"/api/state", false, ""},
	}
	for _, test := range tests {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, test.path, nil)
		if served := StaticHandler(w, r); served != test.served {
			t.Errorf("%s: served is %v", test.path, served)
			continue
		}
		if !test.served {
			continue
		}
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), test.content) {
			t.Errorf("%s: status %d, body %q", test.path, w.Code, w.Body.String())
		}
	}
}
