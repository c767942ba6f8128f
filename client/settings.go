// Package client renders grid state for people: box-drawing
// text for terminals, and HTML pages for browsers.
package client

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path"
	"sync"

	"go.uber.org/zap"
)

const (
	applicationName                = "netwalk"
	brandName                      = "Netwalk"
	applicationVersion             = "0.3"
	templatePageSuffix             = "Page.tmpl.html"
	defaultTemplateDirectoryEnvVar = "TEMPLATE_DIRECTORY"
	defaultStaticDirectoryEnvVar   = "STATIC_DIRECTORY"
	applicationNameEnvVar          = "APPLICATION_NAME"
	applicationEnvEnvVar           = "APPLICATION_ENV"
	applicationVersionEnvVar       = "APPLICATION_VERSION"
	applicationInstanceEnvVar      = "APPLICATION_INSTANCE"
	applicationBuildEnvVar         = "APPLICATION_BUILD"
)

//go:embed tmpl static
var resources embed.FS

var staticResourcePaths = map[string]string{
	"/robots.txt":  "robots.txt",
	"/netwalk.css": "netwalk.css",
	"/netwalk.js":  "netwalk.js",
}

// VerifyResources - check that resources can be found, return
// error if not.  Only directories named in the environment can
// be missing; the built-in ones are always there.
func VerifyResources() error {
	for _, envVar := range []string{defaultStaticDirectoryEnvVar, defaultTemplateDirectoryEnvVar} {
		dir := os.Getenv(envVar)
		if dir == "" {
			continue
		}
		if fi, err := os.Stat(dir); err != nil {
			return err
		} else if !fi.IsDir() {
			return fmt.Errorf("Resource location %q (from %s) not a directory.", dir, envVar)
		}
	}
	return nil
}

// resourceFS: the directory named by envVar if there is one,
// otherwise the embedded sub-directory.
func resourceFS(envVar, embedded string) fs.FS {
	if dir := os.Getenv(envVar); dir != "" {
		return os.DirFS(dir)
	}
	sub, err := fs.Sub(resources, embedded)
	if err != nil {
		panic(fmt.Errorf("embedded resources lack %q: %v", embedded, err))
	}
	return sub
}

/*

handle static resources

*/

// StaticHandler serves the static resource for the request path,
// if there is one, and reports whether it did.
func StaticHandler(w http.ResponseWriter, r *http.Request) bool {
	name, ok := staticResourcePaths[r.URL.Path]
	if ok {
		zap.S().Debugf("Serving static resource for %q", r.URL.Path)
		http.ServeFileFS(w, r, resourceFS(defaultStaticDirectoryEnvVar, "static"), name)
	}
	return ok
}

/*

find and parse templates

*/

var (
	templateMutex   sync.Mutex
	loadedTemplates = make(map[string]*template.Template)
)

// loadPageTemplate does what you would expect: give it the
// template name, and it will find and parse the template file
// and return the resulting template.
func loadPageTemplate(name string) (*template.Template, error) {
	templateMutex.Lock()
	defer templateMutex.Unlock()
	if tmpl, ok := loadedTemplates[name]; ok {
		return tmpl, nil
	}
	fsys := resourceFS(defaultTemplateDirectoryEnvVar, "tmpl")
	tmpl, err := template.ParseFS(fsys, path.Clean(name+templatePageSuffix))
	if err != nil {
		return nil, err
	}
	loadedTemplates[name] = tmpl
	return tmpl, nil
}

// forgetTemplates empties the template cache.
func forgetTemplates() {
	templateMutex.Lock()
	loadedTemplates = make(map[string]*template.Template)
	templateMutex.Unlock()
}
