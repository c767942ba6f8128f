package client

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ancientHacker/netwalk.go/puzzle"
)

/*

game page

*/

// A templateGamePage contains the values to fill the game page
// template.
type templateGamePage struct {
	SessionID         string
	Title, TopHead    string
	CssFile, JsFile   string
	Grid              templateGrid
	Status            string
	Solved            bool
	Library           []LibraryLink
	ApplicationFooter string
}

// templateGrid is the structure expected by the grid section of
// the game page template.
type templateGrid [][]templateGridCell

// A templateGridCell contains the cell's index, glyph, and CSS
// styling classes.
type templateGridCell struct {
	Index       int
	Glyph       string
	Kind, Power string
	Rotatable   bool
}

// A LibraryLink is a library puzzle the page offers to start.
type LibraryLink struct {
	ID, Name string
}

// GamePage executes the game page template over the passed
// session and grid state, and returns the page content as a
// string.  If there is an error, what's returned is the error
// page content.
func GamePage(sessionID string, state *puzzle.State, library []LibraryLink) string {
	grid, err := gameTemplateGrid(state)
	if err != nil {
		return ErrorPage(err)
	}
	tgp := templateGamePage{
		SessionID:         sessionID,
		Title:             fmt.Sprintf("%s: %dx%d", brandName, state.Width, state.Height),
		TopHead:           brandName,
		CssFile:           "/netwalk.css",
		JsFile:            "/netwalk.js",
		Grid:              grid,
		Status:            Status(state),
		Solved:            state.Solved,
		Library:           library,
		ApplicationFooter: applicationFooter(),
	}
	return executePage("game", tgp)
}

// gameTemplateGrid lays the state out in rows.  Errors mean the
// state's slices don't match its dimensions.
func gameTemplateGrid(state *puzzle.State) (templateGrid, error) {
	count := state.Width * state.Height
	if state.Width < 1 || state.Height < 1 || len(state.Kinds) != count || len(state.Live) != count {
		return nil, fmt.Errorf("Grid state is %dx%d with %d kinds and %d live flags.",
			state.Width, state.Height, len(state.Kinds), len(state.Live))
	}
	if len(state.Rotations) != 0 && len(state.Rotations) != count {
		return nil, fmt.Errorf("Grid state has %d rotations for %d cells.", len(state.Rotations), count)
	}
	rows := make(templateGrid, state.Height)
	for i := range rows {
		rows[i] = make([]templateGridCell, state.Width)
		for j := range rows[i] {
			index := i*state.Width + j
			p := cellPiece(state, index)
			power := "off"
			if state.Live[index] {
				power = "on"
			}
			rows[i][j] = templateGridCell{
				Index:     index,
				Glyph:     string(Glyph(p, state.Live[index])),
				Kind:      p.Kind.String(),
				Power:     power,
				Rotatable: p.Kind.IsPipe() && p.Kind != puzzle.Empty && p.Kind != puzzle.Cross,
			}
		}
	}
	return rows, nil
}

/*

error pages

*/

// A templateErrorPage contains the values to fill the error page
// template.
type templateErrorPage struct {
	Title, TopHead, Message string
	ApplicationFooter       string
}

// ErrorPage returns error page content
func ErrorPage(e error) string {
	tep := templateErrorPage{
		Title:             fmt.Sprintf("%s: Error", brandName),
		TopHead:           "Error Page",
		Message:           e.Error(),
		ApplicationFooter: applicationFooter(),
	}
	tmpl, err := loadPageTemplate("error")
	if err != nil {
		return fmt.Sprintf("Couldn't load the %q template: %v", "error", err)
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, tep); err != nil {
		return fmt.Sprintf("A templating error has occurred: %v", err)
	}
	return buf.String()
}

// executePage: run the named page template, falling back to the
// error page.
func executePage(name string, data any) string {
	tmpl, err := loadPageTemplate(name)
	if err != nil {
		return ErrorPage(fmt.Errorf("Couldn't load the %q template: %v", name, err))
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, data); err != nil {
		return ErrorPage(err)
	}
	return buf.String()
}

/*

application footer

*/

// applicationFooter - the application footer that shows at the
// bottom of all pages.
func applicationFooter() string {
	appName := os.Getenv(applicationNameEnvVar)
	appEnv := os.Getenv(applicationEnvEnvVar)
	appVersion := os.Getenv(applicationVersionEnvVar)
	appInstance := os.Getenv(applicationInstanceEnvVar)
	appBuild := os.Getenv(applicationBuildEnvVar)

	if appName == "" {
		appName = brandName
	}
	if appEnv == "" {
		appEnv = "local"
	}
	if appVersion == "" {
		appVersion = applicationVersion
	}
	appVersion = " " + appVersion
	if len(appBuild) >= 7 {
		appBuild = appBuild[:7]
	}
	if appInstance != "" {
		appInstance = " (instance " + appInstance + ")"
	}

	switch appEnv {
	case "local":
		return "[" + appName + " local]"
	case "dev":
		return "[" + appName + " CI/CD]"
	case "stg":
		return "[" + appName + appVersion + " <" + appBuild + ">]"
	case "prd":
		return "[" + appName + appVersion + " <" + appBuild + ">" + appInstance + "]"
	}
	return "[" + appName + " <??>]"
}
