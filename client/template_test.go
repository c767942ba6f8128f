// netwalk.go - a web-based network wiring puzzle game.
// Copyright (C) 2015-2016 Daniel C. Brotsky.
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, write to the Free Software Foundation, Inc.,
// 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.


package client

import (
	"errors"
	"strings"
	"testing"

	"github.com/ancientHacker/netwalk.go/puzzle"
)

/*

game page

*/

func TestGamePage(t *testing.T) {
	g := mustParse(t, "S> l3 e0/e0 T^ e0")
	page := GamePage("sid-1", g.State(), []LibraryLink{{ID: "abc", Name: "starter"}})
	for _, want := range []string{
		`data-session="sid-1"`,
		`<td id="c0" data-index="0" class="server on">⇨</td>`,
		`<td id="c1" data-index="1" class="elbow on rotatable">┓</td>`,
		`<td id="c4" data-index="4" class="terminal on">▲</td>`,
		`class="grid solved"`,
		"Congratulations!",
		`data-puzzle="abc">starter</a>`,
		"<footer>[",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("Game page lacks %q:\n%s", want, page)
		}
	}
	g.Rotate(1)
	g.Recompute()
	page = GamePage("sid-1", g.State(), nil)
	if strings.Contains(page, "solved") || strings.Contains(page, "Library") {
		t.Errorf("Unsolved page without library is wrong:\n%s", page)
	}
}

func TestGamePageBadState(t *testing.T) {
	states := []*puzzle.State{
		{Summary: puzzle.Summary{Width: 2, Height: 1, Kinds: []puzzle.Kind{puzzle.Server}}, Live: []bool{true}},
		{Summary: puzzle.Summary{Width: 0, Height: 1}},
		{Summary: puzzle.Summary{Width: 1, Height: 1, Kinds: []puzzle.Kind{puzzle.Server}, Rotations: []int{0, 1}},
			Live: []bool{true}},
	}
	for i, state := range states {
		if page := GamePage("sid", state, nil); !strings.Contains(page, `class="error"`) {
			t.Errorf("Case %d: bad state gave page:\n%s", i, page)
		}
	}
}

func TestErrorPage(t *testing.T) {
	page := ErrorPage(errors.New("a <bad> thing"))
	if !strings.Contains(page, "a &lt;bad&gt; thing") {
		t.Errorf("Error page doesn't escape message:\n%s", page)
	}
}

/*

footer

*/

type footerTestcase struct {
	name, version, instance, build, env string
	footer                              string
}

func TestApplicationFooter(t *testing.T) {
	testcases := []footerTestcase{
		{"", "", "", "", "",
			"[" + brandName + " local]"},
		{"netwalk-staging-pr-30",
			"v29",
			"",
			"ca0fd7123f918d1b6d3e65f3de47d52db09ae068",
			"dev",
			"[netwalk-staging-pr-30 CI/CD]"},
		{"netwalk-staging",
			"",
			"1vac4117-c29f-4312-521e-ba4d8638c1ac",
			"ca0fd7123f918d1b6d3e65f3de47d52db09ae068",
			"stg",
			"[netwalk-staging " + applicationVersion + " <ca0fd71>]"},
		{"netwalk-production",
			"v22",
			"1vac4117",
			"ca0fd7123f918d1b6d3e65f3de47d52db09ae068",
			"prd",
			"[netwalk-production v22 <ca0fd71> (instance 1vac4117)]"},
		{"", "", "", "", "qa",
			"[" + brandName + " <??>]"},
	}
	for i, tc := range testcases {
		t.Setenv(applicationNameEnvVar, tc.name)
		t.Setenv(applicationVersionEnvVar, tc.version)
		t.Setenv(applicationInstanceEnvVar, tc.instance)
		t.Setenv(applicationBuildEnvVar, tc.build)
		t.Setenv(applicationEnvEnvVar, tc.env)
		if footer := applicationFooter(); footer != tc.footer {
			t.Errorf("Case %d: got %q, expected %q", i, footer, tc.footer)
		}
	}
}
