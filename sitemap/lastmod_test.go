// ABOUTME: Tests for lastmod extraction from page names, post dates, creationDate comments, and mtime.
package sitemap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestContentDate(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"<td>1061 2017-06-12 by admin</td>", "2017-06-12T00:00:00", true},
		{"posted 2020-01-31   BY mod", "2020-01-31T00:00:00", true},
		{"2017-13-45 by nobody", "", false},
		{"2017-06-12 from admin", "", false},
		{"no date", "", false},
	}
	for _, tt := range tests {
		got, ok := contentDate([]byte(tt.in))
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("contentDate(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCreationDate(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"<!-- 'creationDate' => '2014-06-19 19:20:00' -->", "2014-06-19T19:20:00", true},
		{"'CREATIONDATE'=>'2001-02-03 04:05:06'", "2001-02-03T04:05:06", true},
		{"'creationDate' => 'yesterday'", "", false},
		{"creationDate: 2014-06-19", "", false},
	}
	for _, tt := range tests {
		got, ok := creationDate([]byte(tt.in))
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("creationDate(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestLastModifiedPrecedence(t *testing.T) {
	dir := t.TempDir()
	logger, _ := logtest.NewNullLogger()
	g := &generator{logger: logger}
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)

	both := filepath.Join(dir, "both.html")
	content := "<!-- 'creationDate' => '2014-06-19 19:20:00' --><p>2017-06-12 by x</p>"
	if err := os.WriteFile(both, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := g.lastModified(both, now)
	if err != nil {
		t.Fatal(err)
	}
	if got != "2017-06-12T00:00:00" {
		t.Errorf("expected content date to win, got %q", got)
	}

	idx := filepath.Join(dir, "Index_2.html")
	if err := os.WriteFile(idx, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = g.lastModified(idx, now)
	if err != nil {
		t.Fatal(err)
	}
	if got != "2024-05-06T07:08:09" {
		t.Errorf("expected index page to use now, got %q", got)
	}

	if _, err := g.lastModified(filepath.Join(dir, "missing.html"), now); err == nil {
		t.Error("expected error for a page that cannot be stat'd")
	}
}
