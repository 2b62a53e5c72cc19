// ABOUTME: Derives a sitemap lastmod timestamp for an archived page from its name, content, or mtime.
// ABOUTME: Content dates ("2017-06-12 by") win over creationDate comments, which win over mtime.
package sitemap

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// TimeLayout is the lastmod format: ISO 8601 local time, second precision, no zone.
const TimeLayout = "2006-01-02T15:04:05"

var (
	contentDateRe  = regexp.MustCompile(`(?i)(\d{4}-\d{2}-\d{2})\s+by`)
	creationDateRe = regexp.MustCompile(`(?i)'creationDate'\s*=>\s*'([^']+)'`)
)

// lastModified returns the lastmod value for the page at path.
//
// Pages named index* are regenerated listings and always report now. Other
// pages report the first post date in the body, then a creationDate comment,
// then the file's modification time. An unreadable body only skips the
// content checks; a failed stat is an error.
func (g *generator) lastModified(path string, now time.Time) (string, error) {
	if strings.HasPrefix(strings.ToLower(filepath.Base(path)), "index") {
		return now.Format(TimeLayout), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		g.logger.WithField("path", path).WithError(err).Warn("cannot read page, falling back to mtime")
	} else {
		if ts, ok := contentDate(content); ok {
			return ts, nil
		}
		if ts, ok := creationDate(content); ok {
			return ts, nil
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	return info.ModTime().Local().Format(TimeLayout), nil
}

// contentDate looks at the first "YYYY-MM-DD by" occurrence only. An invalid
// calendar date there is treated as no date.
func contentDate(content []byte) (string, bool) {
	m := contentDateRe.FindSubmatch(content)
	if m == nil {
		return "", false
	}
	t, err := time.Parse("2006-01-02", string(m[1]))
	if err != nil {
		return "", false
	}
	return t.Format(TimeLayout), true
}

func creationDate(content []byte) (string, bool) {
	m := creationDateRe.FindSubmatch(content)
	if m == nil {
		return "", false
	}
	t, err := time.Parse("2006-01-02 15:04:05", string(m[1]))
	if err != nil {
		return "", false
	}
	return t.Format(TimeLayout), true
}
