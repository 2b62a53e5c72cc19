// ABOUTME: Offline sitemap generation for an archive root: sitemap_N.xml chunks plus sitemap_index.xml.
// ABOUTME: Walks the root with godirwalk and computes lastmod values concurrently with semgroup.
package sitemap

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/semgroup"
	"github.com/karrick/godirwalk"
	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxURLs   = 1000
	DefaultOutputDir = "sitemaps"
	DefaultWorkers   = 8

	// IndexFileName is the sitemap index written into the output directory.
	IndexFileName = "sitemap_index.xml"

	// Namespace is the sitemaps.org protocol namespace.
	Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"
)

// Options configures Generate. Root and Domain are required.
type Options struct {
	Root      string // archive root to scan
	Domain    string // public origin, e.g. https://archive.example.com
	MaxURLs   int    // URLs per sitemap file (default: 1000)
	OutputDir string // where sitemap files are written (default: "sitemaps")

	// PublicPath is the URL path of OutputDir under Domain, used for index
	// entries. Defaults to OutputDir in slash form without leading "./".
	PublicPath string

	Workers int              // concurrent page reads (default: 8)
	Now     func() time.Time // clock for index pages and the index file (default: time.Now)
	Logger  logrus.FieldLogger
}

// Entry is one <url> element.
type Entry struct {
	Loc     string
	LastMod string
}

// Result describes what Generate wrote.
type Result struct {
	Scanned int      // HTML pages kept after filtering
	Skipped int      // HTML pages dropped by the /user/ filter
	Entries []Entry  // in walk order
	Files   []string // sitemap file paths in order
	Index   string   // sitemap index path
}

// Summary writes a human-readable report of r to w.
func (r *Result) Summary(w io.Writer) {
	fmt.Fprintln(w, "Sitemap Generation Summary:")
	fmt.Fprintf(w, "Total HTML files scanned (after filtering): %s\n", humanize.Comma(int64(r.Scanned)))
	fmt.Fprintf(w, "Pages skipped (user profiles): %s\n", humanize.Comma(int64(r.Skipped)))
	fmt.Fprintf(w, "Total URLs added to sitemaps: %s\n", humanize.Comma(int64(len(r.Entries))))
	fmt.Fprintf(w, "Number of sitemap files generated: %s\n", humanize.Comma(int64(len(r.Files))))
	fmt.Fprintf(w, "Sitemap index file created at: %s\n", r.Index)
}

type generator struct {
	opts   Options
	logger logrus.FieldLogger
}

// Generate scans opts.Root for .html pages and writes sitemap files and an
// index into opts.OutputDir. The root itself is only read.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	if opts.Root == "" {
		return nil, errors.New("root directory is required")
	}
	if opts.Domain == "" {
		return nil, errors.New("domain is required")
	}
	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("reading root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %q is not a directory", opts.Root)
	}

	if opts.MaxURLs <= 0 {
		opts.MaxURLs = DefaultMaxURLs
	}
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultOutputDir
	}
	if opts.PublicPath == "" {
		opts.PublicPath = publicPath(opts.OutputDir)
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	g := &generator{
		opts:   opts,
		logger: opts.Logger.WithField("component", "sitemap"),
	}
	return g.run(ctx)
}

func (g *generator) run(ctx context.Context) (*Result, error) {
	now := g.opts.Now()
	domain := strings.TrimRight(g.opts.Domain, "/")

	pages, skipped, err := g.collect(domain)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(pages))
	sg := semgroup.NewGroup(ctx, int64(g.opts.Workers))
	for i, p := range pages {
		sg.Go(func() error {
			lastmod, err := g.lastModified(p.path, now)
			if err != nil {
				return err
			}
			entries[i] = Entry{Loc: p.url, LastMod: lastmod}
			return nil
		})
	}
	if err := sg.Wait(); err != nil {
		return nil, fmt.Errorf("computing lastmod: %w", err)
	}

	if err := os.MkdirAll(g.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	res := &Result{
		Scanned: len(pages),
		Skipped: skipped,
		Entries: entries,
	}

	var names []string
	for i, start := 0, 0; start < len(entries); i, start = i+1, start+g.opts.MaxURLs {
		end := min(start+g.opts.MaxURLs, len(entries))
		name := fmt.Sprintf("sitemap_%d.xml", i+1)
		file := filepath.Join(g.opts.OutputDir, name)
		if err := writeXML(file, newURLSet(entries[start:end])); err != nil {
			return nil, err
		}
		names = append(names, name)
		res.Files = append(res.Files, file)
	}

	index := newSitemapIndex(domain, g.opts.PublicPath, names, now.Format(TimeLayout))
	res.Index = filepath.Join(g.opts.OutputDir, IndexFileName)
	if err := writeXML(res.Index, index); err != nil {
		return nil, err
	}

	g.logger.WithFields(logrus.Fields{
		"action":   "generated",
		"urls":     len(entries),
		"sitemaps": len(names),
		"index":    res.Index,
	}).Info("sitemap generated")
	return res, nil
}

type page struct {
	path string
	url  string
}

// collect walks the root in lexical order and returns every .html page whose
// URL does not fall under a /user/ segment, plus the number filtered out.
func (g *generator) collect(domain string) ([]page, int, error) {
	var pages []page
	skipped := 0

	err := godirwalk.Walk(g.opts.Root, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}
			if !strings.HasSuffix(strings.ToLower(de.Name()), ".html") {
				return nil
			}
			if de.IsSymlink() {
				info, err := os.Stat(osPathname)
				if err != nil || !info.Mode().IsRegular() {
					return nil
				}
			}

			rel, err := filepath.Rel(g.opts.Root, osPathname)
			if err != nil {
				return err
			}
			url := domain + "/" + filepath.ToSlash(rel)
			if strings.Contains(strings.ToLower(url), "/user/") {
				skipped++
				return nil
			}
			pages = append(pages, page{path: osPathname, url: url})
			return nil
		},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("walking %s: %w", g.opts.Root, err)
	}
	return pages, skipped, nil
}

func publicPath(outputDir string) string {
	p := path.Clean(filepath.ToSlash(outputDir))
	p = strings.TrimPrefix(p, "./")
	return strings.Trim(p, "/")
}

type urlSet struct {
	XMLName xml.Name  `xml:"urlset"`
	XMLNS   string    `xml:"xmlns,attr"`
	URLs    []urlElem `xml:"url"`
}

type urlElem struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type sitemapIndex struct {
	XMLName  xml.Name      `xml:"sitemapindex"`
	XMLNS    string        `xml:"xmlns,attr"`
	Sitemaps []sitemapElem `xml:"sitemap"`
}

type sitemapElem struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

func newURLSet(entries []Entry) urlSet {
	set := urlSet{XMLNS: Namespace, URLs: make([]urlElem, len(entries))}
	for i, e := range entries {
		set.URLs[i] = urlElem{Loc: e.Loc, LastMod: e.LastMod}
	}
	return set
}

func newSitemapIndex(domain, publicPath string, names []string, lastmod string) sitemapIndex {
	idx := sitemapIndex{XMLNS: Namespace}
	prefix := domain + "/"
	if publicPath != "" && publicPath != "." {
		prefix += publicPath + "/"
	}
	for _, name := range names {
		idx.Sitemaps = append(idx.Sitemaps, sitemapElem{Loc: prefix + name, LastMod: lastmod})
	}
	return idx
}

func writeXML(file string, v any) error {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", file, err)
	}
	data := append([]byte(xml.Header), body...)
	data = append(data, '\n')
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", file, err)
	}
	return nil
}
