// Package sitemap renders the static sitemap.xml and robots.txt for the
// public storefront pages.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

type Route struct {
	Path       string
	ChangeFreq string
	Priority   float64
}

// Routes are the public pages listed in the sitemap.
var Routes = []Route{
	{Path: "/", ChangeFreq: "daily", Priority: 1.0},
	{Path: "/sarees", ChangeFreq: "daily", Priority: 0.9},
	{Path: "/kids", ChangeFreq: "daily", Priority: 0.9},
	{Path: "/about", ChangeFreq: "monthly", Priority: 0.5},
	{Path: "/contact", ChangeFreq: "monthly", Priority: 0.5},
	{Path: "/feedback", ChangeFreq: "monthly", Priority: 0.4},
	{Path: "/track-order", ChangeFreq: "monthly", Priority: 0.4},
}

// disallowed paths are excluded from crawling in robots.txt.
var disallowed = []string{"/admin", "/cart", "/checkout", "/orders", "/login"}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

func joinURL(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + path
}

// Build renders routes as a sitemap rooted at baseURL.
func Build(baseURL string, routes []Route, now time.Time) ([]byte, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("site base URL cannot be empty")
	}
	set := urlSet{Xmlns: xmlns}
	lastMod := now.UTC().Format("2006-01-02")
	for _, r := range routes {
		set.URLs = append(set.URLs, urlEntry{
			Loc:        joinURL(baseURL, r.Path),
			LastMod:    lastMod,
			ChangeFreq: r.ChangeFreq,
			Priority:   fmt.Sprintf("%.1f", r.Priority),
		})
	}
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("could not encode sitemap: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

func Robots(baseURL string) []byte {
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\n")
	for _, p := range disallowed {
		b.WriteString("Disallow: " + p + "\n")
	}
	b.WriteString("\nSitemap: " + joinURL(baseURL, "/sitemap.xml") + "\n")
	return []byte(b.String())
}

// Write regenerates sitemap.xml and robots.txt inside dir.
func Write(dir, baseURL string, routes []Route, now time.Time, log *logrus.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create %s: %w", dir, err)
	}
	sitemapXML, err := Build(baseURL, routes, now)
	if err != nil {
		return err
	}
	sitemapPath := filepath.Join(dir, "sitemap.xml")
	if err := os.WriteFile(sitemapPath, sitemapXML, 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", sitemapPath, err)
	}
	log.Infof("Sitemap: Wrote %d routes to %s", len(routes), sitemapPath)

	robotsPath := filepath.Join(dir, "robots.txt")
	if err := os.WriteFile(robotsPath, Robots(baseURL), 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", robotsPath, err)
	}
	log.Infof("Sitemap: Wrote %s", robotsPath)
	return nil
}
