// Package styles loads per-category style lists from flat text files and keeps
// per-style favorites and usage counts.
package styles

import (
	"bufio"
	"bytes"
	"cmp"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/kayz/promptsmith/internal/logger"
	"github.com/kayz/promptsmith/internal/persist"
)

const (
	// FileExt is the extension of a category file; the category id is the
	// file name without it.
	FileExt = ".txt"
	// MetadataFile holds favorites and usage counts inside the styles dir.
	MetadataFile = "_metadata.json"
)

type metadata struct {
	Favorites  []string       `json:"favorites"`
	UsageStats map[string]int `json:"usage_stats"`
}

// Entry describes one style as the catalog currently sees it.
type Entry struct {
	Name       string
	Category   string
	Favorite   bool
	UsageCount int
}

// Catalog is the style catalog for one styles directory. It is not safe for
// concurrent use; callers serialise access.
type Catalog struct {
	dir          string
	metadataPath string
	cache        map[string][]string
	favorites    map[string]struct{}
	usage        map[string]int
}

// Open creates a catalog over dir and loads its metadata. A missing metadata
// file is not an error. A corrupt one is returned as an error, but the catalog
// is still usable and starts with no favorites or usage.
func Open(dir string) (*Catalog, error) {
	c := &Catalog{
		dir:          dir,
		metadataPath: filepath.Join(dir, MetadataFile),
		cache:        make(map[string][]string),
		favorites:    make(map[string]struct{}),
		usage:        make(map[string]int),
	}
	if err := c.loadMetadata(); err != nil {
		logger.Error("Error loading style metadata: %v", err)
		return c, err
	}
	return c, nil
}

// Dir returns the styles directory.
func (c *Catalog) Dir() string { return c.dir }

// Categories lists category ids in alphabetical order. An unreadable directory
// yields an empty list.
func (c *Catalog) Categories() []string {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("Styles folder not found: %s", c.dir)
		} else {
			logger.Error("Error reading styles folder: %v", err)
		}
		return []string{}
	}

	categories := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, FileExt) {
			continue
		}
		categories = append(categories, strings.TrimSuffix(name, FileExt))
	}
	slices.Sort(categories)
	return categories
}

// Styles returns the styles of category, reading the file on first access and
// serving the cached list afterwards. A missing or unreadable file yields an
// empty list and is logged.
func (c *Catalog) Styles(category string) []string {
	if cached, ok := c.cache[category]; ok {
		return slices.Clone(cached)
	}

	path := filepath.Join(c.dir, category+FileExt)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("Style file not found: %s", path)
		} else {
			logger.Error("Error reading style file %s: %v", path, err)
		}
		return []string{}
	}

	styles := parseLines(data)
	c.cache[category] = styles
	logger.Debug("Loaded %d styles from %s", len(styles), category)
	return slices.Clone(styles)
}

func parseLines(data []byte) []string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Search returns the styles containing term (case-insensitive) across the given
// categories, or all categories when none are given. Results are de-duplicated
// and ranked: exact matches first, then shorter styles, then alphabetically.
func (c *Catalog) Search(term string, categories ...string) []string {
	term = strings.TrimSpace(term)
	if term == "" {
		return []string{}
	}
	if len(categories) == 0 {
		categories = c.Categories()
	}

	needle := strings.ToLower(term)
	seen := make(map[string]struct{})
	var results []string
	for _, category := range categories {
		for _, style := range c.Styles(category) {
			if _, dup := seen[style]; dup {
				continue
			}
			if strings.Contains(strings.ToLower(style), needle) {
				seen[style] = struct{}{}
				results = append(results, style)
			}
		}
	}

	slices.SortFunc(results, func(a, b string) int {
		return cmp.Or(
			cmp.Compare(matchRank(a, term), matchRank(b, term)),
			cmp.Compare(utf8.RuneCountInString(a), utf8.RuneCountInString(b)),
			cmp.Compare(strings.ToLower(a), strings.ToLower(b)),
			cmp.Compare(a, b),
		)
	})
	if results == nil {
		return []string{}
	}
	return results
}

// matchRank: 0 exact, 1 exact ignoring case, 2 substring.
func matchRank(style, term string) int {
	switch {
	case style == term:
		return 0
	case strings.EqualFold(style, term):
		return 1
	default:
		return 2
	}
}

// Suggest returns up to limit styles that fuzzily match term, best first. It is
// meant for "did you mean" hints when Search finds nothing.
func (c *Catalog) Suggest(term string, limit int) []string {
	term = strings.TrimSpace(term)
	if term == "" {
		return []string{}
	}

	var all []string
	seen := make(map[string]struct{})
	for _, category := range c.Categories() {
		for _, style := range c.Styles(category) {
			if _, dup := seen[style]; !dup {
				seen[style] = struct{}{}
				all = append(all, style)
			}
		}
	}

	ranks := fuzzy.RankFindNormalizedFold(term, all)
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		return cmp.Or(cmp.Compare(a.Distance, b.Distance), cmp.Compare(a.Target, b.Target))
	})

	out := make([]string, 0, len(ranks))
	for _, r := range ranks {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, r.Target)
	}
	return out
}

// Random picks a random category and then a random style from it. ok is false
// when no category has any style.
func (c *Catalog) Random(r *rand.Rand) (category, style string, ok bool) {
	categories := c.Categories()
	intn := rand.IntN
	if r != nil {
		intn = r.IntN
	}
	for len(categories) > 0 {
		i := intn(len(categories))
		category = categories[i]
		if styles := c.Styles(category); len(styles) > 0 {
			return category, styles[intn(len(styles))], true
		}
		categories = slices.Delete(categories, i, i+1)
	}
	return "", "", false
}

// Entry reports favorite and usage state for style within category.
func (c *Catalog) Entry(category, style string) Entry {
	return Entry{
		Name:       style,
		Category:   category,
		Favorite:   c.IsFavorite(style),
		UsageCount: c.usage[style],
	}
}

// InvalidateCache drops every cached category list so the next access re-reads
// the files.
func (c *Catalog) InvalidateCache() {
	clear(c.cache)
	logger.Info("Style cache cleared")
}

// ToggleFavorite flips the favorite flag of style and persists metadata. It
// returns the new flag. A persistence error leaves the in-memory toggle in
// place.
func (c *Catalog) ToggleFavorite(style string) (bool, error) {
	_, fav := c.favorites[style]
	if fav {
		delete(c.favorites, style)
	} else {
		c.favorites[style] = struct{}{}
	}
	return !fav, c.saveMetadata()
}

// IsFavorite reports whether style is a favorite.
func (c *Catalog) IsFavorite(style string) bool {
	_, ok := c.favorites[style]
	return ok
}

// Favorites lists favorite styles alphabetically.
func (c *Catalog) Favorites() []string {
	out := make([]string, 0, len(c.favorites))
	for style := range c.favorites {
		out = append(out, style)
	}
	slices.Sort(out)
	return out
}

// RecordUsage increments the usage counter of style and persists metadata.
func (c *Catalog) RecordUsage(style string) error {
	style = strings.TrimSpace(style)
	if style == "" {
		return nil
	}
	c.usage[style]++
	return c.saveMetadata()
}

// UsageCount returns how often style was used.
func (c *Catalog) UsageCount(style string) int {
	return c.usage[style]
}

// MostUsed returns up to limit styles by descending usage count, ties broken
// alphabetically. limit <= 0 returns all.
func (c *Catalog) MostUsed(limit int) []string {
	out := make([]string, 0, len(c.usage))
	for style, n := range c.usage {
		if n > 0 {
			out = append(out, style)
		}
	}
	slices.SortFunc(out, func(a, b string) int {
		return cmp.Or(cmp.Compare(c.usage[b], c.usage[a]), cmp.Compare(a, b))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (c *Catalog) loadMetadata() error {
	var md metadata
	found, err := persist.ReadJSON(c.metadataPath, &md)
	if err != nil || !found {
		return err
	}
	for _, style := range md.Favorites {
		c.favorites[style] = struct{}{}
	}
	for style, n := range md.UsageStats {
		if n > 0 {
			c.usage[style] = n
		}
	}
	return nil
}

func (c *Catalog) saveMetadata() error {
	md := metadata{
		Favorites:  c.Favorites(),
		UsageStats: c.usage,
	}
	if err := persist.WriteJSON(c.metadataPath, md); err != nil {
		logger.Error("Error saving style metadata: %v", err)
		return err
	}
	return nil
}
