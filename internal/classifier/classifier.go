// Package classifier maps file names to category folder names by extension.
package classifier

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Others is the category for every extension without a rule, including files
// without an extension.
const Others = "Others"

var builtinRules = map[string]string{
	"jpg":  "Images",
	"jpeg": "Images",
	"png":  "Images",
	"gif":  "Images",
	"pdf":  "Documents",
	"doc":  "Documents",
	"docx": "Documents",
	"txt":  "Documents",
	"mp3":  "Music",
	"wav":  "Music",
	"mp4":  "Videos",
	"mkv":  "Videos",
}

var defaultClassifier = New(nil)

// Classifier resolves categories from an immutable extension table.
type Classifier struct {
	rules map[string]string
}

// New returns a classifier using the built-in table plus extra rules. Extra
// rules only add extensions; entries that collide with a built-in extension
// are ignored.
func New(extra map[string]string) *Classifier {
	rules := make(map[string]string, len(builtinRules)+len(extra))
	for ext, category := range builtinRules {
		rules[ext] = category
	}
	for ext, category := range extra {
		key := ruleKey(ext)
		category = strings.TrimSpace(category)
		if key == "" || category == "" {
			continue
		}
		if _, builtin := builtinRules[key]; builtin {
			continue
		}
		rules[key] = category
	}
	return &Classifier{rules: rules}
}

// Default returns the classifier backed by the built-in table only.
func Default() *Classifier {
	return defaultClassifier
}

// Classify returns the category for a file name using the built-in table.
func Classify(name string) string {
	return defaultClassifier.Classify(name)
}

// Classify returns the category for name. It never fails.
func (c *Classifier) Classify(name string) string {
	if c == nil {
		return defaultClassifier.Classify(name)
	}
	if category, ok := c.rules[Extension(name)]; ok {
		return category
	}
	return Others
}

// Rule reports the category bound to ext, if any. ext is normalized the same
// way as the keys passed to New, so ".7Z" and "7z" are equivalent.
func (c *Classifier) Rule(ext string) (string, bool) {
	if c == nil {
		c = defaultClassifier
	}
	category, ok := c.rules[ruleKey(ext)]
	return category, ok
}

// Categories lists every category the classifier can produce, Others included,
// in sorted order.
func (c *Classifier) Categories() []string {
	seen := map[string]struct{}{Others: {}}
	for _, category := range c.rules {
		seen[category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for category := range seen {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}

// Extension returns the lowercased text after the last dot of name, or an
// empty string when name has no dot.
func Extension(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return ""
	}
	return normalizeExtension(name[idx+1:])
}

// ruleKey normalizes a configured extension: surrounding spaces and one
// leading dot are dropped, then it is lowercased.
func ruleKey(ext string) string {
	return normalizeExtension(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

func normalizeExtension(ext string) string {
	if ext == "" {
		return ""
	}
	return cases.Lower(language.Und).String(ext)
}
