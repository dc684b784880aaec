package selector

import (
	"path"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Pattern is a named, case-insensitive glob over a directory name. Directories
// matching any pattern are forwarded to the renamer as a unit.
type Pattern struct {
	Name string // stable identifier, e.g. "scans"
	Glob string // matched against the folded directory name
}

// DefaultPatterns are the bonus-content directory names recognized out of the
// box. Anime and music releases commonly ship these alongside the episodes.
var DefaultPatterns = []Pattern{
	{Name: "scans", Glob: "scans"},
	{Name: "specials", Glob: "specials"},
	{Name: "sps", Glob: "sps"},
	{Name: "cds", Glob: "cds"},
	{Name: "bonus", Glob: "bonus*"},
	{Name: "extras", Glob: "extras"},
	{Name: "tokuten", Glob: "特典*"},
	{Name: "menu", Glob: "メニュー*"},
}

// DefaultExtensions are the file extensions forwarded to the renamer: video
// containers plus the subtitle formats the renamer knows how to re-tag.
var DefaultExtensions = []string{
	".mkv", ".mp4", ".avi", ".mov",
	".ass", ".srt", ".ssa", ".sub", ".idx",
}

// DefaultMetadata are reserved filesystem junk names that are never forwarded,
// regardless of any other rule.
var DefaultMetadata = []string{".DS_Store"}

// RuleSet decides which direct children of a torrent directory are forwarded.
// An entry is selected when it is a regular file with a recognized extension,
// or a directory whose name matches one of the patterns. Reserved metadata
// names are excluded before any rule runs.
type RuleSet struct {
	patterns   []Pattern
	extensions map[string]struct{}
	metadata   map[string]struct{}
}

// NewRuleSet builds a RuleSet. Nil slices fall back to the defaults.
func NewRuleSet(patterns []Pattern, extensions, metadata []string) RuleSet {
	if patterns == nil {
		patterns = DefaultPatterns
	}
	if extensions == nil {
		extensions = DefaultExtensions
	}
	if metadata == nil {
		metadata = DefaultMetadata
	}

	rs := RuleSet{
		patterns:   make([]Pattern, len(patterns)),
		extensions: make(map[string]struct{}, len(extensions)),
		metadata:   make(map[string]struct{}, len(metadata)),
	}
	for i, p := range patterns {
		rs.patterns[i] = Pattern{Name: p.Name, Glob: fold(p.Glob)}
	}
	for _, ext := range extensions {
		rs.extensions[fold(ext)] = struct{}{}
	}
	for _, name := range metadata {
		rs.metadata[name] = struct{}{}
	}
	return rs
}

// DefaultRuleSet returns the built-in rules.
func DefaultRuleSet() RuleSet {
	return NewRuleSet(nil, nil, nil)
}

// IsMetadata reports whether name is a reserved junk filename. The match is
// exact: these are fixed names the OS generates, not user content.
func (rs RuleSet) IsMetadata(name string) bool {
	_, ok := rs.metadata[name]
	return ok
}

// MatchFile reports whether a regular file with the given name is selected.
func (rs RuleSet) MatchFile(name string) bool {
	ext := path.Ext(fold(name))
	_, ok := rs.extensions[ext]
	return ok
}

// MatchDir reports whether a directory with the given name is selected, and
// which pattern matched.
func (rs RuleSet) MatchDir(name string) (Pattern, bool) {
	folded := fold(name)
	for _, p := range rs.patterns {
		// Glob comes pre-folded; a malformed pattern simply never matches.
		if ok, err := path.Match(p.Glob, folded); err == nil && ok {
			return p, true
		}
	}
	return Pattern{}, false
}

// Patterns returns the directory patterns sorted by name, for display.
func (rs RuleSet) Patterns() []Pattern {
	out := make([]Pattern, len(rs.patterns))
	copy(out, rs.patterns)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Extensions returns the recognized file extensions, sorted.
func (rs RuleSet) Extensions() []string {
	out := make([]string, 0, len(rs.extensions))
	for ext := range rs.extensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Metadata returns the reserved junk filenames, sorted.
func (rs RuleSet) Metadata() []string {
	out := make([]string, 0, len(rs.metadata))
	for name := range rs.metadata {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// fold canonicalizes a name for matching: NFC normalization (macOS volumes
// store decomposed forms) then lowercasing. Emitted output always keeps the
// original on-disk bytes.
func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
