// Package discovery finds Rust source files and pairs each with its
// Markdown spec file.
package discovery

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

const (
	// SourceExt is the extension of discovered source files.
	SourceExt = ".rs"

	// SpecExt replaces SourceExt in the paired spec path.
	SpecExt = ".md"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Pair is a source file and the spec file expected to describe it.
type Pair struct {
	Source  string // path of the .rs file
	RelPath string // Source relative to the source dir, slash separated
	Spec    string // <spec-dir>/<RelPath with .md extension>
	HasSpec bool   // whether Spec exists
}

// FileDiscovery walks a source directory and pairs files with specs.
type FileDiscovery struct {
	srcDir          string
	specDir         string
	excludePatterns []compiledPattern
}

// NewFileDiscovery creates a discovery for srcDir/specDir. Exclude patterns
// are globs matched against paths relative to srcDir.
func NewFileDiscovery(srcDir, specDir string, exclude []string) (*FileDiscovery, error) {
	fd := &FileDiscovery{
		srcDir:  srcDir,
		specDir: specDir,
	}

	for _, pattern := range exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		fd.excludePatterns = append(fd.excludePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	return fd, nil
}

// DiscoverPairs walks the source tree in lexical order and returns one pair
// per .rs file that is not excluded.
func (fd *FileDiscovery) DiscoverPairs() ([]Pair, error) {
	pairs := []Pair{}

	err := filepath.Walk(fd.srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || filepath.Ext(path) != SourceExt {
			return nil
		}

		relPath, err := filepath.Rel(fd.srcDir, path)
		if err != nil {
			return err
		}

		// Normalize path separators for glob matching
		relPath = filepath.ToSlash(relPath)

		if fd.shouldExclude(relPath) {
			return nil
		}

		specPath := SpecPathFor(fd.specDir, relPath)
		pairs = append(pairs, Pair{
			Source:  path,
			RelPath: relPath,
			Spec:    specPath,
			HasSpec: isFile(specPath),
		})
		return nil
	})

	return pairs, err
}

// SpecPathFor maps a source path relative to the source dir onto the spec
// dir: "net/tcp.rs" -> "<specDir>/net/tcp.md".
func SpecPathFor(specDir, relPath string) string {
	rel := filepath.FromSlash(relPath)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + SpecExt
	return filepath.Join(specDir, rel)
}

// shouldExclude checks if a path matches any exclude pattern.
func (fd *FileDiscovery) shouldExclude(relPath string) bool {
	if matchesAnyPattern(relPath, fd.excludePatterns) {
		return true
	}

	// A pattern matching a parent directory excludes everything below it,
	// so "generated" excludes "generated/a/b.rs".
	dir := relPath
	for {
		i := strings.LastIndex(dir, "/")
		if i < 0 {
			return false
		}
		dir = dir[:i]
		if matchesAnyPattern(dir, fd.excludePatterns) {
			return true
		}
	}
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// Special handling: if path is in root (no slash), also try matching against
	// patterns with **/ prefix removed. This makes "**/*.rs" match both "lib.rs"
	// and "net/tcp.rs" as users would expect.
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if simplifiedGlob, err := glob.Compile(simplified, '/'); err == nil {
					if simplifiedGlob.Match(path) {
						return true
					}
				}
			}
		}
	}

	return false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
