package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for FileDiscovery:
// - Every .rs file under the source dir becomes a pair, in lexical order
// - Non-.rs files are skipped
// - Pairs point at <spec-dir>/<relative path>.md and report whether it exists
// - Nested directories are mirrored in the spec path
// - Exclude patterns skip files, including root files via **/ simplification
// - A pattern matching a directory excludes everything below it
// - Invalid glob patterns are rejected
// - A missing source directory is an error
// - SpecPathFor replaces only the final extension

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func setupTree(t *testing.T) (srcDir, specDir string) {
	t.Helper()
	root := t.TempDir()
	srcDir = filepath.Join(root, "src")
	specDir = filepath.Join(root, "spec")

	writeFile(t, filepath.Join(srcDir, "lib.rs"), "pub struct A;")
	writeFile(t, filepath.Join(srcDir, "net", "tcp.rs"), "pub struct B;")
	writeFile(t, filepath.Join(srcDir, "net", "udp.rs"), "pub struct C;")
	writeFile(t, filepath.Join(srcDir, "generated", "bindings.rs"), "pub struct D;")
	writeFile(t, filepath.Join(srcDir, "README.md"), "# not a source")
	writeFile(t, filepath.Join(srcDir, "build.rs.bak"), "")

	writeFile(t, filepath.Join(specDir, "lib.md"), "```rust\npub struct A;\n```\n")
	writeFile(t, filepath.Join(specDir, "net", "tcp.md"), "```rust\npub struct B;\n```\n")

	return srcDir, specDir
}

func relPaths(pairs []Pair) []string {
	var out []string
	for _, p := range pairs {
		out = append(out, p.RelPath)
	}
	return out
}

func TestDiscoverPairs_PairsEverySourceFile(t *testing.T) {
	t.Parallel()

	srcDir, specDir := setupTree(t)

	fd, err := NewFileDiscovery(srcDir, specDir, nil)
	require.NoError(t, err)

	pairs, err := fd.DiscoverPairs()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"generated/bindings.rs",
		"lib.rs",
		"net/tcp.rs",
		"net/udp.rs",
	}, relPaths(pairs))

	byRel := make(map[string]Pair)
	for _, p := range pairs {
		byRel[p.RelPath] = p
	}

	lib := byRel["lib.rs"]
	assert.Equal(t, filepath.Join(srcDir, "lib.rs"), lib.Source)
	assert.Equal(t, filepath.Join(specDir, "lib.md"), lib.Spec)
	assert.True(t, lib.HasSpec)

	tcp := byRel["net/tcp.rs"]
	assert.Equal(t, filepath.Join(specDir, "net", "tcp.md"), tcp.Spec)
	assert.True(t, tcp.HasSpec)

	udp := byRel["net/udp.rs"]
	assert.Equal(t, filepath.Join(specDir, "net", "udp.md"), udp.Spec)
	assert.False(t, udp.HasSpec)
}

func TestDiscoverPairs_Exclude(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		exclude []string
		want    []string
	}{
		{
			name:    "directory glob",
			exclude: []string{"generated/**"},
			want:    []string{"lib.rs", "net/tcp.rs", "net/udp.rs"},
		},
		{
			name:    "bare directory name",
			exclude: []string{"generated"},
			want:    []string{"lib.rs", "net/tcp.rs", "net/udp.rs"},
		},
		{
			name:    "single file",
			exclude: []string{"net/udp.rs"},
			want:    []string{"generated/bindings.rs", "lib.rs", "net/tcp.rs"},
		},
		{
			name:    "double star prefix matches root files",
			exclude: []string{"**/lib.rs"},
			want:    []string{"generated/bindings.rs", "net/tcp.rs", "net/udp.rs"},
		},
		{
			name:    "single star does not cross directories",
			exclude: []string{"*.rs"},
			want:    []string{"generated/bindings.rs", "net/tcp.rs", "net/udp.rs"},
		},
		{
			name:    "everything",
			exclude: []string{"**/*.rs"},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srcDir, specDir := setupTree(t)

			fd, err := NewFileDiscovery(srcDir, specDir, tt.exclude)
			require.NoError(t, err)

			pairs, err := fd.DiscoverPairs()
			require.NoError(t, err)
			assert.Equal(t, tt.want, relPaths(pairs))
		})
	}
}

func TestNewFileDiscovery_InvalidPattern(t *testing.T) {
	t.Parallel()

	fd, err := NewFileDiscovery("src", "spec", []string{"[unclosed"})
	assert.Error(t, err)
	assert.Nil(t, fd)
}

func TestDiscoverPairs_MissingSourceDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fd, err := NewFileDiscovery(filepath.Join(root, "nope"), filepath.Join(root, "spec"), nil)
	require.NoError(t, err)

	_, err = fd.DiscoverPairs()
	assert.Error(t, err)
}

func TestDiscoverPairs_EmptySourceDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fd, err := NewFileDiscovery(root, filepath.Join(root, "spec"), nil)
	require.NoError(t, err)

	pairs, err := fd.DiscoverPairs()
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestSpecPathFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("spec", "lib.md"), SpecPathFor("spec", "lib.rs"))
	assert.Equal(t, filepath.Join("spec", "a", "b", "c.md"), SpecPathFor("spec", "a/b/c.rs"))
	assert.Equal(t, filepath.Join("docs", "v1.2", "mod.md"), SpecPathFor("docs", "v1.2/mod.rs"))
}
