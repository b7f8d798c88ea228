package lsp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sourcegraph/go-lsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*DocumentService, string) {
	t.Helper()

	shadowRoot := filepath.Join(t.TempDir(), "shadow-root")
	require.NoError(t, os.MkdirAll(shadowRoot, 0755))

	opts := DefaultDocumentServiceOptions
	opts.ShadowRoot = shadowRoot

	svc, err := NewDocumentService(opts)
	require.NoError(t, err)
	return svc, shadowRoot
}

func TestDocumentServiceOptionsValidate(t *testing.T) {
	opts := DefaultDocumentServiceOptions
	assert.NoError(t, opts.Validate())

	opts.ShadowRoot = ""
	assert.Error(t, opts.Validate())
}

func TestTransformShadowDoc(t *testing.T) {
	svc, shadowRoot := newTestService(t)

	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "bracket.md")
	originalURI := lsp.DocumentURI("file://" + srcPath)

	doc := "```apdl\n/PREP7\nFINISH\n```\n"

	shadowURI, err := svc.TransformShadowDoc(doc, originalURI)
	require.NoError(t, err)

	// The shadow file mirrors the source directory structure under the
	// shadow root, with a .py suffix appended.
	wantPath := filepath.Join(shadowRoot, srcPath) + ".py"
	assert.Equal(t, "file://"+wantPath, shadowURI)

	content, err := os.ReadFile(wantPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "mapdl.prep7()")
	assert.Contains(t, string(content), "launch_mapdl")
	// Shadow files skip the exit call since they are never executed.
	assert.NotContains(t, string(content), "mapdl.exit()")

	// URI mappings work both ways
	gotOriginal, exists := svc.OriginalURI(shadowURI)
	require.True(t, exists)
	assert.Equal(t, string(originalURI), gotOriginal)

	gotShadow, exists := svc.ShadowURI(string(originalURI))
	require.True(t, exists)
	assert.Equal(t, shadowURI, gotShadow)
}

func TestShadowURIUnknownDocument(t *testing.T) {
	svc, _ := newTestService(t)

	_, exists := svc.ShadowURI("file:///never/opened.md")
	assert.False(t, exists)

	_, exists = svc.OriginalURI("file:///never/opened.md.py")
	assert.False(t, exists)
}

func TestURIToPath(t *testing.T) {
	svc, _ := newTestService(t)

	path, err := svc.URIToPath(lsp.DocumentURI("file:///home/user/decks/bracket.md"))
	require.NoError(t, err)
	assert.Equal(t, "/home/user/decks/bracket.md", path)

	assert.Equal(t, "file:///home/user/decks/bracket.md", svc.PathToURI("/home/user/decks/bracket.md"))
}

func TestCleanupSkipsUserSpecifiedRoot(t *testing.T) {
	svc, shadowRoot := newTestService(t)

	srcPath := filepath.Join(t.TempDir(), "bracket.md")
	_, err := svc.TransformShadowDoc("```apdl\n/PREP7\n```\n", lsp.DocumentURI("file://"+srcPath))
	require.NoError(t, err)

	// Cleanup only touches the default workspace, never a root the user
	// pointed at explicitly.
	require.NoError(t, svc.CleanupShadowFiles())

	shadowPath := filepath.Join(shadowRoot, srcPath) + ".py"
	_, err = os.Stat(shadowPath)
	assert.NoError(t, err)
}
