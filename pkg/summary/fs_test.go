package summary

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeFromFs(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/doc/header", []byte("title"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/doc/body/content", []byte("hello"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/doc/body/raw.bin", []byte{0xff, 0xfe, 0x00}, 0o644))

	tree, err := TreeFromFs(fsys, "/doc")
	require.NoError(t, err)

	header, ok := tree.Entries["header"].(*Blob)
	require.True(t, ok)
	assert.Equal(t, []byte("title"), header.Content)
	assert.Equal(t, EncodingUTF8, header.Encoding)

	body, ok := tree.Entries["body"].(*Tree)
	require.True(t, ok)

	raw, ok := body.Entries["raw.bin"].(*Blob)
	require.True(t, ok)
	assert.Equal(t, EncodingBase64, raw.Encoding)
}

func TestWriteSnapshotRoundTrip(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/in/header", []byte("title"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/in/body/content", []byte("hello"), 0o644))

	tree, err := TreeFromFs(fsys, "/in")
	require.NoError(t, err)

	whole, err := ConvertToWholeTree("", tree, "", DefaultTreePrefix)
	require.NoError(t, err)
	flat, err := FlattenWholeTree(whole, DefaultTreePrefix, 1)
	require.NoError(t, err)
	normalized, err := NormalizeFlatSummary(flat, DefaultTreePrefix)
	require.NoError(t, err)

	require.NoError(t, WriteSnapshot(fsys, "/out", normalized))

	header, err := afero.ReadFile(fsys, "/out/header")
	require.NoError(t, err)
	assert.Equal(t, []byte("title"), header)

	content, err := afero.ReadFile(fsys, "/out/body/content")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), content)
}

func TestWriteSnapshotMissingBlob(t *testing.T) {
	fsys := afero.NewMemMapFs()
	n := &NormalizedWholeSummary{
		SnapshotTree: &SnapshotTree{
			Blobs: map[string]string{"header": "gone"},
			Trees: map[string]*SnapshotTree{},
		},
		Blobs: map[string][]byte{},
	}
	assert.Error(t, WriteSnapshot(fsys, "/out", n))
}
