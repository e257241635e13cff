package pictures_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"blogapp/internal/pictures"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestStore_SaveDownscalesToBound(t *testing.T) {
	dir := t.TempDir()
	store, err := pictures.NewStore(dir)
	require.NoError(t, err)

	name, err := store.Save(encodePNG(t, 500, 300), "vacation photo.png")
	require.NoError(t, err)

	// Random name, original extension, user-supplied name never reused.
	assert.NotEqual(t, "vacation photo.png", name)
	assert.Equal(t, ".png", filepath.Ext(name))
	assert.NotContains(t, name, "vacation")

	saved, err := imaging.Open(filepath.Join(dir, name))
	require.NoError(t, err)
	bounds := saved.Bounds()
	assert.LessOrEqual(t, bounds.Dx(), 125)
	assert.LessOrEqual(t, bounds.Dy(), 125)
	// Aspect ratio preserved: 500x300 fits to 125x75.
	assert.Equal(t, 125, bounds.Dx())
	assert.Equal(t, 75, bounds.Dy())
}

func TestStore_SaveNeverUpscales(t *testing.T) {
	dir := t.TempDir()
	store, err := pictures.NewStore(dir)
	require.NoError(t, err)

	name, err := store.Save(encodePNG(t, 50, 40), "tiny.png")
	require.NoError(t, err)

	saved, err := imaging.Open(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, 50, saved.Bounds().Dx())
	assert.Equal(t, 40, saved.Bounds().Dy())
}

func TestStore_SaveUniqueNames(t *testing.T) {
	dir := t.TempDir()
	store, err := pictures.NewStore(dir)
	require.NoError(t, err)

	first, err := store.Save(encodePNG(t, 10, 10), "same.png")
	require.NoError(t, err)
	second, err := store.Save(encodePNG(t, 10, 10), "same.png")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestStore_SaveRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	store, err := pictures.NewStore(dir)
	require.NoError(t, err)

	_, err = store.Save(bytes.NewBufferString("not an image"), "file.png")
	assert.Error(t, err)

	_, err = store.Save(encodePNG(t, 10, 10), "noextension")
	assert.Error(t, err)
}
