package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFileHeader(t *testing.T, name string, w, h int) *multipart.FileHeader {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var raw bytes.Buffer
	require.NoError(t, png.Encode(&raw, img))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="`+name+`"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(raw.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestRemoved(t *testing.T) {
	got := Removed([]string{"a", "b", "c"}, []string{"b", "d"})
	assert.Equal(t, []string{"a", "c"}, got)
	assert.Empty(t, Removed(nil, []string{"x"}))
}

func TestLocalDisk_PutConvertsToWebPAndDelete(t *testing.T) {
	root := t.TempDir()
	d, err := NewLocalDisk(root, "/uploads/")
	require.NoError(t, err)
	d.Now = func() time.Time { return time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC) }

	url, err := d.Put(context.Background(), "membership-packages", pngFileHeader(t, "gold.png", 2000, 1000))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/membership-packages/2025/01/"))
	assert.True(t, strings.HasSuffix(url, ".webp"))

	full := filepath.Join(root, strings.TrimPrefix(url, "/uploads/"))
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data[:4]))

	require.NoError(t, d.Delete(context.Background(), url))
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))

	// file yang sudah hilang bukan error
	require.NoError(t, d.Delete(context.Background(), url))
	assert.Error(t, d.Delete(context.Background(), "https://elsewhere/x.webp"))
	assert.Error(t, d.Delete(context.Background(), "/uploads/../etc/passwd"))
}

func TestLocalDisk_RejectsNonImage(t *testing.T) {
	d, err := NewLocalDisk(t.TempDir(), "/uploads")
	require.NoError(t, err)
	_, err = d.Put(context.Background(), "x", &multipart.FileHeader{Filename: "doc.pdf", Size: 10})
	assert.Error(t, err)
}

func TestDeleteManyBestEffort_ContinuesOnFailure(t *testing.T) {
	d := NewMemoryDisk()
	d.Add("/a.webp", "/b.webp", "/c.webp")
	d.FailOn["/b.webp"] = errors.New("boom")

	DeleteManyBestEffort(context.Background(), d, []string{"/a.webp", "/b.webp", "", "/c.webp"})

	assert.ElementsMatch(t, []string{"/a.webp", "/c.webp"}, d.DeletedURLs())
}

func TestOSSDisk_KeyFromURL(t *testing.T) {
	d := &OSSDisk{Endpoint: "https://oss-ap-southeast-5.aliyuncs.com", BucketName: "gymku"}
	url := d.PublicURL("gymku/classes/a.webp")
	assert.Equal(t, "https://gymku.oss-ap-southeast-5.aliyuncs.com/gymku/classes/a.webp", url)

	key, err := d.keyFromURL(url)
	require.NoError(t, err)
	assert.Equal(t, "gymku/classes/a.webp", key)

	d.PublicBase = "https://cdn.gymku.id"
	key, err = d.keyFromURL("https://cdn.gymku.id/gymku/x.webp")
	require.NoError(t, err)
	assert.Equal(t, "gymku/x.webp", key)
}
