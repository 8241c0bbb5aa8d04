package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startsnapfun/startsnap-backend/errs"
)

// Magic-number prefixes for the allowed formats, padded so content sniffing
// has a full block to look at.
func fakeImage(magic []byte, size int) []byte {
	data := make([]byte, size)
	copy(data, magic)
	return data
}

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jpegMagic = []byte{0xff, 0xd8, 0xff, 0xe0}
	gifMagic  = []byte("GIF89a")
)

func webpMagic() []byte {
	b := []byte("RIFF\x00\x00\x00\x00WEBPVP8 ")
	return b
}

func TestValidateImageAcceptsKnownFormats(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png", fakeImage(pngMagic, 1024), "image/png"},
		{"jpeg", fakeImage(jpegMagic, 2*1024*1024), "image/jpeg"},
		{"gif", fakeImage(gifMagic, 1024), "image/gif"},
		{"webp", fakeImage(webpMagic(), 1024), "image/webp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contentType, err := ValidateImage(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, contentType)
		})
	}
}

func TestValidateImageRejectsOversize(t *testing.T) {
	_, err := ValidateImage(fakeImage(jpegMagic, MaxImageSize+1))
	require.Error(t, err)
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusRequestEntityTooLarge, apiErr.StatusCode)
}

func TestValidateImageExactSizeLimitPasses(t *testing.T) {
	_, err := ValidateImage(fakeImage(pngMagic, MaxImageSize))
	assert.NoError(t, err)
}

func TestValidateImageRejectsNonImages(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"plain text", []byte("hello, definitely not an image")},
		{"html", []byte("<html><body>nope</body></html>")},
		{"pdf", append([]byte("%PDF-1.4"), make([]byte, 600)...)},
		{"empty", nil},
		{"svg", []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"/>`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateImage(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestValidateImageIgnoresFileNameAndTrustsBytes(t *testing.T) {
	// Executable bytes stay rejected no matter what the client claimed.
	elf := append([]byte{0x7f, 'E', 'L', 'F'}, make([]byte, 600)...)
	_, err := ValidateImage(elf)
	assert.Error(t, err)
}

func TestKeyFromURL(t *testing.T) {
	store := &S3ImageStore{publicBaseURL: "https://cdn.example.com"}

	key, err := store.keyFromURL("https://cdn.example.com/user-1/pic.png")
	require.NoError(t, err)
	assert.Equal(t, "user-1/pic.png", key)

	_, err = store.keyFromURL("https://elsewhere.example.com/user-1/pic.png")
	assert.Error(t, err, "foreign host must be refused")

	_, err = store.keyFromURL("https://cdn.example.com/user-1/../user-2/pic.png")
	assert.Error(t, err, "path traversal must be refused")

	_, err = store.keyFromURL("https://cdn.example.com/")
	assert.Error(t, err, "empty key must be refused")
}
