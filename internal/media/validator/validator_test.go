package validator

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/client/internal/apperr"
	"marketplace/client/internal/models"
)

const (
	kib = 1024
	mib = 1024 * 1024
)

func TestCheckThresholds(t *testing.T) {
	v := Default()

	big := models.File{Name: "big.jpg", ContentType: "image/jpeg", Size: 3 * mib}
	res := v.Check(big)
	require.False(t, res.OK)
	assert.ErrorIs(t, res.Err, apperr.ErrFileTooLarge)
	assert.Equal(t, "File size exceeds maximum limit of 2MB. Current size: 3.00MB", res.Reason)

	text := models.File{Name: "notes.txt", ContentType: "text/plain", Size: 1 * mib}
	res = v.Check(text)
	require.False(t, res.OK)
	assert.ErrorIs(t, res.Err, apperr.ErrUnsupportedType)
	assert.Equal(t, "Invalid file type: text/plain. Allowed types: JPEG, PNG, GIF, WebP", res.Reason)

	png := models.File{Name: "photo.png", ContentType: "image/png", Size: 500 * kib}
	res = v.Check(png)
	assert.True(t, res.OK)
	assert.Equal(t, "image/png", res.ContentType)
}

func TestGuardAndPredicateAgree(t *testing.T) {
	v := Default()
	files := []models.File{
		{Name: "big.jpg", ContentType: "image/jpeg", Size: 3 * mib},
		{Name: "notes.txt", ContentType: "text/plain", Size: mib},
		{Name: "photo.png", ContentType: "image/png", Size: 500 * kib},
		{Name: "edge.gif", ContentType: "image/gif", Size: 2 * mib},
		{Name: "over.gif", ContentType: "image/gif", Size: 2*mib + 1},
		{Name: "empty.png", ContentType: "image/png"},
	}
	for _, f := range files {
		err := v.Validate(f)
		assert.Equal(t, err == nil, v.IsValid(f), f.Name)
		if err != nil {
			assert.True(t, apperr.IsValidation(err), f.Name)
		}
	}
}

func TestValidateReturnsClassifiedError(t *testing.T) {
	err := Default().Validate(models.File{Name: "big.jpg", ContentType: "image/jpeg", Size: 3 * mib})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrFileTooLarge))
	assert.Contains(t, apperr.Reason(err), "exceeds maximum limit of 2MB")
}

func TestExtensionCheck(t *testing.T) {
	v := Default()
	res := v.Check(models.File{Name: "photo.bmp", ContentType: "image/png", Size: kib})
	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, apperr.ErrUnsupportedType)

	relaxed := New(Rules{CheckExtension: false})
	assert.True(t, relaxed.IsValid(models.File{Name: "photo.bmp", ContentType: "image/png", Size: kib}))
}

func TestSniffing(t *testing.T) {
	v := Default()
	pngBytes := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0}, 64)...)

	res := v.Check(models.File{Name: "a.png", Content: pngBytes})
	require.True(t, res.OK, res.Reason)
	assert.Equal(t, "image/png", res.ContentType)

	res = v.Check(models.File{Name: "a.jpg", ContentType: "image/jpeg", Content: pngBytes})
	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, apperr.ErrUnsupportedType)

	res = v.Check(models.File{Name: "a.png", ContentType: "image/png", Content: []byte("hello")})
	assert.False(t, res.OK)
}

func TestFallbackToExtension(t *testing.T) {
	res := Default().Check(models.File{Name: "shot.webp", Size: kib})
	assert.True(t, res.OK)
	assert.Equal(t, "image/webp", res.ContentType)
}

func TestAccessors(t *testing.T) {
	v := New(Rules{MaxBytes: mib, AllowedTypes: []string{"image/png"}})
	assert.Equal(t, int64(mib), v.MaxFileSize())
	assert.Equal(t, []string{"image/png"}, v.AllowedTypes())

	res := v.Check(models.File{Name: "a.jpg", ContentType: "image/jpeg", Size: kib})
	assert.Equal(t, "Invalid file type: image/jpeg. Allowed types: PNG", res.Reason)

	res = v.Check(models.File{Name: "a.png", ContentType: "image/png", Size: 3 * mib / 2})
	assert.Equal(t, "File size exceeds maximum limit of 1MB. Current size: 1.50MB", res.Reason)
}
