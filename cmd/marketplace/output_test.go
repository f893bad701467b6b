package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/client/internal/apperr"
	"marketplace/client/internal/models"
)

func TestDescribe(t *testing.T) {
	assert.Equal(t, "invalid input: too big",
		describe(apperr.Validation("media.validate", apperr.ErrFileTooLarge, "too big")))
	assert.Equal(t, "not allowed: Invalid credentials",
		describe(&apperr.Error{Kind: apperr.KindAuth, Op: "auth.login", Status: 400, Message: "Invalid credentials"}))
	assert.Equal(t, "not found: Product not found",
		describe(&apperr.Error{Kind: apperr.KindNotFound, Op: "products.get", Status: 404, Message: "Product not found"}))
	assert.Equal(t, "plain", describe(errors.New("plain")))
}

func TestPrintProducts(t *testing.T) {
	var buf bytes.Buffer
	err := printProducts(&buf, false, []models.Product{
		{ID: "p1", Name: "Lamp", Price: decimal.RequireFromString("12.5"), Quantity: 3, UserID: "u1"},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "12.50")
	assert.Contains(t, buf.String(), "Lamp")

	buf.Reset()
	require.NoError(t, printProducts(&buf, true, []models.Product{{ID: "p1"}}))
	assert.Contains(t, buf.String(), `"id": "p1"`)
}

func TestReadFileDetectsType(t *testing.T) {
	dir := t.TempDir()

	gif := filepath.Join(dir, "mislabelled.bin")
	require.NoError(t, os.WriteFile(gif, []byte("GIF89a...."), 0o600))
	f, err := readFile(gif, "")
	require.NoError(t, err)
	assert.Equal(t, "image/gif", f.ContentType)
	assert.Equal(t, "mislabelled.bin", f.Name)
	assert.Equal(t, int64(10), f.Size)

	blank := filepath.Join(dir, "photo.png")
	require.NoError(t, os.WriteFile(blank, []byte("not an image"), 0o600))
	f, err = readFile(blank, "")
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType)

	f, err = readFile(blank, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", f.ContentType)

	_, err = readFile(filepath.Join(dir, "missing.png"), "")
	assert.Error(t, err)
}
