package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	pdfHeader = []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
)

func TestValidateMimeType(t *testing.T) {
	t.Run("PNGAsImage", func(t *testing.T) {
		mime, err := ValidateMimeType(bytes.NewReader(pngHeader), []string{MimeImage})
		require.NoError(t, err)
		assert.Equal(t, "image/png", mime)
	})

	t.Run("PDFAsPDF", func(t *testing.T) {
		mime, err := ValidateMimeType(bytes.NewReader(pdfHeader), []string{MimePDF})
		require.NoError(t, err)
		assert.Equal(t, MimePDF, mime)
	})

	t.Run("PDFRejectedAsImage", func(t *testing.T) {
		_, err := ValidateMimeType(bytes.NewReader(pdfHeader), []string{MimeImage})
		assert.Error(t, err)
	})

	t.Run("TextRejected", func(t *testing.T) {
		// 伪装成 PDF 的纯文本，内容嗅探应当拦下
		_, err := ValidateMimeType(bytes.NewReader([]byte("hello world")), []string{MimePDF, MimeImage})
		assert.Error(t, err)
	})
}

func TestIsImageIsPDF(t *testing.T) {
	assert.True(t, IsImage("image/png"))
	assert.True(t, IsImage("image/jpeg"))
	assert.False(t, IsImage("application/pdf"))

	assert.True(t, IsPDF("application/pdf"))
	assert.False(t, IsPDF("image/png"))
}
