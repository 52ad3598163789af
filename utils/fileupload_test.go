package utils

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestFileHeader creates a mock multipart.FileHeader for testing
func createTestFileHeader(filename string, size int64, content []byte) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", "image/png")
	part, _ := writer.CreatePart(h)
	part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(int64(len(content)) + 1024)
	defer form.RemoveAll()

	if len(form.File["file"]) > 0 {
		fileHeader := form.File["file"][0]
		// Override size for testing purposes
		fileHeader.Size = size
		return fileHeader
	}

	return nil
}

func TestValidateImageFile_Success(t *testing.T) {
	content := []byte("fake png content")
	fileHeader := createTestFileHeader("menu-item.png", int64(len(content)), content)
	require.NotNil(t, fileHeader)

	err := ValidateImageFile(fileHeader)
	assert.NoError(t, err)
}

func TestValidateImageFile_FileTooLarge(t *testing.T) {
	content := []byte("fake png content")
	fileHeader := createTestFileHeader("large.png", 11*1024*1024, content)
	require.NotNil(t, fileHeader)

	err := ValidateImageFile(fileHeader)
	assert.Error(t, err)

	fileErr, ok := err.(*FileUploadError)
	require.True(t, ok, "Error should be of type FileUploadError")
	assert.Equal(t, "FILE_TOO_LARGE", fileErr.Code)
}

func TestValidateImageFile_InvalidFormat(t *testing.T) {
	for _, filename := range []string{"photo.jpg", "photo.jpeg", "animation.gif", "noextension"} {
		content := []byte("fake content")
		fileHeader := createTestFileHeader(filename, int64(len(content)), content)
		require.NotNil(t, fileHeader)

		err := ValidateImageFile(fileHeader)
		assert.Error(t, err, "file %s should be rejected", filename)

		fileErr, ok := err.(*FileUploadError)
		require.True(t, ok, "Error should be of type FileUploadError")
		assert.Equal(t, "INVALID_FILE_FORMAT", fileErr.Code)
	}
}

func TestValidateImageFile_CaseInsensitiveExtension(t *testing.T) {
	content := []byte("fake png content")
	fileHeader := createTestFileHeader("menu-item.PNG", int64(len(content)), content)
	require.NotNil(t, fileHeader)

	err := ValidateImageFile(fileHeader)
	assert.NoError(t, err)
}
