package v1

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/image/draw"

	"cvchain-backend/internal/domain"
	"cvchain-backend/pkg/apperror"
	"cvchain-backend/pkg/logger"
	"cvchain-backend/pkg/security"
)

const (
	maxUploadBytes    = 10 << 20 // 10 MiB
	photoMaxDimension = 1200
	photoJPEGQuality  = 80
)

// UploadPhoto stores a compressed profile photo inline on the caller's
// user record, as a data URL in the profilePhoto field.
func (h *UserHandler) UploadPhoto(c *gin.Context) {
	userID := c.Param("id")
	if userID != c.GetString(string(domain.KeyUserID)) {
		c.Error(apperror.Forbidden("You can only update your own profile"))
		return
	}

	data, filename, err := readUpload(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := security.ValidatePhoto(filename, data); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	contentType := http.DetectContentType(data)
	compressed, err := compressImage(data, photoMaxDimension, photoJPEGQuality)
	if err != nil {
		// Keep the original when it decodes poorly; size cap still applies.
		logger.Log.Warn("image compression failed, using original", "error", err)
		compressed = data
	} else {
		contentType = "image/jpeg"
	}

	photo := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(compressed))
	h.submitUpdate(c, userID, map[string]string{"profilePhoto": photo})
}

// UploadCV stores the caller's CV inline on the user record as a cvData
// attachment.
func (h *UserHandler) UploadCV(c *gin.Context) {
	userID := c.Param("id")
	if userID != c.GetString(string(domain.KeyUserID)) {
		c.Error(apperror.Forbidden("You can only update your own profile"))
		return
	}

	data, filename, err := readUpload(c)
	if err != nil {
		c.Error(err)
		return
	}
	if err := security.ValidateCV(filename, data); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	ts := txNow()
	attachment := domain.Attachment{
		FileName:   filename,
		FileSize:   int64(len(data)),
		MimeType:   http.DetectContentType(data),
		UploadedAt: ts.ISO(),
		Content:    base64.StdEncoding.EncodeToString(data),
	}
	h.submitUpdate(c, userID, map[string]domain.Attachment{"cvData": attachment})
}

func readUpload(c *gin.Context) ([]byte, string, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, "", apperror.BadRequest("No file uploaded")
	}
	if file.Size > maxUploadBytes {
		return nil, "", apperror.BadRequest("File exceeds the 10MB upload limit")
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", apperror.Internal(err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return nil, "", apperror.Internal(err)
	}
	if len(data) > maxUploadBytes {
		return nil, "", apperror.BadRequest("File exceeds the 10MB upload limit")
	}
	return data, file.Filename, nil
}

// compressImage scales the image down to maxDimension on its longer side
// and re-encodes it as JPEG.
func compressImage(data []byte, maxDimension, quality int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image (format %q): %w", format, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	newWidth, newHeight := width, height
	if width >= height && width > maxDimension {
		newWidth = maxDimension
		newHeight = height * maxDimension / width
	} else if height > width && height > maxDimension {
		newHeight = maxDimension
		newWidth = width * maxDimension / height
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
