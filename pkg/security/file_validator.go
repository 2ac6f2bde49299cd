// Package security screens uploaded files before their content is
// stored inline on ledger records. Extension, magic bytes and detected
// MIME type must all agree; application/octet-stream is never accepted
// on its own.
package security

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var documentExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
}

// Magic byte prefixes per extension. An empty list means there is
// nothing to check (plain text).
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".gif":  {[]byte("GIF87a"), []byte("GIF89a")},
	".webp": {[]byte("RIFF")},
	".pdf":  {[]byte("%PDF")},
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}},
	".docx": {{0x50, 0x4B, 0x03, 0x04}},
	".txt":  {},
}

// ValidatePhoto accepts image uploads destined for the profilePhoto
// field.
func ValidatePhoto(filename string, data []byte) error {
	ext, err := checkFile(filename, data, photoExtensions)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return fmt.Errorf("file %s%s is not a valid image", sanitizeBase(filename), ext)
	}
	return nil
}

// ValidateCV accepts the document types a CV upload may carry.
func ValidateCV(filename string, data []byte) error {
	ext, err := checkFile(filename, data, documentExtensions)
	if err != nil {
		return err
	}

	// Legacy Office formats are often sniffed as octet-stream; the magic
	// byte check above already pinned those down.
	mime := http.DetectContentType(data)
	if mime == "application/octet-stream" && ext != ".doc" && ext != ".docx" {
		return fmt.Errorf("file type of %q could not be determined", sanitizeBase(filename))
	}
	return nil
}

func checkFile(filename string, data []byte, allowed map[string]bool) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "", fmt.Errorf("file %q has no extension", sanitizeBase(filename))
	}
	if !allowed[ext] {
		return "", fmt.Errorf("file extension %s is not allowed", ext)
	}
	if !matchesMagicBytes(ext, data) {
		return "", fmt.Errorf("file content does not match the %s extension", ext)
	}
	return ext, nil
}

func matchesMagicBytes(ext string, data []byte) bool {
	signatures, ok := magicBytes[ext]
	if !ok {
		return false
	}
	if len(signatures) == 0 {
		return true
	}
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// sanitizeBase strips any path component a hostile client put into the
// multipart filename.
func sanitizeBase(filename string) string {
	return filepath.Base(filepath.Clean(filename))
}
