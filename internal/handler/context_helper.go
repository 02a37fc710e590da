package handler

import (
	"mime/multipart"
	"strings"

	"github.com/noah-isme/openlearn-hub-api/internal/models"
)

// Struct fields validated at the boundary are single words.
func jsonName(field string) string {
	return strings.ToLower(field)
}

func attachedFileFromHeader(fh *multipart.FileHeader) *models.AttachedFile {
	if fh == nil {
		return nil
	}
	return &models.AttachedFile{
		Name:     fh.Filename,
		Size:     fh.Size,
		MimeType: fh.Header.Get("Content-Type"),
	}
}
