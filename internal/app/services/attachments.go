package services

import (
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/filestorage"
)

// MessagingLimits bounds message payloads and the delete-for-everyone window
type MessagingLimits struct {
	MaxAttachments    int
	MaxAttachmentSize int64 // bytes
	DeleteWindow      time.Duration
}

// DefaultMessagingLimits are used when configuration leaves a field unset
var DefaultMessagingLimits = MessagingLimits{
	MaxAttachments:    5,
	MaxAttachmentSize: 10 << 20,
	DeleteWindow:      15 * time.Minute,
}

func (l MessagingLimits) withDefaults() MessagingLimits {
	if l.MaxAttachments <= 0 {
		l.MaxAttachments = DefaultMessagingLimits.MaxAttachments
	}
	if l.MaxAttachmentSize <= 0 {
		l.MaxAttachmentSize = DefaultMessagingLimits.MaxAttachmentSize
	}
	if l.DeleteWindow <= 0 {
		l.DeleteWindow = DefaultMessagingLimits.DeleteWindow
	}
	return l
}

// attachmentStore writes uploads to file storage and turns them into attachment rows
type attachmentStore struct {
	storage filestorage.FileStorage
	limits  MessagingLimits
	logger  zerolog.Logger
}

// validatePayload rejects empty messages and oversized uploads before anything is stored
func (a attachmentStore) validatePayload(text string, files []*multipart.FileHeader) error {
	if strings.TrimSpace(text) == "" && len(files) == 0 {
		return apperrors.NewBadRequestError("message text or at least one attachment is required")
	}
	if len(files) > a.limits.MaxAttachments {
		return apperrors.NewBadRequestError(fmt.Sprintf("at most %d attachments are allowed", a.limits.MaxAttachments))
	}
	for _, fh := range files {
		if fh.Size > a.limits.MaxAttachmentSize {
			return apperrors.NewBadRequestError(fmt.Sprintf("attachment %q exceeds the %d MB limit",
				fh.Filename, a.limits.MaxAttachmentSize>>20))
		}
	}
	return nil
}

// save stores every file under subPath. On failure the files already written
// are removed again.
func (a attachmentStore) save(files []*multipart.FileHeader, subPath string) ([]*models.Attachment, error) {
	atts := make([]*models.Attachment, 0, len(files))
	for _, fh := range files {
		stored, err := a.storage.SaveFileWithPath(fh, subPath)
		if err != nil {
			a.remove(atts)
			return nil, fmt.Errorf("store attachment %q: %w", fh.Filename, err)
		}
		atts = append(atts, &models.Attachment{
			FileName: stored.OriginalName,
			FilePath: stored.Path,
			FileURL:  stored.URL,
			FileType: models.CategoryForMIME(stored.MimeType),
			MimeType: stored.MimeType,
			FileSize: stored.Size,
		})
	}
	return atts, nil
}

// remove deletes stored files, logging instead of failing
func (a attachmentStore) remove(atts []*models.Attachment) {
	for _, att := range atts {
		if err := a.storage.DeleteFile(att.FilePath); err != nil {
			a.logger.Warn().Err(err).Str("path", att.FilePath).Msg("Failed to remove stored attachment")
		}
	}
}
