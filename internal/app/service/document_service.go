package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"pinnacle_metals/internal/common"
	"pinnacle_metals/internal/domain/model"
	"pinnacle_metals/internal/domain/repository"

	"github.com/google/uuid"
)

// DocumentService records the documents users submit for verification.
// Files are held by an external store; only their metadata passes through here.
type DocumentService struct {
	documentRepo repository.DocumentRepository
}

func NewDocumentService(documentRepo repository.DocumentRepository) *DocumentService {
	return &DocumentService{documentRepo: documentRepo}
}

var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

type RegisterDocumentRequest struct {
	Type         string `json:"type" validate:"required,oneof=id proof_of_address business_doc other"`
	OriginalName string `json:"originalName" validate:"required,max=255"`
	MimeType     string `json:"mimeType" validate:"required"`
	Size         int64  `json:"size" validate:"required,min=1"`
}

func (s *DocumentService) Register(ctx context.Context, userID string, req RegisterDocumentRequest) (*model.Document, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	if !allowedMimeTypes[strings.ToLower(req.MimeType)] {
		return nil, common.WithMessage(common.ErrBadRequest, "Unsupported file type")
	}
	if req.Size > model.MaxDocumentSize {
		return nil, common.WithMessage(common.ErrBadRequest, "File too large")
	}

	id := uuid.New()
	doc := &model.Document{
		ID:           id.String(),
		UserID:       userID,
		Type:         req.Type,
		OriginalName: req.OriginalName,
		StorageName:  strings.ReplaceAll(id.String(), "-", "") + strings.ToLower(path.Ext(req.OriginalName)),
		MimeType:     strings.ToLower(req.MimeType),
		Size:         req.Size,
		Status:       model.DocumentPending,
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to record document: %w", err)
	}
	return doc, nil
}

func (s *DocumentService) ListForUser(ctx context.Context, userID string) ([]model.Document, error) {
	return s.documentRepo.ListByUser(ctx, userID)
}
