package service

import (
	"context"
	"fmt"
	"strings"

	"pinnacle_metals/internal/common"
	"pinnacle_metals/internal/domain/model"
	"pinnacle_metals/internal/domain/repository"

	"github.com/google/uuid"
)

type ComplaintService struct {
	complaintRepo repository.ComplaintRepository
}

func NewComplaintService(complaintRepo repository.ComplaintRepository) *ComplaintService {
	return &ComplaintService{complaintRepo: complaintRepo}
}

type SubmitComplaintRequest struct {
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Submit opens a complaint in the pending state.
func (s *ComplaintService) Submit(ctx context.Context, userID string, req SubmitComplaintRequest) (*model.Complaint, error) {
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	c := &model.Complaint{
		ID:      uuid.NewString(),
		UserID:  userID,
		Subject: req.Subject,
		Message: req.Message,
		Status:  model.ComplaintPending,
	}
	if err := s.complaintRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to record complaint: %w", err)
	}
	return c, nil
}

func (s *ComplaintService) ListForUser(ctx context.Context, userID string) ([]model.Complaint, error) {
	return s.complaintRepo.ListByUser(ctx, userID)
}
