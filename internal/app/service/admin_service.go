package service

import (
	"context"
	"errors"
	"fmt"

	"pinnacle_metals/internal/common"
	"pinnacle_metals/internal/domain/model"
	"pinnacle_metals/internal/domain/repository"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type AdminService struct {
	userRepo      repository.UserRepository
	profileRepo   repository.ProfileRepository
	documentRepo  repository.DocumentRepository
	complaintRepo repository.ComplaintRepository
}

func NewAdminService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	documentRepo repository.DocumentRepository,
	complaintRepo repository.ComplaintRepository,
) *AdminService {
	return &AdminService{
		userRepo:      userRepo,
		profileRepo:   profileRepo,
		documentRepo:  documentRepo,
		complaintRepo: complaintRepo,
	}
}

type Stats struct {
	TotalUsers        int `json:"totalUsers"`
	UnverifiedUsers   int `json:"unverifiedUsers"`
	VerifiedUsers     int `json:"verifiedUsers"`
	TotalDocuments    int `json:"totalDocuments"`
	PendingDocuments  int `json:"pendingDocuments"`
	ApprovedDocuments int `json:"approvedDocuments"`
	RejectedDocuments int `json:"rejectedDocuments"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

type UserPage struct {
	Users      []model.UserListItem `json:"users"`
	Pagination Pagination           `json:"pagination"`
}

type UserDetail struct {
	User      model.UserView   `json:"user"`
	Profile   *model.Profile   `json:"profile"`
	Documents []model.Document `json:"documents"`
}

// ListQuery is shared by every paged admin listing.
type ListQuery struct {
	Page   int
	Limit  int
	Status string
}

type DocumentPage struct {
	Documents  []model.DocumentListItem `json:"documents"`
	Pagination Pagination               `json:"pagination"`
}

type ComplaintPage struct {
	Complaints []model.ComplaintListItem `json:"complaints"`
	Pagination Pagination                `json:"pagination"`
}

type UpdateVerificationRequest struct {
	VerificationStatus string `json:"verificationStatus" validate:"required,oneof=unverified verified"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type UpdateDocumentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

type UpdateComplaintStatusRequest struct {
	Status string `json:"status"`
}

func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.userRepo.CountByVerificationStatus(ctx)
	if err != nil {
		return nil, err
	}
	docCounts, err := s.documentRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	st := &Stats{
		UnverifiedUsers:   counts[model.VerificationUnverified],
		VerifiedUsers:     counts[model.VerificationVerified],
		PendingDocuments:  docCounts[model.DocumentPending],
		ApprovedDocuments: docCounts[model.DocumentApproved],
		RejectedDocuments: docCounts[model.DocumentRejected],
	}
	for _, n := range counts {
		st.TotalUsers += n
	}
	for _, n := range docCounts {
		st.TotalDocuments += n
	}
	return st, nil
}

// normalize clamps paging and drops a status the listing does not know.
func (q ListQuery) normalize(validStatus func(string) bool) ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	if !validStatus(q.Status) {
		q.Status = ""
	}
	return q
}

func (q ListQuery) offset() int {
	return (q.Page - 1) * q.Limit
}

func (q ListQuery) pagination(total int) Pagination {
	return Pagination{Total: total, Page: q.Page, Pages: (total + q.Limit - 1) / q.Limit}
}

// ListUsers pages newest first. Unknown status values are ignored rather than rejected.
func (s *AdminService) ListUsers(ctx context.Context, q ListQuery) (*UserPage, error) {
	q = q.normalize(model.IsValidVerificationStatus)
	users, total, err := s.userRepo.List(ctx, q.Status, q.Limit, q.offset())
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, Pagination: q.pagination(total)}, nil
}

func (s *AdminService) ExportUsers(ctx context.Context) ([]model.UserListItem, error) {
	return s.userRepo.ListAll(ctx)
}

func (s *AdminService) GetUser(ctx context.Context, id string) (*UserDetail, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.WithMessage(common.ErrNotFound, "User not found")
		}
		return nil, err
	}
	profile, err := s.profileRepo.FindByUserID(ctx, id)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	docs, err := s.documentRepo.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return &UserDetail{User: user.View(), Profile: profile, Documents: docs}, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return common.WithMessage(common.ErrBadRequest, "You cannot delete your own admin account")
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.WithMessage(common.ErrNotFound, "User not found")
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *AdminService) UpdateVerification(ctx context.Context, id string, req UpdateVerificationRequest) (*model.UserView, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	user, err := s.userRepo.UpdateVerificationStatus(ctx, id, req.VerificationStatus)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.WithMessage(common.ErrNotFound, "User not found")
		}
		return nil, err
	}
	view := user.View()
	return &view, nil
}

// UpdateRole changes the stored role. Sessions already issued keep their
// embedded role until they expire; admin routes re-check it when configured to.
func (s *AdminService) UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*model.UserView, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	user, err := s.userRepo.UpdateRole(ctx, id, req.Role)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.WithMessage(common.ErrNotFound, "User not found")
		}
		return nil, err
	}
	view := user.View()
	return &view, nil
}

// CurrentRole serves the admin gate's role re-check.
func (s *AdminService) CurrentRole(ctx context.Context, userID string) (string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

// ListDocuments pages newest first. Unknown status values are ignored rather than rejected.
func (s *AdminService) ListDocuments(ctx context.Context, q ListQuery) (*DocumentPage, error) {
	q = q.normalize(model.IsValidDocumentStatus)
	docs, total, err := s.documentRepo.List(ctx, q.Status, q.Limit, q.offset())
	if err != nil {
		return nil, err
	}
	return &DocumentPage{Documents: docs, Pagination: q.pagination(total)}, nil
}

func (s *AdminService) UpdateDocumentStatus(ctx context.Context, id string, req UpdateDocumentStatusRequest) (*model.Document, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	doc, err := s.documentRepo.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.WithMessage(common.ErrNotFound, "Document not found")
		}
		return nil, err
	}
	return doc, nil
}

// DeleteDocument removes the moderation record only.
func (s *AdminService) DeleteDocument(ctx context.Context, id string) error {
	if err := s.documentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.WithMessage(common.ErrNotFound, "Document not found")
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// ListComplaints pages newest first. Unknown status values are ignored rather than rejected.
func (s *AdminService) ListComplaints(ctx context.Context, q ListQuery) (*ComplaintPage, error) {
	q = q.normalize(model.IsValidComplaintStatus)
	complaints, total, err := s.complaintRepo.List(ctx, q.Status, q.Limit, q.offset())
	if err != nil {
		return nil, err
	}
	return &ComplaintPage{Complaints: complaints, Pagination: q.pagination(total)}, nil
}

func (s *AdminService) UpdateComplaintStatus(ctx context.Context, id string, req UpdateComplaintStatusRequest) (*model.Complaint, error) {
	if !model.IsValidComplaintStatus(req.Status) {
		return nil, common.WithMessage(common.ErrBadRequest, "Invalid status")
	}
	c, err := s.complaintRepo.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.WithMessage(common.ErrNotFound, "Complaint not found")
		}
		return nil, err
	}
	return c, nil
}
