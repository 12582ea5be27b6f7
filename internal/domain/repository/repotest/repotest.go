// Package repotest provides in-memory repositories for tests.
package repotest

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"pinnacle_metals/internal/common"
	"pinnacle_metals/internal/common/security"
	"pinnacle_metals/internal/domain/model"
	"pinnacle_metals/internal/domain/repository"
)

type Users struct {
	mu         sync.Mutex
	users      map[string]*model.User
	takenIDs   map[string]bool
	RaceOnNext int // Create calls left to fail with an account id collision
	Creates    int
}

func NewUsers() *Users {
	return &Users{users: map[string]*model.User{}, takenIDs: map[string]bool{}}
}

func (r *Users) Create(_ context.Context, _ *sql.Tx, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Creates++
	if r.RaceOnNext > 0 {
		r.RaceOnNext--
		return security.ErrAccountIDCollision
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return common.WithMessage(common.ErrConflict, "Email already in use")
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	r.takenIDs[u.AccountID] = true
	return nil
}

func (r *Users) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == model.NormalizeEmail(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *Users) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *Users) AccountIDExists(_ context.Context, accountID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.takenIDs[accountID], nil
}

func (r *Users) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.HashedPassword = hash
	return nil
}

func (r *Users) update(id string, fn func(u *model.User)) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	fn(u)
	cp := *u
	return &cp, nil
}

func (r *Users) UpdateRole(_ context.Context, id, role string) (*model.User, error) {
	return r.update(id, func(u *model.User) { u.Role = role })
}

func (r *Users) UpdateVerificationStatus(_ context.Context, id, status string) (*model.User, error) {
	return r.update(id, func(u *model.User) { u.VerificationStatus = status })
}

func (r *Users) PromoteToAdmin(_ context.Context, id string, hash *string) error {
	_, err := r.update(id, func(u *model.User) {
		u.Role = model.RoleAdmin
		if hash != nil {
			u.HashedPassword = *hash
		}
	})
	return err
}

func (r *Users) SetResetToken(_ context.Context, id, token string, expiresAt time.Time) error {
	_, err := r.update(id, func(u *model.User) {
		u.ResetToken = &token
		u.ResetTokenExpiresAt = &expiresAt
	})
	return err
}

func (r *Users) ConsumeResetToken(_ context.Context, token string, now time.Time, hash string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetToken != nil && *u.ResetToken == token && u.ResetTokenExpiresAt.After(now) {
			u.HashedPassword = hash
			u.ResetToken = nil
			u.ResetTokenExpiresAt = nil
			return u.ID, nil
		}
	}
	return "", common.ErrNotFound
}

func (r *Users) ConsumeEmailVerificationToken(_ context.Context, token string, now time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.EmailVerificationToken != nil && *u.EmailVerificationToken == token &&
			(u.EmailVerificationExpiresAt == nil || u.EmailVerificationExpiresAt.After(now)) {
			u.VerificationStatus = model.VerificationVerified
			u.EmailVerificationToken = nil
			u.EmailVerificationExpiresAt = nil
			return u.ID, nil
		}
	}
	return "", common.ErrNotFound
}

func (r *Users) items(status string) []model.UserListItem {
	out := []model.UserListItem{}
	for _, u := range r.users {
		if status != "" && u.VerificationStatus != status {
			continue
		}
		out = append(out, model.UserListItem{
			ID: u.ID, Email: u.Email, Role: u.Role, AccountID: u.AccountID,
			VerificationStatus: u.VerificationStatus, CreatedAt: u.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *Users) List(_ context.Context, status string, limit, offset int) ([]model.UserListItem, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.items(status)
	return window(all, limit, offset), len(all), nil
}

func (r *Users) ListAll(_ context.Context) ([]model.UserListItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items(""), nil
}

func (r *Users) CountByVerificationStatus(_ context.Context) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int{model.VerificationUnverified: 0, model.VerificationVerified: 0}
	for _, u := range r.users {
		counts[u.VerificationStatus]++
	}
	return counts, nil
}

func (r *Users) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// Seed inserts a user directly, bypassing registration.
func (r *Users) Seed(u *model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	r.users[u.ID] = u
	r.takenIDs[u.AccountID] = true
}

type Profiles struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile
}

func NewProfiles() *Profiles {
	return &Profiles{profiles: map[string]*model.Profile{}}
}

func (r *Profiles) Create(_ context.Context, _ *sql.Tx, p *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.profiles[p.UserID] = &cp
	return nil
}

func (r *Profiles) FindByUserID(_ context.Context, userID string) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *Profiles) Upsert(_ context.Context, p *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.UpdatedAt = time.Now()
	cp := *p
	r.profiles[p.UserID] = &cp
	return nil
}

type Pricing struct {
	Cfg *model.PricingConfig
	Err error
}

func (r *Pricing) Get(context.Context) (*model.PricingConfig, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Cfg == nil {
		return nil, common.ErrNotFound
	}
	cp := *r.Cfg
	return &cp, nil
}

func (r *Pricing) Upsert(_ context.Context, set bool, price float64, at time.Time) (*model.PricingConfig, error) {
	r.Cfg = &model.PricingConfig{OverrideSet: set, BaseCopperPrice: price, UpdatedAt: at}
	cp := *r.Cfg
	return &cp, nil
}

type Documents struct {
	mu    sync.Mutex
	docs  map[string]*model.Document
	Users *Users // owner lookup for List; optional
}

func NewDocuments(users *Users) *Documents {
	return &Documents{docs: map[string]*model.Document{}, Users: users}
}

func (r *Documents) Create(_ context.Context, d *model.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now()
	}
	cp := *d
	r.docs[d.ID] = &cp
	return nil
}

func (r *Documents) ListByUser(_ context.Context, userID string) ([]model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Document{}
	for _, d := range r.docs {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (r *Documents) List(_ context.Context, status string, limit, offset int) ([]model.DocumentListItem, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := []model.DocumentListItem{}
	for _, d := range r.docs {
		if status != "" && d.Status != status {
			continue
		}
		all = append(all, model.DocumentListItem{Document: *d, Owner: r.Users.owner(d.UserID)})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UploadedAt.After(all[j].UploadedAt) })
	return window(all, limit, offset), len(all), nil
}

func (r *Documents) UpdateStatus(_ context.Context, id, status string) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	d.Status = status
	cp := *d
	return &cp, nil
}

func (r *Documents) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *Documents) CountByStatus(_ context.Context) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int{model.DocumentPending: 0, model.DocumentApproved: 0, model.DocumentRejected: 0}
	for _, d := range r.docs {
		counts[d.Status]++
	}
	return counts, nil
}

type Complaints struct {
	mu         sync.Mutex
	complaints map[string]*model.Complaint
	Users      *Users
}

func NewComplaints(users *Users) *Complaints {
	return &Complaints{complaints: map[string]*model.Complaint{}, Users: users}
}

func (r *Complaints) Create(_ context.Context, c *model.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.complaints[c.ID] = &cp
	return nil
}

func (r *Complaints) ListByUser(_ context.Context, userID string) ([]model.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Complaint{}
	for _, c := range r.complaints {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Complaints) List(_ context.Context, status string, limit, offset int) ([]model.ComplaintListItem, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := []model.ComplaintListItem{}
	for _, c := range r.complaints {
		if status != "" && c.Status != status {
			continue
		}
		all = append(all, model.ComplaintListItem{Complaint: *c, Owner: r.Users.owner(c.UserID)})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return window(all, limit, offset), len(all), nil
}

func (r *Complaints) UpdateStatus(_ context.Context, id, status string) (*model.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.complaints[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

// owner mirrors the users join of the moderation listings.
func (r *Users) owner(userID string) model.Owner {
	if r == nil {
		return model.Owner{ID: userID}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return model.Owner{ID: userID}
	}
	return model.Owner{ID: u.ID, Email: u.Email, AccountID: u.AccountID}
}

func window[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

var (
	_ repository.UserRepository      = (*Users)(nil)
	_ repository.ProfileRepository   = (*Profiles)(nil)
	_ repository.PricingRepository   = (*Pricing)(nil)
	_ repository.DocumentRepository  = (*Documents)(nil)
	_ repository.ComplaintRepository = (*Complaints)(nil)
)
