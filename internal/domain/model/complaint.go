package model

import "time"

const (
	ComplaintPending  = "pending"
	ComplaintResolved = "resolved"
)

type Complaint struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func IsValidComplaintStatus(status string) bool {
	return status == ComplaintPending || status == ComplaintResolved
}

type ComplaintListItem struct {
	Complaint
	Owner Owner `json:"owner"`
}
