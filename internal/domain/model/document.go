package model

import "time"

const (
	DocumentPending  = "pending"
	DocumentApproved = "approved"
	DocumentRejected = "rejected"
)

const (
	DocumentTypeID             = "id"
	DocumentTypeProofOfAddress = "proof_of_address"
	DocumentTypeBusinessDoc    = "business_doc"
	DocumentTypeOther          = "other"
)

const MaxDocumentSize int64 = 10 << 20

// Document is the moderation record for a file a user submitted. The bytes
// themselves live outside this service; only metadata is stored.
type Document struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Type         string    `json:"type"`
	OriginalName string    `json:"originalName"`
	StorageName  string    `json:"storageName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	Status       string    `json:"status"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func IsValidDocumentStatus(status string) bool {
	return status == DocumentPending || status == DocumentApproved || status == DocumentRejected
}

// Owner is the account summary attached to moderation listings.
type Owner struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	AccountID string `json:"accountId"`
	FullName  string `json:"fullName"`
}

type DocumentListItem struct {
	Document
	Owner Owner `json:"owner"`
}
