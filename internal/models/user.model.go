package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleInspector Role = "inspector"
	RoleManager   Role = "manager"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleInspector, RoleManager, RoleAdmin:
		return true
	}
	return false
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type User struct {
	BaseUUIDModel
	Name            string         `gorm:"type:text;not null"                         json:"name"`
	Email           string         `gorm:"type:text;uniqueIndex;not null"             json:"email"`
	PasswordHash    string         `gorm:"type:text;not null"                         json:"-"`
	Role            Role           `gorm:"type:text;not null;default:'inspector'"     json:"role"`
	ApprovalStatus  ApprovalStatus `gorm:"type:text;not null;default:'pending';index" json:"approvalStatus"`
	CompanyDomain   string         `gorm:"type:text;not null;index"                   json:"companyDomain"`
	ApprovedBy      *uuid.UUID     `gorm:"type:uuid"                                  json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time     `gorm:"type:timestamp"                             json:"approvedAt,omitempty"`
	RejectionReason *string        `gorm:"type:text"                                  json:"rejectionReason,omitempty"`
	LastLoginAt     *time.Time     `gorm:"type:timestamp"                             json:"lastLoginAt,omitempty"`
}

func (User) TableName() string {
	return "user_profiles"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Name = strings.TrimSpace(u.Name)
	if u.Role == "" {
		u.Role = RoleInspector
	}
	if u.ApprovalStatus == "" {
		u.ApprovalStatus = ApprovalPending
	}
	return nil
}

func (u *User) IsApproved() bool {
	return u.ApprovalStatus == ApprovalApproved
}

// Approve marks the profile approved by the given administrator.
func (u *User) Approve(by uuid.UUID, at time.Time) {
	u.ApprovalStatus = ApprovalApproved
	u.ApprovedBy = &by
	u.ApprovedAt = &at
	u.RejectionReason = nil
}

func (u *User) Reject(by uuid.UUID, reason string) {
	u.ApprovalStatus = ApprovalRejected
	u.ApprovedBy = &by
	u.ApprovedAt = nil
	if reason = strings.TrimSpace(reason); reason != "" {
		u.RejectionReason = &reason
	} else {
		u.RejectionReason = nil
	}
}

// UserProfile is the public view of a user returned to clients.
type UserProfile struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Role            Role           `json:"role"`
	ApprovalStatus  ApprovalStatus `json:"approvalStatus"`
	CompanyDomain   string         `json:"companyDomain"`
	ApprovedAt      *time.Time     `json:"approvedAt,omitempty"`
	RejectionReason *string        `json:"rejectionReason,omitempty"`
	LastLoginAt     *time.Time     `json:"lastLoginAt,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
}

func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:              u.ID.String(),
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		ApprovalStatus:  u.ApprovalStatus,
		CompanyDomain:   u.CompanyDomain,
		ApprovedAt:      u.ApprovedAt,
		RejectionReason: u.RejectionReason,
		LastLoginAt:     u.LastLoginAt,
		CreatedAt:       u.CreatedAt,
	}
}
