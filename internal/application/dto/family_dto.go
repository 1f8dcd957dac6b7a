package dto

import "time"

// CreateFamilyRequest entrada para crear una familia.
type CreateFamilyRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
}

// JoinFamilyRequest entrada para unirse con un código de invitación.
type JoinFamilyRequest struct {
	InvitationCode string `json:"invitationCode" validate:"required,min=6,max=16"`
}

// FamilyResponse salida de una familia.
type FamilyResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	InvitationCode string    `json:"invitationCode"`
	CreatedBy      string    `json:"createdBy"`
	IsOwner        bool      `json:"isOwner"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FamilyMemberResponse miembro de una familia.
type FamilyMemberResponse struct {
	UserID   string    `json:"userId"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	Avatar   string    `json:"avatar,omitempty"`
	IsOwner  bool      `json:"isOwner"`
	JoinedAt time.Time `json:"joinedAt"`
}

// InvitationCodeResponse código regenerado.
type InvitationCodeResponse struct {
	InvitationCode string `json:"invitationCode"`
}
