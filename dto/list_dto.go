package dto

import "github.com/atmacsn/agriadmin/models"

type ListItemDTO struct {
	Type   string `json:"type" binding:"required"`
	Status *bool  `json:"status"`
}

type UpdateListItemDTO struct {
	Type   *string `json:"type" binding:"omitempty,min=1"`
	Status *bool   `json:"status"`
}

// StatusDTO moves a farmer or a farmer group through its approval states.
type StatusDTO struct {
	Status  models.ApprovalStatus `json:"status" binding:"required,oneof=pending approved declined"`
	Remarks string                `json:"remarks"`
}
