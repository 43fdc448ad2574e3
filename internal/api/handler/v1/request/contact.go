package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type ShareContactRequest struct {
	EventID      uint   `json:"event_id" binding:"required"`
	PropertyUnit string `json:"property_unit" binding:"required"`
}

func (req *ShareContactRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.PropertyUnit, validation.Required, validation.Length(1, 100)),
	)
}

type ScoreInteractionRequest struct {
	VirtualID     string `json:"virtual_id" binding:"required"`
	CounterpartID string `json:"counterpart_id" binding:"required"`
}

func (req *ScoreInteractionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.VirtualID, validation.Required),
		validation.Field(&req.CounterpartID, validation.Required),
	)
}
