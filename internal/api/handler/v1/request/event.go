package request

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
)

type ItemRuleInput struct {
	Item            string `json:"item"`
	ParticipantType string `json:"participant_type"`
	UserMax         int    `json:"user_max"`
	EventMax        int    `json:"event_max"`
}

type CreateEventRequest struct {
	Name     string          `json:"name" binding:"required"`
	StartsAt string          `json:"starts_at" binding:"required" format:"RFC 3339"`
	EndsAt   string          `json:"ends_at" binding:"required" format:"RFC 3339"`
	Items    []ItemRuleInput `json:"items"`
	Admins   []string        `json:"admins"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.StartsAt, validation.Required),
		validation.Field(&req.EndsAt, validation.Required),
		validation.Field(&req.Items, validation.Each(validation.By(validateItemRule))),
	)
}

func validateItemRule(value interface{}) error {
	rule, ok := value.(ItemRuleInput)
	if !ok {
		return fmt.Errorf("invalid item rule")
	}

	return validation.ValidateStruct(&rule,
		validation.Field(&rule.Item, validation.Required, validation.Length(1, 100)),
	)
}

type RegisterInterestRequest struct {
	ParticipantType string `json:"participant_type"`
	PropertyUnit    string `json:"property_unit" binding:"required"`
}

func (req *RegisterInterestRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PropertyUnit, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.ParticipantType, validation.Length(0, 50)),
	)
}

type DistributeRequest struct {
	Item      string `json:"item" binding:"required"`
	VirtualID string `json:"virtual_id" binding:"required"`
}

func (req *DistributeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Item, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.VirtualID, validation.Required),
	)
}
