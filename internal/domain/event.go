package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrDuplicateItemRule = errors.New("duplicate item rule")
	ErrDuplicateAdmin    = errors.New("duplicate admin")
)

// ItemRule caps how many units of one item a single participant
// (UserMax) and one participant-type bucket (EventMax) may receive.
// A negative cap disables the check; zero forbids any grant.
type ItemRule struct {
	ID              uint   `json:"id"`
	Item            string `json:"item"`
	ParticipantType string `json:"participant_type"`
	UserMax         int    `json:"user_max"`
	EventMax        int    `json:"event_max"`
}

type Event struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	StartsAt  time.Time  `json:"starts_at"`
	EndsAt    time.Time  `json:"ends_at"`
	ItemRules []ItemRule `json:"item_rules"`
	Admins    []string   `json:"admins"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Validate enforces the catalog invariants: no two rules may share
// (item, participant_type) and no admin identity may appear twice.
// The empty participant type is a regular value, not a wildcard.
func (e Event) Validate() error {
	type ruleKey struct {
		item            string
		participantType string
	}

	seenRules := make(map[ruleKey]struct{}, len(e.ItemRules))
	for i, rule := range e.ItemRules {
		key := ruleKey{item: rule.Item, participantType: rule.ParticipantType}
		if _, ok := seenRules[key]; ok {
			return fmt.Errorf("%w in row %d: item=%q, participant_type=%q",
				ErrDuplicateItemRule, i+1, rule.Item, rule.ParticipantType)
		}
		seenRules[key] = struct{}{}
	}

	seenAdmins := make(map[string]struct{}, len(e.Admins))
	for i, admin := range e.Admins {
		if _, ok := seenAdmins[admin]; ok {
			return fmt.Errorf("%w in row %d: identity=%q", ErrDuplicateAdmin, i+1, admin)
		}
		seenAdmins[admin] = struct{}{}
	}

	return nil
}

// ResolveRule finds the rule matching both the item and the participant
// type. There is no fallback across participant types.
func (e Event) ResolveRule(item, participantType string) (ItemRule, bool) {
	for _, rule := range e.ItemRules {
		if rule.Item == item && rule.ParticipantType == participantType {
			return rule, true
		}
	}

	return ItemRule{}, false
}

// IsAdmin reports whether the identity appears in the event's admin set.
func (e Event) IsAdmin(identity string) bool {
	for _, admin := range e.Admins {
		if admin == identity {
			return true
		}
	}

	return false
}
