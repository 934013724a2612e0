package domain

import "time"

// TaughtSkill is a skill a user offers, with a self-reported level.
type TaughtSkill struct {
	Name  string `json:"name" db:"name"`
	Level string `json:"level" db:"level"`
}

// User is owned by the identity subsystem; this core only reads it.
type User struct {
	ID             int           `json:"id" db:"id"`
	DisplayName    string        `json:"display_name" db:"display_name"`
	TaughtSkills   []TaughtSkill `json:"taught_skills"`
	WantedSkills   []string      `json:"wanted_skills"`
	Location       *string       `json:"location,omitempty" db:"location"`
	Rating         float64       `json:"rating" db:"rating"`
	CompletedSwaps int           `json:"completed_swaps" db:"completed_swaps"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
}

// Teaches reports whether the user offers the skill (case-insensitive).
func (u *User) Teaches(skill string) bool {
	for _, s := range u.TaughtSkills {
		if equalSkill(s.Name, skill) {
			return true
		}
	}
	return false
}

// Wants reports whether the user is looking to learn the skill (case-insensitive).
func (u *User) Wants(skill string) bool {
	for _, s := range u.WantedSkills {
		if equalSkill(s, skill) {
			return true
		}
	}
	return false
}
