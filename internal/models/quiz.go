package models

import "time"

type Quiz struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Title            string     `gorm:"size:255;not null" json:"title"`
	IsActive         bool       `gorm:"not null;default:false;index" json:"is_active"`
	ActivationAt     *time.Time `json:"activation_at,omitempty"`
	DeactivationAt   *time.Time `json:"deactivation_at,omitempty"`
	TimeLimitMinutes int        `gorm:"not null;default:0" json:"time_limit_minutes"`
	IsTemplate       bool       `gorm:"not null;default:false" json:"is_template"`
	TemplateName     string     `gorm:"size:255" json:"template_name,omitempty"`
	TotalQuestions   int        `gorm:"not null;default:0" json:"total_questions"`
	PassingScore     *float64   `json:"passing_score,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
