package models

import "time"

// Favorite is a saved search: a named canonical query string for one organism.
type Favorite struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Query       string    `yaml:"query" json:"query"`
	Tags        []string  `yaml:"tags,omitempty" json:"tags,omitempty"`
	Organism    string    `yaml:"organism,omitempty" json:"organism,omitempty"`
	CreatedAt   time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at" json:"updated_at"`
	LastUsed    time.Time `yaml:"last_used,omitempty" json:"last_used,omitempty"`
	UsageCount  int       `yaml:"usage_count" json:"usage_count"`
}
