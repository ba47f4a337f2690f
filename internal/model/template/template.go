package template

import "time"

// DefaultLanguage is applied when a template is created without a locale.
const DefaultLanguage = "en_US"

// Template is a reusable message body managed through the templates API.
type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Language  string    `json:"language"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}
