package models

// Profile is the editable part of an account.
type Profile struct {
	ID           int64         `json:"id"`
	UserID       string        `json:"-"`
	DisplayName  *string       `json:"display_name"`
	Affiliations []Affiliation `json:"affiliations"`
}

// Affiliation is one entry of the political affiliation catalog.
type Affiliation struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
}
