package models

import (
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"
)

var (
	ErrDisplayNameRequired = errors.New("Display name is required.")
	ErrBioTooLong          = errors.New("Bio must be less than 500 characters.")
	ErrLocationTooLong     = errors.New("Location must be less than 100 characters.")
	ErrPhoneTooLong        = errors.New("Phone must be less than 20 characters.")
	ErrOccupationTooLong   = errors.New("Occupation must be less than 100 characters.")
	ErrInvalidWebsite      = errors.New("Invalid website URL.")
)

// ProfileUpdate carries the editable profile fields. Every field is
// trimmed before validation and persistence.
type ProfileUpdate struct {
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	Occupation  string `json:"occupation"`
	Company     string `json:"company"`
	Website     string `json:"website"`
	Social      Social `json:"social"`
}

func (u *ProfileUpdate) Trim() {
	u.DisplayName = strings.TrimSpace(u.DisplayName)
	u.Bio = strings.TrimSpace(u.Bio)
	u.Phone = strings.TrimSpace(u.Phone)
	u.Location = strings.TrimSpace(u.Location)
	u.Occupation = strings.TrimSpace(u.Occupation)
	u.Company = strings.TrimSpace(u.Company)
	u.Website = strings.TrimSpace(u.Website)
	u.Social.Github = strings.TrimSpace(u.Social.Github)
	u.Social.Linkedin = strings.TrimSpace(u.Social.Linkedin)
}

func (u *ProfileUpdate) Validate() error {
	if u.DisplayName == "" {
		return ErrDisplayNameRequired
	}
	if utf8.RuneCountInString(u.Bio) > 500 {
		return ErrBioTooLong
	}
	if utf8.RuneCountInString(u.Location) > 100 {
		return ErrLocationTooLong
	}
	if utf8.RuneCountInString(u.Phone) > 20 {
		return ErrPhoneTooLong
	}
	if utf8.RuneCountInString(u.Occupation) > 100 {
		return ErrOccupationTooLong
	}
	if u.Website != "" {
		parsed, err := url.ParseRequestURI(u.Website)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return ErrInvalidWebsite
		}
	}
	return nil
}
