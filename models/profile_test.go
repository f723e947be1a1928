package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileUpdateTrim(t *testing.T) {
	u := ProfileUpdate{
		DisplayName: "  Alice  ",
		Bio:         " hi ",
		Phone:       " 123 ",
		Location:    " Cairo ",
		Occupation:  " dev ",
		Company:     " acme ",
		Website:     " https://example.com ",
		Social: Social{
			Github:   " alice ",
			Linkedin: " alice-l ",
		},
	}

	u.Trim()

	assert.Equal(t, "Alice", u.DisplayName)
	assert.Equal(t, "hi", u.Bio)
	assert.Equal(t, "123", u.Phone)
	assert.Equal(t, "Cairo", u.Location)
	assert.Equal(t, "dev", u.Occupation)
	assert.Equal(t, "acme", u.Company)
	assert.Equal(t, "https://example.com", u.Website)
	assert.Equal(t, "alice", u.Social.Github)
	assert.Equal(t, "alice-l", u.Social.Linkedin)
}

func TestProfileUpdateValidate(t *testing.T) {
	tests := []struct {
		name    string
		update  ProfileUpdate
		wantErr error
	}{
		{"valid minimal", ProfileUpdate{DisplayName: "Alice"}, nil},
		{"missing display name", ProfileUpdate{}, ErrDisplayNameRequired},
		{"bio too long", ProfileUpdate{DisplayName: "A", Bio: strings.Repeat("x", 501)}, ErrBioTooLong},
		{"location too long", ProfileUpdate{DisplayName: "A", Location: strings.Repeat("x", 101)}, ErrLocationTooLong},
		{"phone too long", ProfileUpdate{DisplayName: "A", Phone: strings.Repeat("1", 21)}, ErrPhoneTooLong},
		{"occupation too long", ProfileUpdate{DisplayName: "A", Occupation: strings.Repeat("x", 101)}, ErrOccupationTooLong},
		{"bad website", ProfileUpdate{DisplayName: "A", Website: "not a url"}, ErrInvalidWebsite},
		{"website without host", ProfileUpdate{DisplayName: "A", Website: "https://"}, ErrInvalidWebsite},
		{"good website", ProfileUpdate{DisplayName: "A", Website: "https://example.com"}, nil},
		{"empty website allowed", ProfileUpdate{DisplayName: "A", Website: ""}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.update.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
