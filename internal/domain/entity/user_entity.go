package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
//
// PasswordHash holds a bcrypt hash. It is empty for accounts created through
// Google sign-in, which have no local password and cannot use credential login.
type User struct {
	ID              string
	Email           string
	PasswordHash    string
	Name            string
	AdmissionNumber string
	Year            string
	Domain          string
	PhoneNumber     string
	Photo           string
	Resume          string
	SocialLinks     map[string]string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasLocalPassword reports whether credential login is possible for u.
func (u *User) HasLocalPassword() bool {
	return u.PasswordHash != ""
}

// Profile is the outward view of a User. It has no password field at all.
type Profile struct {
	ID              string            `json:"id"`
	Email           string            `json:"email"`
	Name            string            `json:"name"`
	AdmissionNumber string            `json:"admission_number,omitempty"`
	Year            string            `json:"year,omitempty"`
	Domain          string            `json:"domain,omitempty"`
	PhoneNumber     string            `json:"phone_number,omitempty"`
	Photo           string            `json:"photo,omitempty"`
	Resume          string            `json:"resume,omitempty"`
	SocialLinks     map[string]string `json:"social_links,omitempty"`
	LocalPassword   bool              `json:"local_password"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (u *User) Profile() *Profile {
	return &Profile{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		AdmissionNumber: u.AdmissionNumber,
		Year:            u.Year,
		Domain:          u.Domain,
		PhoneNumber:     u.PhoneNumber,
		Photo:           u.Photo,
		Resume:          u.Resume,
		SocialLinks:     u.SocialLinks,
		LocalPassword:   u.HasLocalPassword(),
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// ProfileUpdate is a partial change set; nil fields are left as they are.
type ProfileUpdate struct {
	Name            *string
	AdmissionNumber *string
	Year            *string
	Domain          *string
	PhoneNumber     *string
	Photo           *string
	Resume          *string
	SocialLinks     map[string]string
}

// Apply copies the non-nil fields of p onto u and reports whether anything changed.
func (p ProfileUpdate) Apply(u *User) bool {
	changed := false
	set := func(dst *string, src *string) {
		if src != nil && *dst != *src {
			*dst = *src
			changed = true
		}
	}
	set(&u.Name, p.Name)
	set(&u.AdmissionNumber, p.AdmissionNumber)
	set(&u.Year, p.Year)
	set(&u.Domain, p.Domain)
	set(&u.PhoneNumber, p.PhoneNumber)
	set(&u.Photo, p.Photo)
	set(&u.Resume, p.Resume)
	if p.SocialLinks != nil {
		u.SocialLinks = p.SocialLinks
		changed = true
	}
	return changed
}
