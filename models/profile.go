package models

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Profile is the public face of a user. Username appears in public URLs and
// must be unique. Each of the four external links is validated against the
// URL shape of its platform independently.
type Profile struct {
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey;not null"`
	Username    string    `json:"username" gorm:"type:text;not null;uniqueIndex"`
	Bio         string    `json:"bio" gorm:"type:text;not null;default:''"`
	Status      string    `json:"status" gorm:"type:text;not null;default:''"`
	GithubURL   string    `json:"github_url" gorm:"type:text;not null;default:''"`
	TwitterURL  string    `json:"twitter_url" gorm:"type:text;not null;default:''"`
	LinkedinURL string    `json:"linkedin_url" gorm:"type:text;not null;default:''"`
	WebsiteURL  string    `json:"website_url" gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var profileLinkPatterns = map[string]*regexp.Regexp{
	"github":   regexp.MustCompile(`^https://(www\.)?github\.com/[A-Za-z0-9-]+/?$`),
	"twitter":  regexp.MustCompile(`^https://(www\.)?(twitter|x)\.com/[A-Za-z0-9_]+/?$`),
	"linkedin": regexp.MustCompile(`^https://(www\.)?linkedin\.com/in/[A-Za-z0-9-]+/?$`),
	"website":  regexp.MustCompile(`^https?://[^\s]+\.[^\s]+$`),
}

// ValidateProfileLink checks one external link against the URL shape of its
// platform. Empty links are allowed; the platform key must be known.
func ValidateProfileLink(platform, link string) error {
	if link == "" {
		return nil
	}
	pattern, ok := profileLinkPatterns[platform]
	if !ok {
		return fmt.Errorf("unknown link platform %q", platform)
	}
	if !pattern.MatchString(link) {
		return fmt.Errorf("%s link does not look like a %s URL", platform, platform)
	}
	return nil
}

// ValidateLinks validates all four profile links and returns the platform of
// the first invalid one.
func (p Profile) ValidateLinks() (string, error) {
	checks := []struct {
		platform string
		link     string
	}{
		{"github", p.GithubURL},
		{"twitter", p.TwitterURL},
		{"linkedin", p.LinkedinURL},
		{"website", p.WebsiteURL},
	}
	for _, c := range checks {
		if err := ValidateProfileLink(c.platform, c.link); err != nil {
			return c.platform, err
		}
	}
	return "", nil
}
