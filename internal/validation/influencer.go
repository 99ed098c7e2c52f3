package validation

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"vibetracker/internal/domain"
)

// Mode selects the defaulting policy for optional fields.
type Mode int

const (
	// ModeAdd fills empty followers/engagement with their defaults.
	ModeAdd Mode = iota
	// ModeEdit leaves them empty so the roster keeps the previous values.
	ModeEdit
)

const (
	DefaultFollowers  = "0"
	DefaultEngagement = "0%"
)

var requiredFields = []string{"name", "handle", "platform"}

// Influencer checks required fields, canonicalizes the platform and
// normalizes the handle.
func Influencer(raw domain.InfluencerInput, mode Mode) (domain.ValidatedInfluencer, error) {
	in := domain.InfluencerInput{
		Name:       strings.TrimSpace(raw.Name),
		Handle:     strings.TrimSpace(raw.Handle),
		Platform:   strings.TrimSpace(raw.Platform),
		Followers:  strings.TrimSpace(raw.Followers),
		Engagement: strings.TrimSpace(raw.Engagement),
	}

	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Handle, validation.Required),
		validation.Field(&in.Platform, validation.Required),
	)
	if err != nil {
		var fieldErrs validation.Errors
		if !errors.As(err, &fieldErrs) {
			return domain.ValidatedInfluencer{}, fmt.Errorf("validate influencer: %w", err)
		}
		return domain.ValidatedInfluencer{}, &domain.ValidationError{
			Code:   domain.CodeMissingRequiredField,
			Fields: failedFields(fieldErrs),
		}
	}

	platform, ok := ParsePlatform(in.Platform)
	if !ok {
		return domain.ValidatedInfluencer{}, &domain.ValidationError{
			Code:   domain.CodeUnsupportedPlatform,
			Fields: []string{"platform"},
		}
	}

	out := domain.ValidatedInfluencer{
		Name:       in.Name,
		Handle:     NormalizeHandle(in.Handle),
		Platform:   platform,
		Followers:  in.Followers,
		Engagement: in.Engagement,
	}

	if mode == ModeAdd {
		if out.Followers == "" {
			out.Followers = DefaultFollowers
		}
		if out.Engagement == "" {
			out.Engagement = DefaultEngagement
		}
	}

	return out, nil
}

// NormalizeHandle prepends "@" when missing. It is idempotent.
func NormalizeHandle(handle string) string {
	if strings.HasPrefix(handle, "@") {
		return handle
	}
	return "@" + handle
}

// ParsePlatform matches name case-insensitively against the supported set.
func ParsePlatform(name string) (domain.Platform, bool) {
	for _, p := range domain.Platforms {
		if strings.EqualFold(string(p), name) {
			return p, true
		}
	}
	return "", false
}

// failedFields keeps the form's field order so messages are stable.
func failedFields(errs validation.Errors) []string {
	var fields []string
	for _, f := range requiredFields {
		if errs[f] != nil {
			fields = append(fields, f)
		}
	}
	return fields
}
