package user

import (
	"strings"

	"bingelog/api/internal"
)

// avatarURL resolves a stored avatar value for responses. Keys in the
// object store get a public URL, absolute URLs (social-login avatars)
// pass through untouched.
func avatarURL(d *internal.Deps, v *string) *string {
	if v == nil || d.Avatars == nil || strings.HasPrefix(*v, "http") {
		return v
	}

	u := d.Avatars.URL(*v)
	return &u
}
