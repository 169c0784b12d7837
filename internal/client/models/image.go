package models

import "time"

// ProfileImage is the picture state derived from a User. It is one of
// NoImage, ExpiredImage or CurrentImage.
type ProfileImage interface {
	profileImage()
}

type NoImage struct{}

// ExpiredImage is a presigned URL whose expiration has passed.
type ExpiredImage struct {
	URL string
}

// CurrentImage is a usable URL. Expires is zero when the backend sent no
// expiration.
type CurrentImage struct {
	URL     string
	Expires time.Time
}

func (NoImage) profileImage()      {}
func (ExpiredImage) profileImage() {}
func (CurrentImage) profileImage() {}

func (u User) ProfileImage(now time.Time) ProfileImage {
	url, ok := u.ProfileImageURL.Get()
	if !ok || url == "" {
		return NoImage{}
	}
	exp, ok := u.ImageURLExpiration.Get()
	if !ok {
		return CurrentImage{URL: url}
	}
	if !now.Before(exp.Time) {
		return ExpiredImage{URL: url}
	}
	return CurrentImage{URL: url, Expires: exp.Time}
}

// AvatarURL resolves a ProfileImage to something an <img> can show.
func AvatarURL(p ProfileImage) string {
	switch v := p.(type) {
	case CurrentImage:
		return v.URL
	case ExpiredImage, NoImage:
		return DefaultProfileImage
	default:
		return DefaultProfileImage
	}
}
