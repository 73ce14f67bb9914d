package discord

// User is the authenticated principal returned by /users/@me.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Email         string `json:"email"`
	Avatar        string `json:"avatar"`
}

// Guild is one entry from /users/@me/guilds. Permissions is the
// permission bit set serialized by Discord as a string.
type Guild struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Owner       bool   `json:"owner"`
	Permissions string `json:"permissions"`
}

// Token is the result of a successful authorization-code exchange.
type Token struct {
	AccessToken  string
	RefreshToken string
	Scopes       []string
	ExpiresIn    int64
}

// Tag returns the classic username#discriminator form, defaulting the
// discriminator for accounts migrated to unique usernames.
func (u *User) Tag() string {
	d := u.Discriminator
	if d == "" {
		d = "0000"
	}
	return u.Username + "#" + d
}

// AvatarURL returns the CDN URL for the user's avatar, or the default
// embed avatar when none is set.
func (u *User) AvatarURL() string {
	if u.Avatar == "" {
		return "https://cdn.discordapp.com/embed/avatars/0.png"
	}
	return "https://cdn.discordapp.com/avatars/" + u.ID + "/" + u.Avatar + ".png"
}
