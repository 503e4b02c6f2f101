package secrets

import "errors"

// Credentials is a league account login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CredentialsFromMap reads credentials out of a decoded secret. "username"
// is accepted for accounts provisioned before email logins.
func CredentialsFromMap(m map[string]string) (Credentials, error) {
	c := Credentials{Email: m["email"], Password: m["password"]}
	if c.Email == "" {
		c.Email = m["username"]
	}
	if c.Email == "" || c.Password == "" {
		return Credentials{}, errors.New("secret must contain email and password")
	}
	return c, nil
}
