package models

// User is an account. Password is only set when the user is being
// registered; stores never return it.
type User struct {
	Email       Email
	Password    Password
	Requires2FA bool
}

func NewUser(email Email, password Password, requires2FA bool) User {
	return User{Email: email, Password: password, Requires2FA: requires2FA}
}
