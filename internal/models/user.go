package models

import "time"

// Status описывает состояние учетной записи
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusBanned   Status = "banned"
)

// Valid reports whether s is one of the known account states.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusBanned:
		return true
	}
	return false
}

// Role определяет уровень привилегий пользователя
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User представляет учетную запись (principal) в системе
type User struct {
	LastLogin          *time.Time `json:"last_login,omitempty"`       // время последнего успешного входа
	ResetExpiresAt     *time.Time `json:"-"`                          // срок действия кода сброса пароля
	CreatedAt          time.Time  `json:"created_at"`                 // время создания
	UpdatedAt          time.Time  `json:"updated_at"`                 // время последнего обновления
	ID                 string     `json:"id"`                         // UUID пользователя
	Name               string     `json:"name"`                       // отображаемое имя
	Email              string     `json:"email"`                      // уникальный email в нижнем регистре
	PasswordHash       string     `json:"-"`                          // bcrypt хеш пароля
	AvatarURL          string     `json:"avatar_url"`                 // ссылка на аватар
	Mobile             string     `json:"mobile"`                     // номер телефона
	Status             Status     `json:"status"`                     // active | inactive | banned
	Role               Role       `json:"role"`                       // user | admin
	RefreshFingerprint string     `json:"-"`                          // SHA256 отпечаток текущего refresh token
	ResetCodeHash      string     `json:"-"`                          // SHA256 отпечаток кода сброса пароля
	Verified           bool       `json:"verified"`                   // email подтвержден
}

// PublicUser is the view of a User that is safe to return to clients.
type PublicUser struct {
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	AvatarURL string     `json:"avatarUrl"`
	Mobile    string     `json:"mobile"`
	Status    Status     `json:"status"`
	Role      Role       `json:"role"`
	Verified  bool       `json:"verified"`
}

// Public strips secret fields.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Mobile:    u.Mobile,
		Status:    u.Status,
		Role:      u.Role,
		Verified:  u.Verified,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// HasActiveReset reports whether a password reset code is pending at now.
func (u *User) HasActiveReset(now time.Time) bool {
	return u.ResetCodeHash != "" && u.ResetExpiresAt != nil && now.Before(*u.ResetExpiresAt)
}
