package profiles

import (
	"strings"

	"github.com/google/uuid"
)

// Profile профиль пользователя из таблицы profiles (Supabase)
type Profile struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

// DisplayName имя для уведомлений
func (p *Profile) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
