package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// AuthService consulta al servicio externo de autenticación.
type AuthService struct {
	authURL string
	client  *http.Client
}

// AuthUser es la vista de sesión que consume el resto del sistema.
type AuthUser struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

func NewAuthService(authURL string) *AuthService {
	return &AuthService{
		authURL: authURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// ValidateToken valida el token consultando /users/current del servicio
// de auth. Todo usuario autenticado es admin: todavía no hay roles.
func (a *AuthService) ValidateToken(token string) (*AuthUser, error) {
	req, err := http.NewRequest("GET", fmt.Sprintf("%s/users/current", a.authURL), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("invalid token")
	}

	var payload struct {
		UID     string `json:"uid"`
		Email   string `json:"email"`
		Enabled bool   `json:"enabled"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	if !payload.Enabled {
		return nil, errors.New("user disabled")
	}

	return &AuthUser{
		UID:     payload.UID,
		Email:   payload.Email,
		IsAdmin: true,
	}, nil
}
