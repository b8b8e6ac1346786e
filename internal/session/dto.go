package session

import (
	"errors"
	"strings"

	"github.com/saulo-duarte/chronos-goals/internal/settings"
)

var (
	ErrMissingFields    = errors.New("please fill in all fields")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

type CredentialsDTO struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
}

func (dto CredentialsDTO) validate(register bool) error {
	if strings.TrimSpace(dto.Email) == "" || dto.Password == "" {
		return ErrMissingFields
	}
	if register && dto.Password != dto.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

type ActivateResponse struct {
	Status
	FailedMarked int `json:"failedMarked"`
}

type SettingsResponse struct {
	Settings  settings.Settings `json:"settings"`
	Persisted bool              `json:"persisted"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
