// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

package auth

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// MinPasswordLength is the shortest password accepted at sign-up or update.
const MinPasswordLength = 6

const maxNameLength = 100

// SignUpCommand is the input to Service.SignUp.
type SignUpCommand struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirmPassword"`
	ImageID         *string `json:"image_id,omitempty"`
	Introduction    *string `json:"introduction,omitempty"`
}

// Validate checks the command fields.
func (c SignUpCommand) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, maxNameLength)),
		validation.Field(&c.Email, validation.Required, is.Email),
		validation.Field(&c.Password,
			validation.Required,
			validation.Length(MinPasswordLength, 0),
			validation.By(maxBytes(MaxPasswordBytes)),
		),
		validation.Field(&c.ConfirmPassword,
			validation.Required,
			validation.By(stringEquals(c.Password, "passwords do not match")),
		),
	)
}

// LoginCommand is the input to Service.Login.
type LoginCommand struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the command fields.
func (c LoginCommand) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Required, is.Email),
		validation.Field(&c.Password, validation.Required),
	)
}

// UpdateProfileCommand carries the fields to change. Nil fields are left as
// they are.
type UpdateProfileCommand struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Password     *string `json:"password,omitempty"`
	ImageID      *string `json:"image_id,omitempty"`
	Introduction *string `json:"introduction,omitempty"`
}

// Validate checks the fields that are present.
func (c UpdateProfileCommand) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.NilOrNotEmpty, validation.Length(1, maxNameLength)),
		validation.Field(&c.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&c.Password,
			validation.NilOrNotEmpty,
			validation.Length(MinPasswordLength, 0),
			validation.By(maxBytes(MaxPasswordBytes)),
		),
	)
}

// IsEmpty reports whether the command changes nothing.
func (c UpdateProfileCommand) IsEmpty() bool {
	return c.Name == nil && c.Email == nil && c.Password == nil && c.ImageID == nil && c.Introduction == nil
}

func stringEquals(want, message string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != want {
			return errors.New(message)
		}
		return nil
	}
}

func maxBytes(limit int) validation.RuleFunc {
	return func(value any) error {
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case *string:
			if v == nil {
				return nil
			}
			s = *v
		}
		if len(s) > limit {
			return fmt.Errorf("must be at most %d bytes", limit)
		}
		return nil
	}
}
