package validator

import (
	"net/mail"
	"slices"
	"strings"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

// Error joins the messages in field order so the envelope gets one readable line.
func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	slices.Sort(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, v[f])
	}
	return strings.Join(msgs, "; ")
}

type SignupFields struct {
	Name       string
	Email      string
	Password   string
	ProfileURL string
	Gender     string
	Address    string
	Username   string
}

func ValidateSignup(in SignupFields) ValidationErrors {
	errs := make(ValidationErrors)

	required(errs, "name", "Name", in.Name)
	required(errs, "profile_url", "Profile URL", in.ProfileURL)
	required(errs, "address", "Address", in.Address)
	required(errs, "username", "Username", in.Username)

	email := strings.TrimSpace(in.Email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}

	if in.Password == "" {
		errs.Add("password", "Password is required")
	}

	switch strings.TrimSpace(in.Gender) {
	case "":
		errs.Add("gender", "Gender is required")
	case "male", "female":
	default:
		errs.Add("gender", "Gender must be male or female")
	}

	return errs
}

func ValidateLogin(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(email) == "" {
		errs.Add("email", "Email is required")
	}

	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidatePostCreate(title, description, content string) ValidationErrors {
	errs := make(ValidationErrors)

	required(errs, "title", "Title", title)
	required(errs, "description", "Description", description)
	required(errs, "content", "Content", content)

	return errs
}

// ValidatePostUpdate checks only the fields that were sent; a sent field may not be blank.
func ValidatePostUpdate(title, description, content *string) ValidationErrors {
	errs := make(ValidationErrors)

	if title != nil {
		required(errs, "title", "Title", *title)
	}
	if description != nil {
		required(errs, "description", "Description", *description)
	}
	if content != nil {
		required(errs, "content", "Content", *content)
	}

	return errs
}

func ValidateComment(content string) ValidationErrors {
	errs := make(ValidationErrors)
	required(errs, "content", "Comment content", content)
	return errs
}

func required(errs ValidationErrors, field, label, value string) {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, label+" is required")
	}
}
