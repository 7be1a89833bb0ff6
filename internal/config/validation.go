package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"taskclient/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "is required",
		}
	}
	return nil
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// ValidateAbsoluteURL checks that value parses as an absolute http(s) URL
func ValidateAbsoluteURL(field, value string) error {
	if err := ValidateRequired(field, value); err != nil {
		return err
	}
	u, err := url.Parse(value)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "must be an absolute http or https URL",
		}
	}
	return nil
}

// Validate checks the whole configuration and reports every problem found.
func (c Config) Validate() error {
	var errs ValidationErrors
	add := func(err error) {
		if ve, ok := err.(ValidationError); ok {
			errs = append(errs, ve)
		}
	}

	add(ValidateAbsoluteURL("taskApi.endpoint", c.TaskAPI.Endpoint))
	add(ValidateRequired("taskApi.registration", c.TaskAPI.Registration))
	if c.TaskAPI.Timeout < 0 {
		errs.Add("taskApi.timeout", "must not be negative", c.TaskAPI.Timeout)
	}

	if c.TaskAPI.Registration != "" {
		if _, ok := c.ActiveRegistration(); !ok {
			errs.Add("oauth2.registrations", fmt.Sprintf("no registration named %q", c.TaskAPI.Registration))
		}
	}

	ids := make([]string, 0, len(c.OAuth2.Registrations))
	for id := range c.OAuth2.Registrations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		reg := c.OAuth2.Registrations[id]
		prefix := "oauth2.registrations." + id
		add(ValidateRequired(prefix+".clientId", reg.ClientID))
		add(ValidateAbsoluteURL(prefix+".tokenUrl", reg.TokenURL))
		if reg.AuthStyle != "" {
			add(ValidateOneOf(prefix+".authStyle", reg.AuthStyle, []string{AuthStyleAuto, AuthStyleHeader, AuthStyleParams}))
		}
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs.Add("logging.level", err.Error(), c.Logging.Level)
	}
	if c.Logging.Format != "" {
		add(ValidateOneOf("logging.format", strings.ToLower(c.Logging.Format), []string{string(logging.FormatText), string(logging.FormatJSON)}))
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
