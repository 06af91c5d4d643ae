// Package schema declares the request shapes of the user API and their
// validation rules. Every rule violation is reported, not just the
// first, so a caller can fix a payload in one round trip.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Result is the outcome of validating one request payload.
type Result struct {
	Valid  bool
	Errors []string
}

// ErrorMessage joins the accumulated field errors for the response
// envelope.
func (r Result) ErrorMessage() string {
	out := ""
	for i, e := range r.Errors {
		if i > 0 {
			out += ","
		}
		out += e
	}
	return out
}

// ListUsersParams carries the query parameters of GET /users. All
// fields are optional.
type ListUsersParams struct {
	Email            string `json:"email"`
	ReturnAttributes string `json:"returnAttributes"`
	NextToken        string `json:"nextToken"`
	Limit            *int   `json:"limit"`
}

// ListUsersParamNames is the closed set of accepted query parameters.
var ListUsersParamNames = []string{"email", "returnAttributes", "nextToken", "limit"}

// ozzo skips zero values, so a plain Min(1) would wave limit=0 through.
var limitRule = validation.By(func(value interface{}) error {
	if n, ok := value.(*int); ok && n != nil && *n < 1 {
		return errors.New("must be no less than 1")
	}
	return nil
})

func (p ListUsersParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Limit, limitRule),
	)
}

// CreateUserInput is the body of POST /users. Every attribute is
// required and non-empty.
type CreateUserInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Gender    string `json:"gender"`
	JobTitle  string `json:"jobTitle"`
	Country   string `json:"country"`
}

func (i CreateUserInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.FirstName, validation.Required),
		validation.Field(&i.LastName, validation.Required),
		validation.Field(&i.Email, validation.Required),
		validation.Field(&i.Gender, validation.Required),
		validation.Field(&i.JobTitle, validation.Required),
		validation.Field(&i.Country, validation.Required),
	)
}

// UpdateUserInput is the body of PATCH /users. Email selects the record
// and is required; the rest are optional but must be non-empty when
// supplied, which is why they are pointers.
type UpdateUserInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     string  `json:"email"`
	Gender    *string `json:"gender"`
	JobTitle  *string `json:"jobTitle"`
	Country   *string `json:"country"`
}

func (i UpdateUserInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.FirstName, validation.NilOrNotEmpty),
		validation.Field(&i.LastName, validation.NilOrNotEmpty),
		validation.Field(&i.Email, validation.Required),
		validation.Field(&i.Gender, validation.NilOrNotEmpty),
		validation.Field(&i.JobTitle, validation.NilOrNotEmpty),
		validation.Field(&i.Country, validation.NilOrNotEmpty),
	)
}

// DeleteUserParams carries the query parameters of DELETE /users.
type DeleteUserParams struct {
	Email string `json:"email"`
}

// DeleteUserParamNames is the closed set of accepted query parameters.
var DeleteUserParamNames = []string{"email"}

func (p DeleteUserParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required),
	)
}

// Check runs a payload's rules and flattens the outcome. Extra errors
// collected during parsing (unknown fields, unparsable numbers) are
// folded in so the caller still sees everything at once.
func Check(v validation.Validatable, extra ...string) Result {
	errs := append([]string{}, extra...)

	if err := v.Validate(); err != nil {
		if fieldErrs, ok := err.(validation.Errors); ok {
			names := make([]string, 0, len(fieldErrs))
			for name := range fieldErrs {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				errs = append(errs, fmt.Sprintf("%s: %s", name, fieldErrs[name]))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return Result{Errors: errs}
	}
	return Result{Valid: true}
}

// DecodeStrict unmarshals a JSON body rejecting any field outside the
// target's declared set.
func DecodeStrict(data []byte, target any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// UnknownParams reports which of the given query-parameter names fall
// outside the allowed set.
func UnknownParams(given []string, allowed []string) []string {
	ok := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		ok[a] = true
	}
	var unknown []string
	for _, g := range given {
		if !ok[g] {
			unknown = append(unknown, fmt.Sprintf("unknown parameter: %s", g))
		}
	}
	sort.Strings(unknown)
	return unknown
}
