package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=100"`
	Email     string `json:"email" validate:"required,email,max=150"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	Role      string `json:"role" validate:"required,userrole"`
	Status    string `json:"status" validate:"omitempty,userstatus"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestPhoneTag(t *testing.T) {
	v := newValidator()
	cases := map[string]bool{
		"+12345678901":           true,
		"1234567890":             true,
		"12345678901234567890":   true,
		"123456789":              false,
		"+123456789012345678901": false,
		"123-456-7890":           false,
		"++1234567890":           false,
	}
	for phone, ok := range cases {
		err := v.Var(phone, "phone")
		if ok {
			assert.NoError(t, err, phone)
		} else {
			assert.Error(t, err, phone)
		}
	}
}

func TestToDetailsUsesJSONNames(t *testing.T) {
	v := newValidator()
	err := v.Struct(sample{FirstName: "J", Email: "nope", Phone: "12", Role: "ROOT", Status: "GONE"})
	require.Error(t, err)

	d := ToDetails(err)
	assert.Equal(t, "must be at least 2 characters long", d["firstName"])
	assert.Equal(t, "must be a valid email", d["email"])
	assert.Contains(t, d["phone"], "10 to 20 digits")
	assert.Equal(t, "must be one of [ADMIN, MANAGER, USER]", d["role"])
	assert.Equal(t, "must be one of [ACTIVE, INACTIVE, SUSPENDED, PENDING]", d["status"])
}

func TestRoleAndStatusAreCaseInsensitive(t *testing.T) {
	v := newValidator()
	err := v.Struct(sample{FirstName: "John", Email: "john@example.com", Role: "manager", Status: "pending"})
	assert.NoError(t, err)
}

func TestToDetailsPayloadErrors(t *testing.T) {
	var target map[string]any
	err := json.Unmarshal([]byte("{"), &target)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("EOF")))
	assert.Nil(t, ToDetails(nil))
}
