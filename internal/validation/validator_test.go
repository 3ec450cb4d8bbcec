package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCredit struct {
	Name  string `yaml:"name" validate:"required"`
	Role  string `yaml:"role" validate:"role"`
	Order int    `yaml:"order" validate:"gte=1"`
}

type testBook struct {
	Title   string       `yaml:"title" validate:"required,max=20"`
	ISBN    string       `yaml:"isbn" validate:"omitempty,isbn"`
	Format  string       `yaml:"format" validate:"omitempty,format"`
	Credits []testCredit `yaml:"credits" validate:"dive"`
}

func TestValidate_Valid(t *testing.T) {
	v := New()

	err := v.Validate(testBook{
		Title:   "Dune",
		ISBN:    "978-0-14-312755-0",
		Format:  "paperback",
		Credits: []testCredit{{Name: "Frank Herbert", Role: "author", Order: 1}},
	})
	assert.NoError(t, err)

	assert.NoError(t, v.Validate(testBook{Title: "Dune", Format: "?"}))
}

func TestValidate_Invalid(t *testing.T) {
	v := New()

	err := v.Validate(testBook{
		Title:   "",
		ISBN:    "9780143127551",
		Format:  "scroll",
		Credits: []testCredit{{Name: "", Role: "narrator", Order: 0}},
	})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"title":            "is required",
		"isbn":             "must be a valid ISBN-10 or ISBN-13",
		"format":           "must be a book format",
		"credits[0].name":  "is required",
		"credits[0].role":  "must be a credit role",
		"credits[0].order": "must be greater than or equal to 1",
	}, verr.Fields)
	assert.Contains(t, err.Error(), "credits[0].name is required")
}
