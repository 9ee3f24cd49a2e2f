package middleware

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Number string `json:"invoice_number" validate:"required"`
	Format string `json:"format" validate:"oneof=xlsx pdf"`
	Remark string `json:"remark" validate:"max=3"`
}

func TestValidationDetails(t *testing.T) {
	v := validator.New()
	v.SetTagName("validate")

	t.Run("should describe every invalid field", func(t *testing.T) {
		err := v.Struct(sample{Format: "csv", Remark: "toolong"})
		details := ValidationDetails(err)

		require.Len(t, details, 3)
		assert.Equal(t, "This field is required", details[0].Message)
		assert.Equal(t, "Must be one of: xlsx pdf", details[1].Message)
		assert.Equal(t, "Must be at most 3 characters", details[2].Message)
	})

	t.Run("should ignore other errors", func(t *testing.T) {
		assert.Nil(t, ValidationDetails(errors.New("unexpected EOF")))
	})
}
