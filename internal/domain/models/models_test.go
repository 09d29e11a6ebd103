package models_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/traders/internal/domain/models"
)

func TestCapitalize(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("Laptop", models.Capitalize("laptop"))
	assert.Equal("Hp", models.Capitalize("HP"))
	assert.Equal("Air fryer", models.Capitalize("air FRYER"))
	assert.Equal("", models.Capitalize(""))
	assert.Equal("Élan", models.Capitalize("éLAN"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "washing machine", models.Normalize("  Washing Machine "))
}

func TestParseKind(t *testing.T) {
	kind, err := models.ParseKind(" Sales ")
	require.NoError(t, err)
	assert.Equal(t, models.KindSale, kind)

	_, err = models.ParseKind("stock")
	assert.ErrorIs(t, err, models.ErrUnknownKind)
}

func TestErrorsUnwrap(t *testing.T) {
	var err error = &models.MissingFieldError{Fields: []string{"item", "city"}}
	assert.True(t, errors.Is(err, models.ErrMissingField))
	assert.Contains(t, err.Error(), "item, city")

	err = &models.NumberError{Field: "units", Value: "abc", Want: "an integer"}
	assert.True(t, errors.Is(err, models.ErrInvalidNumber))
}

func TestCalendarDate(t *testing.T) {
	loc := time.FixedZone("PKT", 5*3600)
	got := models.CalendarDate(time.Date(2024, 3, 1, 2, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)
}
