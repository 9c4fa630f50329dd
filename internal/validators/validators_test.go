package validators

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/eventmatch/backend/internal/models"
)

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "@ann", NormalizeHandle("ann"))
	assert.Equal(t, "@ann", NormalizeHandle("@ann"))
	assert.Equal(t, "@ann", NormalizeHandle("  ann "))
	assert.Equal(t, "", NormalizeHandle(""))
}

func TestSearchHandle(t *testing.T) {
	assert.Equal(t, "@", SearchHandle(""))
	assert.Equal(t, "@bo", SearchHandle("bo"))
}

func TestParseCategories(t *testing.T) {
	got, err := ParseCategories("BAR, club,FOOD_AND_DRINK")
	require.NoError(t, err)
	assert.Equal(t, models.Categories{models.CategoryBar, models.CategoryClub, models.CategoryFoodAndDrink}, got)

	got, err = ParseCategories("")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseCategories_Unknown(t *testing.T) {
	_, err := ParseCategories("BAR,DISCO")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Issues, 1)
	assert.Equal(t, "categories", verr.Issues[0].Field)
}

func TestValidate(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&models.CreateUserRequest{Username: "a", Email: "nope"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	fields := map[string]string{}
	for _, is := range verr.Issues {
		fields[is.Field] = is.Tag
	}
	assert.Equal(t, "min", fields["Username"])
	assert.Equal(t, "email", fields["Email"])
	assert.Equal(t, "required", fields["UID"])
}

func TestValidate_CategoryTag(t *testing.T) {
	type req struct {
		Category string `validate:"category"`
	}
	v := NewValidator()

	assert.NoError(t, v.Validate(&req{Category: "CINEMA"}))
	assert.Error(t, v.Validate(&req{Category: "cinema"}))
}

func TestValidate_OK(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&models.CreateUserRequest{
		Username: "ann", Email: "ann@example.com", Name: "Ann Lee", UID: "uid-1", Birthday: "1990-01-02",
	})

	assert.NoError(t, err)
}
