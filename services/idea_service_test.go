package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "Tech", NormalizeCategory("tech"))
	assert.Equal(t, "Health", NormalizeCategory("HEALTH"))
	assert.Equal(t, "Finance", NormalizeCategory("  finance "))
	assert.Equal(t, "Other", NormalizeCategory("other"))
	assert.Equal(t, "", NormalizeCategory("blockchain gaming"))
	assert.Equal(t, "", NormalizeCategory(""))
}

func TestValidateIdeaShape(t *testing.T) {
	startupID := "a3bb189e-8bf9-4c6a-9f1e-3dc3ee4c2a11"

	assert.NoError(t, validateIdeaShape(true, &startupID, "Tech", ""))
	assert.Error(t, validateIdeaShape(true, nil, "Tech", ""))

	assert.NoError(t, validateIdeaShape(false, nil, "Finance", ""))
	assert.Error(t, validateIdeaShape(false, &startupID, "Finance", ""))

	assert.Error(t, validateIdeaShape(true, &startupID, "Other", ""))
	assert.NoError(t, validateIdeaShape(true, &startupID, "Other", "SpaceTech"))
}
