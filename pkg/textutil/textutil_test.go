package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "aeioun", Normalize("ÁÉÍÓÚñ"))
	assert.Equal(t, "cafe", Normalize("Café"))
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "tienda", Normalize("TIENDA"))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Café", "cafe"))
	assert.True(t, ContainsFold("Jabón artesanal", "JABON"))
	assert.True(t, ContainsFold("anything", ""))
	assert.False(t, ContainsFold("cafe", "té"))
}
