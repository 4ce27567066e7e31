package library

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	var fresh Identity
	assert.True(t, fresh.IsNew())
	assert.Zero(t, fresh.Int64())
	assert.Equal(t, "new", fresh.String())

	// A stored row may legitimately have id 0.
	zero := Existing(0)
	assert.False(t, zero.IsNew())
	assert.Equal(t, "0", zero.String())
	assert.NotEqual(t, fresh, zero)
}

func TestIdentityJSON(t *testing.T) {
	b, err := json.Marshal(Category{ID: Existing(12), Name: "Art"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":12,"name":"Art","description":""}`, string(b))

	b, err = json.Marshal(Category{Name: "Art"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":null,"name":"Art","description":""}`, string(b))

	var c Category
	require.NoError(t, json.Unmarshal([]byte(`{"id":5}`), &c))
	assert.Equal(t, Existing(5), c.ID)
}
