package snapshot

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_Set_ShouldOverwriteExistingSnapshot(t *testing.T) {
	// given
	store := NewMemoryStore()
	store.Set("app-1", 2, json.RawMessage(`{"given_name":"Amit"}`))

	// when
	store.Set("app-1", 2, json.RawMessage(`{"given_name":"Ram"}`))

	// then
	snap, ok := store.Get("app-1", 2)
	assert.True(t, ok)
	assert.JSONEq(t, `{"given_name":"Ram"}`, string(snap))
}

func TestMemoryStore_Get_ShouldReturnFalseForMissingSnapshot(t *testing.T) {
	// given
	store := NewMemoryStore()

	// when
	_, ok := store.Get("app-1", 1)

	// then
	assert.False(t, ok)
}

func TestMemoryStore_GetAll_ShouldScopeByApplication(t *testing.T) {
	// given
	store := NewMemoryStore()
	store.Set("app-1", 1, json.RawMessage(`{}`))
	store.Set("app-1", 2, json.RawMessage(`{}`))
	store.Set("app-2", 1, json.RawMessage(`{}`))

	// when
	all := store.GetAll("app-1")

	// then
	assert.Len(t, all, 2)
	assert.Contains(t, all, 1)
	assert.Contains(t, all, 2)
}

func TestMemoryStore_Position_ShouldRoundTrip(t *testing.T) {
	// given
	store := NewMemoryStore()

	// when
	_, okBefore := store.LoadPosition("app-1")
	store.SavePosition("app-1", 4)
	step, okAfter := store.LoadPosition("app-1")

	// then
	assert.False(t, okBefore)
	assert.True(t, okAfter)
	assert.Equal(t, 4, step)
}
