package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetString(t *testing.T) {
	c := map[string]string{"PORT": "8080", "EMPTY": ""}
	assert.Equal(t, "8080", GetString(c, "PORT", "3000"))
	assert.Equal(t, "", GetString(c, "EMPTY", "fallback"), "a set-but-empty value wins over the default")
	assert.Equal(t, "fallback", GetString(c, "MISSING", "fallback"))
	assert.Equal(t, "fallback", GetString(nil, "PORT", "fallback"))
}

func TestGetInt(t *testing.T) {
	c := map[string]string{"LIMIT": "25", "BAD": "not-a-number"}
	assert.Equal(t, 25, GetInt(c, "LIMIT", 10))
	assert.Equal(t, 10, GetInt(c, "BAD", 10))
	assert.Equal(t, 10, GetInt(c, "MISSING", 10))
}

func TestGetBool(t *testing.T) {
	c := map[string]string{"ON": "true", "OFF": "0", "BAD": "yep"}
	assert.True(t, GetBool(c, "ON", false))
	assert.False(t, GetBool(c, "OFF", true))
	assert.True(t, GetBool(c, "BAD", true))
}

func TestGetDuration(t *testing.T) {
	c := map[string]string{"INTERVAL": "90s", "BAD": "soon"}
	assert.Equal(t, 90*time.Second, GetDuration(c, "INTERVAL", time.Minute))
	assert.Equal(t, time.Minute, GetDuration(c, "BAD", time.Minute))
	assert.Equal(t, time.Minute, GetDuration(c, "MISSING", time.Minute))
}

func TestSplit(t *testing.T) {
	key, value := split("DB_HOST=localhost")
	assert.Equal(t, "DB_HOST", key)
	assert.Equal(t, "localhost", value)

	key, value = split("DSN=postgres://u:p@h/db?sslmode=disable")
	assert.Equal(t, "DSN", key)
	assert.Equal(t, "postgres://u:p@h/db?sslmode=disable", value, "only the first = separates")

	key, value = split("NOVALUE")
	assert.Equal(t, "NOVALUE", key)
	assert.Equal(t, "", value)
}
