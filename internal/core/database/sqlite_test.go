package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteLowerIsUnicode(t *testing.T) {
	db, err := NewGorm(Opts{
		Driver:       "sqlite",
		DSN:          "file:lower_unicode?mode=memory&cache=shared",
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	var got string
	require.NoError(t, db.Raw("SELECT lower(?)", "Первая ЗАДАЧА Ünï").Scan(&got).Error)
	assert.Equal(t, "первая задача ünï", got)

	var isNull int
	require.NoError(t, db.Raw("SELECT lower(NULL) IS NULL").Scan(&isNull).Error)
	assert.Equal(t, 1, isNull)
}

func TestUnicodeLower(t *testing.T) {
	assert.Equal(t, "аналитика", unicodeLower("АНАЛИТИКА"))
	assert.Equal(t, "abc", unicodeLower([]byte("ABC")))
	assert.Nil(t, unicodeLower([]byte(nil)))
	assert.Equal(t, int64(7), unicodeLower(int64(7)))
}
