package common

import (
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString(t *testing.T) {
	for _, n := range []int{0, 1, 32} {
		s, err := MakeRandHexString(n)
		require.NoError(t, err)
		assert.Len(t, s, n*2)
		_, err = hex.DecodeString(s)
		assert.NoError(t, err)
	}

	a, _ := MakeRandHexString(32)
	b, _ := MakeRandHexString(32)
	assert.NotEqual(t, a, b)
}

func TestGenerateRandByteArray(t *testing.T) {
	assert.Len(t, GenerateRandByteArray(24), 24)
	assert.Empty(t, GenerateRandByteArray(0))
}

func TestWipeByteArray(t *testing.T) {
	pw := []byte("correct horse")
	WipeByteArray(pw)
	assert.Equal(t, make([]byte, len(pw)), pw)

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}

func TestStorageError(t *testing.T) {
	cause := errors.New("database or disk is full")
	full := fmt.Errorf("put entry: %w", &StorageError{Kind: StorageQuotaExceeded, Op: "put", Err: cause})

	assert.True(t, IsQuotaExceeded(full))
	assert.ErrorIs(t, full, cause)
	assert.Equal(t, "put entry: storage full", full.Error())

	write := &StorageError{Kind: StorageWriteError, Op: "put", Err: errors.New("disk I/O error")}
	assert.False(t, IsQuotaExceeded(write))
	assert.Equal(t, "storage write_error (put): disk I/O error", write.Error())

	assert.False(t, IsQuotaExceeded(nil))
	assert.False(t, IsQuotaExceeded(cause))
}
