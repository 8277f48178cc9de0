package errmsg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	refused := errors.New("connection refused")

	assert.Empty(t, Format(OpStreamOpen, nil))
	assert.Equal(t, "Failed to open stream: connection refused", Format(OpStreamOpen, refused))
	assert.Equal(t, "Failed to decode stream: unsupported format",
		Format(OpStreamDecode, errors.New("unsupported format")))
	assert.Equal(t, "Failed to seek: connection refused", Format(OpPlaybackSeek, refused))
}

func TestFormatWith(t *testing.T) {
	busy := errors.New("address already in use")

	assert.Empty(t, FormatWith(OpRemoteStart, "127.0.0.1:8765", nil))
	assert.Equal(t, "Failed to start remote control '127.0.0.1:8765': address already in use",
		FormatWith(OpRemoteStart, "127.0.0.1:8765", busy))
	assert.Equal(t, Format(OpRemoteStart, busy), FormatWith(OpRemoteStart, "", busy),
		"an empty context reads like Format")
}

func TestOps_ReadAsVerbPhrases(t *testing.T) {
	ops := []Op{
		OpStreamOpen, OpStreamRead, OpStreamDecode,
		OpPlaybackStart, OpPlaybackSeek, OpPlaybackVolume, OpAudioDevice,
		OpTagsRead, OpCoverSave,
		OpSessionLoad, OpSessionSave,
		OpNotify, OpMPRISStart, OpRemoteStart,
		OpInitialize,
	}
	seen := make(map[Op]bool, len(ops))
	for _, op := range ops {
		assert.NotEmpty(t, op)
		assert.False(t, seen[op], "duplicate op %q", op)
		seen[op] = true
	}
}
