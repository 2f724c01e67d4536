package sccp

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		f    Frame
	}{
		{"empty body", Frame{ID: 0x11, Body: nil}},
		{"small body", Frame{ID: 0x99, Body: []byte{1, 2, 3, 4}}},
		{"near max body", Frame{ID: 0x01, Body: bytes.Repeat([]byte{0xAB}, MaxFrameSize-4-4)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteFrame(&buf, tc.f))
			got, err := ReadFrame(&buf)
			require.NoError(t, err)
			assert.Equal(t, tc.f.ID, got.ID)
			if len(tc.f.Body) == 0 {
				assert.Empty(t, got.Body)
			} else {
				assert.Equal(t, tc.f.Body, got.Body)
			}
		})
	}
}

func TestReadFrameBoundaries(t *testing.T) {
	t.Run("length exactly 4 decodes to id-only frame", func(t *testing.T) {
		var header [8]byte
		header[0] = 4
		buf := bytes.NewBuffer(header[:])
		buf.Write([]byte{0x2A, 0, 0, 0})
		f, err := ReadFrame(buf)
		require.NoError(t, err)
		assert.Equal(t, uint32(0x2A), f.ID)
		assert.Empty(t, f.Body)
	})

	t.Run("length 2000-4 accepted", func(t *testing.T) {
		length := uint32(MaxFrameSize - 4)
		var header [8]byte
		header[0] = byte(length)
		header[1] = byte(length >> 8)
		buf := bytes.NewBuffer(header[:])
		buf.Write(make([]byte, length))
		_, err := ReadFrame(buf)
		require.NoError(t, err)
	})

	t.Run("length too large rejected", func(t *testing.T) {
		length := uint32(MaxFrameSize - 3)
		var header [8]byte
		header[0] = byte(length)
		header[1] = byte(length >> 8)
		buf := bytes.NewBuffer(header[:])
		_, err := ReadFrame(buf)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrFrameTooLarge))
	})

	t.Run("short header is FrameTooShort", func(t *testing.T) {
		buf := bytes.NewBuffer([]byte{1, 2, 3})
		_, err := ReadFrame(buf)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrFrameTooShort))
	})

	t.Run("EOF with no bytes propagates", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		_, err := ReadFrame(buf)
		require.Error(t, err)
	})
}

func TestWriteFrameRejectsOversize(t *testing.T) {
	f := Frame{ID: 1, Body: bytes.Repeat([]byte{0}, MaxFrameSize)}
	var buf bytes.Buffer
	err := WriteFrame(&buf, f)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFrameTooLarge))
}
