package decode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
	Limit      int64  `json:"limit"`
}

func TestDecodeMap(t *testing.T) {
	out, err := DecodeMap[samplePayload](map[string]any{
		"receiverId": "u2",
		"content":    "hello",
	})
	require.NoError(t, err)
	require.Equal(t, "u2", out.ReceiverID)
	require.Equal(t, "hello", out.Content)
}

func TestDecodeMapWeakTyping(t *testing.T) {
	// JSON numbers arrive as float64; strings may carry numbers
	out, err := DecodeMap[samplePayload](map[string]any{
		"receiverId": "u2",
		"limit":      float64(42),
	})
	require.NoError(t, err)
	require.Equal(t, int64(42), out.Limit)

	out, err = DecodeMap[samplePayload](map[string]any{"limit": "7"})
	require.NoError(t, err)
	require.Equal(t, int64(7), out.Limit)
}

func TestDecodeMapNil(t *testing.T) {
	_, err := DecodeMap[samplePayload](nil)
	require.Error(t, err)
}

func TestDecodeMapIgnoresUnknownFields(t *testing.T) {
	out, err := DecodeMap[samplePayload](map[string]any{
		"receiverId": "u2",
		"extra":      "noise",
	})
	require.NoError(t, err)
	require.Equal(t, "u2", out.ReceiverID)
}
