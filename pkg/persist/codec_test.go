package persist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/persistfsm/pkg/persist"
)

func TestStringCodec(t *testing.T) {
	t.Parallel()
	var c persist.Codec[OrderState] = persist.StringCodec[OrderState]{}

	raw, err := c.Encode(Sent)
	require.NoError(t, err)
	assert.Equal(t, "SENT", raw)

	s, err := c.Decode("DELIVERED")
	require.NoError(t, err)
	assert.Equal(t, Delivered, s)

	_, err = c.Decode("")
	assert.ErrorIs(t, err, persist.ErrInvalidCodecValue)
}

func TestEnumCodec(t *testing.T) {
	t.Parallel()
	type phase int
	c := persist.EnumCodec(map[phase]string{0: "draft", 1: "live"})

	raw, err := c.Encode(1)
	require.NoError(t, err)
	assert.Equal(t, "live", raw)

	p, err := c.Decode("draft")
	require.NoError(t, err)
	assert.Equal(t, phase(0), p)

	_, err = c.Decode("archived")
	assert.ErrorIs(t, err, persist.ErrInvalidCodecValue)

	_, err = c.Encode(7)
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "42", persist.Key(42))
	assert.Equal(t, "a-b", persist.Key("a-b"))
}
