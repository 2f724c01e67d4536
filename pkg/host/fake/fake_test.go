package fake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vincentpeyrouse/wazo-libsccp/pkg/host"
)

var _ host.Host = (*Host)(nil)
var _ host.Channel = (*Channel)(nil)
var _ host.RTPInstance = (*RTP)(nil)

func TestHintSubscriptionFiresOnChange(t *testing.T) {
	h := New()
	var got string
	id, err := h.Subscribe("default", "200", func(state string) { got = state })
	require.NoError(t, err)
	require.NotZero(t, id)

	h.SetHintState("default", "200", "INUSE")
	assert.Equal(t, "INUSE", got)

	require.NoError(t, h.Unsubscribe(id))
	h.SetHintState("default", "200", "IDLE")
	assert.Equal(t, "INUSE", got, "callback must not fire after unsubscribe")
}

func TestExtenExistsDefaultsFalse(t *testing.T) {
	h := New()
	ok, err := h.ExtenExists("default", "100")
	require.NoError(t, err)
	assert.False(t, ok)

	h.Extensions["default/100"] = true
	ok, err = h.ExtenExists("default", "100")
	require.NoError(t, err)
	assert.True(t, ok)
}
