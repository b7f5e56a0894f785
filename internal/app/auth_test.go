package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthStaticKey(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled when nothing configured", func(t *testing.T) {
		auth, err := NewAuth(&Config{})
		require.NoError(t, err)

		assert.False(t, auth.Enabled())
		assert.NoError(t, auth.VerifyKey(ctx, "a@x.com", ""))
	})

	t.Run("static key enforced", func(t *testing.T) {
		config := &Config{}
		config.API.Key = "sekrit"

		auth, err := NewAuth(config)
		require.NoError(t, err)
		require.True(t, auth.Enabled())

		assert.Error(t, auth.VerifyKey(ctx, "a@x.com", ""))
		assert.Error(t, auth.VerifyKey(ctx, "a@x.com", "guess"))
		assert.NoError(t, auth.VerifyKey(ctx, "a@x.com", "sekrit"))
	})
}
