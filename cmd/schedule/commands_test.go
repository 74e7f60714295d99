package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	root := newRootCommand()

	t.Run("subcommands are registered", func(t *testing.T) {
		for _, name := range []string{"serve", "migrate"} {
			cmd, _, err := root.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, cmd.Name())
		}
	})

	t.Run("persistent flags have defaults", func(t *testing.T) {
		envFile, err := root.PersistentFlags().GetString(flagEnvFile)
		require.NoError(t, err)
		assert.Equal(t, "deploy/.env", envFile)

		migrations, err := root.PersistentFlags().GetString(flagMigrations)
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})
}
