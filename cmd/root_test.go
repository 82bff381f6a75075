package cmd

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sm1l43s/movies/internal/config"
)

func TestNewLogger(t *testing.T) {
	l, err := newLogger(&config.Config{LogLevel: "warn"})
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())

	l, err = newLogger(&config.Config{LogLevel: "warn", Debug: true})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	_, err = newLogger(&config.Config{LogLevel: "loud"})
	require.Error(t, err)
}
