package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"todoservice/internal/adapter/logger"
	"todoservice/internal/config"
)

func TestNew(t *testing.T) {
	app := config.AppConfig{Name: "todoservice", Environment: "test"}

	log, err := logger.New(app, config.LogConfig{Level: "debug"})

	assert.NoError(t, err)
	assert.NotNil(t, log)

	_, err = logger.New(app, config.LogConfig{Level: "loud"})

	assert.Error(t, err)
}
