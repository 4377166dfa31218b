package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/bundleworks/gitbundle/internal/utils"
)

func TestCreateLoggerHonorsLevelAndFormat(testInstance *testing.T) {
	testCases := []struct {
		name         string
		logLevel     utils.LogLevel
		logFormat    utils.LogFormat
		enabledLevel zapcore.Level
		expectError  bool
	}{
		{name: "debug_structured", logLevel: utils.LogLevelDebug, logFormat: utils.LogFormatStructured, enabledLevel: zapcore.DebugLevel},
		{name: "info_console", logLevel: utils.LogLevelInfo, logFormat: utils.LogFormatConsole, enabledLevel: zapcore.InfoLevel},
		{name: "error_structured", logLevel: utils.LogLevelError, logFormat: utils.LogFormatStructured, enabledLevel: zapcore.ErrorLevel},
		{name: "unknown_level", logLevel: utils.LogLevel("verbose"), logFormat: utils.LogFormatStructured, expectError: true},
		{name: "unknown_format", logLevel: utils.LogLevelInfo, logFormat: utils.LogFormat("xml"), expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			logger, creationError := utils.NewLoggerFactory().CreateLogger(testCase.logLevel, testCase.logFormat)
			if testCase.expectError {
				require.Error(testInstance, creationError)
				require.Nil(testInstance, logger)
				return
			}

			require.NoError(testInstance, creationError)
			require.True(testInstance, logger.Core().Enabled(testCase.enabledLevel))
			if testCase.enabledLevel > zapcore.DebugLevel {
				require.False(testInstance, logger.Core().Enabled(zapcore.DebugLevel))
			}
		})
	}
}
