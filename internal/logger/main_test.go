package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebook/recipebook-web/internal/logger"
)

func TestInit(t *testing.T) {
	testCases := []struct {
		name             string
		cfg              logger.Log
		shouldHaveOutPut bool
		outPutIsJSON     bool
	}{
		{
			name:             "no logger enabled log level not set",
			cfg:              logger.Log{ServiceName: "test", AppName: "test"},
			shouldHaveOutPut: false,
		},
		{
			name: "console enabled log level info",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
		},
		{
			name: "console writer trace",
			cfg: logger.Log{
				LogLevel:    "trace",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true, UseConsoleWriter: true},
			},
			shouldHaveOutPut: true,
		},
		{
			name: "json output",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
		{
			name: "json output with caller and stack",
			cfg: logger.Log{
				LogLevel:     "trace",
				ServiceName:  "test",
				AppName:      "test",
				ReportCaller: true,
				Console:      logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := captureLogs(t, tc.cfg)

			if !tc.shouldHaveOutPut {
				assert.Empty(t, out)

				return
			}

			require.NotEmpty(t, out)

			if !tc.outPutIsJSON {
				return
			}

			for _, line := range strings.Split(out, "\n") {
				if line == "" {
					continue
				}

				var entry struct {
					Level   string `json:"level"`
					App     string `json:"app"`
					Message string `json:"message"`
				}

				require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
				assert.Equal(t, "test", entry.App)
			}
		})
	}
}

func TestInitValidation(t *testing.T) {
	err := logger.Init(logger.Log{LogLevel: "loud", ServiceName: "s", AppName: "a"})
	require.Error(t, err)

	err = logger.Init(logger.Log{LogLevel: "info", AppName: "a"})
	require.ErrorIs(t, err, logger.ErrServiceNameIsEmpty)

	err = logger.Init(logger.Log{LogLevel: "info", ServiceName: "s"})
	require.ErrorIs(t, err, logger.ErrAppNameIsEmpty)
}

func TestLevelWriter(t *testing.T) {
	var errBuf, infoBuf, traceBuf, warnBuf bytes.Buffer

	lw := &logger.LevelWriter{
		ErrorWriter: &errBuf,
		InfoWriter:  &infoBuf,
		TraceWriter: &traceBuf,
		WarnWriter:  &warnBuf,
	}

	for level, msg := range map[zerolog.Level]string{
		zerolog.TraceLevel: "t",
		zerolog.DebugLevel: "d",
		zerolog.InfoLevel:  "i",
		zerolog.WarnLevel:  "w",
		zerolog.ErrorLevel: "e",
		zerolog.FatalLevel: "f",
		zerolog.Disabled:   "x",
	} {
		_, err := lw.WriteLevel(level, []byte(msg))
		require.NoError(t, err)
	}

	assert.Equal(t, "t", traceBuf.String())
	assert.ElementsMatch(t, []byte("di"), infoBuf.Bytes())
	assert.Equal(t, "w", warnBuf.String())
	assert.ElementsMatch(t, []byte("ef"), errBuf.Bytes())
}

func TestInitFileOutput(t *testing.T) {
	dir := t.TempDir()

	err := logger.Init(logger.Log{
		LogLevel:    "info",
		ServiceName: "test",
		AppName:     "test",
		File: logger.LogFile{
			Enabled:  true,
			Path:     dir,
			ErrorLog: "error.log",
			InfoLog:  "info.log",
			TraceLog: "trace.log",
			WarnLog:  "warn.log",
		},
	})
	require.NoError(t, err)

	log.Info().Msg("to file")
	log.Error().Msg("to error file")

	info, err := os.ReadFile(dir + "/info.log")
	require.NoError(t, err)
	assert.Contains(t, string(info), "to file")

	errLog, err := os.ReadFile(dir + "/error.log")
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "to error file")
}

func captureLogs(t *testing.T, cfg logger.Log) string {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	r, w, _ := os.Pipe()
	os.Stdout = w
	os.Stderr = w

	require.NoError(t, logger.Init(cfg))

	log.Info().Msg("this info message should be seen...")
	log.Error().Err(errors.New("a test error")).Msg("this err message should be seen...") //nolint:err113
	log.Trace().Msg("this trace message should be seen...")

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer

		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr

	return <-outC
}
