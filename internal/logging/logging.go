// Package logging builds the zap logger used for diagnostics. Progress and
// summary lines are report output and never go through it.
package logging

import (
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing debug records to w when verbose is
// set, and a no-op logger otherwise. Every record carries a run_id.
func New(w io.Writer, verbose bool) *zap.Logger {
	if !verbose || w == nil {
		return zap.NewNop()
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		zap.DebugLevel,
	)
	return zap.New(core).With(zap.String("run_id", NewRunID()))
}

func NewRunID() string {
	return uuid.NewString()
}
