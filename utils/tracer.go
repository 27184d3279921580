package utils

import (
	"github.com/nlysenko/podboard/utils/dotenv"
	. "github.com/nlysenko/podboard/utils/flag"
	Logger "github.com/nlysenko/podboard/utils/log"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// InitTracer starts the Datadog tracer. Must be called from main before the
// server starts serving.
func InitTracer() {
	env := dotenv.DevEnv
	if dotenv.IsProdEnv() {
		env = dotenv.ProdEnv
	}

	tracer.Start(
		tracer.WithService(ServiceName),
		tracer.WithEnv(env),
	)

	Logger.Log.Info("tracer initialized")
}

// Stop tracer, OK to be closed multiple times
func CloseTracer() {
	tracer.Stop()
}
