package utils

import (
	"github.com/nlysenko/podboard/utils/dotenv"
	. "github.com/nlysenko/podboard/utils/flag"
	Logger "github.com/nlysenko/podboard/utils/log"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"
)

// InitProfiler starts the Datadog profiler. Must be called from main before
// the server starts serving.
func InitProfiler() {
	env := dotenv.DevEnv
	if dotenv.IsProdEnv() {
		env = dotenv.ProdEnv
	}

	if err := profiler.Start(
		profiler.WithService(ServiceName),
		profiler.WithEnv(env),
		profiler.WithProfileTypes(
			profiler.CPUProfile,
			profiler.HeapProfile,
			// The profiles below are disabled by
			// default to keep overhead low, but
			// can be enabled as needed.
			// profiler.BlockProfile,
			// profiler.MutexProfile,
			// profiler.GoroutineProfile,
		),
	); err != nil {
		Logger.Log.Fatal(err)
	}
}

// Stop profiler, OK to be closed multiple times
func CloseProfiler() {
	profiler.Stop()
}
