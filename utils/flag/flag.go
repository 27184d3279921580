/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic
	For service dependent flags please define in their respective package
*/

package flag

import (
	"flag"
)

const (
	APIServer = "api_server"
	Resyncer  = "resyncer"
)

var (
	IsDevelopment bool
	ByPassAuth    bool
	ServiceName   string
)

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	flag.BoolVar(&ByPassAuth, "no_auth", false, "set to true to skip session validation, local development only")
	flag.StringVar(&ServiceName, "service", APIServer, "'api_server' or 'resyncer'")
}

// Parse must be called from main, not from init: parsing at import time
// would choke on the -test.* flags the test runner injects.
func Parse() {
	flag.Parse()
}
