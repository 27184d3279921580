package main

import (
	"context"
	"os"
	"time"

	"github.com/nlysenko/podboard/search"
	"github.com/nlysenko/podboard/utils"
	"github.com/nlysenko/podboard/utils/dotenv"
	. "github.com/nlysenko/podboard/utils/flag"
	. "github.com/nlysenko/podboard/utils/log"
)

const connectTimeout = 10 * time.Second

// The resyncer is the offline counterpart of the HTTP sync endpoint: it
// re-indexes every post once and exits. Run it after restoring an
// Elasticsearch node or whenever the index is suspected to have drifted
// from the relational store.
func main() {
	Parse()
	ServiceName = Resyncer
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	InitLogger()

	db, err := utils.GetDBConnection()
	if err != nil {
		Log.Fatal("fail to connect to database: ", err)
	}

	host, port := os.Getenv("ELASTIC_HOST"), os.Getenv("ELASTIC_PORT")
	if host == "" {
		Log.Fatal("ELASTIC_HOST is required for a resync")
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	idx, err := search.NewPostIndex(ctx, "http://"+host+":"+port)
	cancel()
	if err != nil {
		Log.Fatal("fail to connect to the search index: ", err)
	}

	report, err := search.SyncAll(context.Background(), db, idx)
	if err != nil {
		Log.Fatal("resync failed: ", err)
	}
	Log.Infof("resync done: index size %d -> %d, relational size %d",
		report.EsSizeOld, report.EsSizeNew, report.PostgresSize)
}
