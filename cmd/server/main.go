package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/nlysenko/podboard/auth"
	"github.com/nlysenko/podboard/file_store"
	"github.com/nlysenko/podboard/search"
	"github.com/nlysenko/podboard/server"
	"github.com/nlysenko/podboard/utils"
	"github.com/nlysenko/podboard/utils/dotenv"
	. "github.com/nlysenko/podboard/utils/flag"
	. "github.com/nlysenko/podboard/utils/log"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

const (
	defaultPageSize = 5
	defaultAudioDir = "audio"
	defaultPort     = "8080"

	startupProbeTimeout = 10 * time.Second
)

func cleanup() {
	utils.CloseProfiler()
	utils.CloseTracer()
	Log.Info("api server shutdown")
}

func pageSize() int {
	if raw := os.Getenv("PAGE_SIZE"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			return size
		}
		Log.Warn("ignoring invalid PAGE_SIZE: ", os.Getenv("PAGE_SIZE"))
	}
	return defaultPageSize
}

func audioStore() file_store.AudioStore {
	if bucket := os.Getenv("AUDIO_S3_BUCKET"); bucket != "" {
		store, err := file_store.NewS3AudioStore(bucket, os.Getenv("AWS_REGION"))
		if err != nil {
			Log.Fatal("fail to set up s3 audio store: ", err)
		}
		return store
	}
	dir := os.Getenv("AUDIO_DIR")
	if dir == "" {
		dir = defaultAudioDir
	}
	store, err := file_store.NewLocalAudioStore(dir)
	if err != nil {
		Log.Fatal("fail to set up local audio store: ", err)
	}
	return store
}

// searchIndex connects to Elasticsearch, falling back to the disabled
// index when the node cannot be reached. The relational store is the
// source of truth; running without search is a degraded mode, not a
// startup failure.
func searchIndex() search.Index {
	host, port := os.Getenv("ELASTIC_HOST"), os.Getenv("ELASTIC_PORT")
	if host == "" {
		Log.Warn("ELASTIC_HOST not set, search disabled")
		return search.Disabled{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupProbeTimeout)
	defer cancel()

	idx, err := search.NewPostIndex(ctx, "http://"+host+":"+port)
	if err != nil {
		Log.Warn("search index unreachable, search disabled: ", err)
		return search.Disabled{}
	}
	return idx
}

func main() {
	defer cleanup()

	Parse()
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	InitLogger()
	utils.InitTracer()
	utils.InitProfiler()

	db, err := utils.GetDBConnection()
	if err != nil {
		Log.Fatal("fail to connect to database: ", err)
	}
	utils.DatabaseSetupAndMigration(db)

	backend := server.NewBackend(db, searchIndex(), auth.NewTokenRegistry(), audioStore(), pageSize())
	router := backend.Router(gintrace.Middleware(ServiceName))

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	Log.Info("api server starts up")
	router.Run(":" + port)
}
