package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/op/go-logging"

	"github.com/seiflotfy/huffpack"
	"github.com/seiflotfy/huffpack/internal/config"
	"github.com/seiflotfy/huffpack/internal/handler"
	"github.com/seiflotfy/huffpack/internal/router"
	"github.com/seiflotfy/huffpack/internal/service"
)

const progName = "huffpackd"

var log = logging.MustGetLogger("huffpackd")

func startLogging(level logging.Level) {
	backend := logging.NewLogBackend(os.Stderr, progName+": ", 0)
	formatter := logging.MustStringFormatter("%{time:15:04:05.000} %{level:8s} %{module:-16s} | %{message}")
	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, formatter))
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		startLogging(logging.INFO)
		log.Fatalf("cannot load config: %s", err)
	}
	startLogging(cfg.LogLevel)

	cache, err := huffpack.NewCodebookCache(cfg.CacheSize)
	if err != nil {
		log.Fatalf("cannot create codebook cache: %s", err)
	}
	codecSvc := service.NewCodecService(cache, logging.MustGetLogger("huffpackd/codec"))
	codecH := handler.NewCodecHandler(codecSvc, int64(cfg.MaxBody.Bytes()))

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	router.Register(r, router.Dependencies{
		CodecHandler: codecH,
	})

	log.Infof("starting server at %s (cache %d, max body %s)", cfg.Addr, cfg.CacheSize, cfg.MaxBody.HumanReadable())
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
