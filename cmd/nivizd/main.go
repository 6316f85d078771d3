package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tigrlab/niviz-rater/cmd/nivizd/handlers"
	"github.com/tigrlab/niviz-rater/pkg/auth"
	"github.com/tigrlab/niviz-rater/pkg/configs/rater"
	kdb "github.com/tigrlab/niviz-rater/pkg/db"
	kpg "github.com/tigrlab/niviz-rater/pkg/db/postgres"
	"github.com/tigrlab/niviz-rater/pkg/utils/echoutil"
	"github.com/tigrlab/niviz-rater/pkg/utils/filewatch"
)

const (
	envDBURI  = "NIVIZ_RATER_DB"
	envSecret = "NIVIZ_RATER_SECRET"
)

func main() {
	configPath := flag.String("config", "", "config file path (default: $"+rater.EnvConfigPath+")")
	dbURI := flag.String("db", os.Getenv(envDBURI), "base postgres URI; the database name part is replaced per pipeline")
	port := flag.String("port", "8080", "port to listen on")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	secret := flag.String("secret", os.Getenv(envSecret), "token signing secret")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	issueToken := flag.String("issue-token", "", "issue a token for the named rater and exit")
	tokenTTL := flag.Duration("token-ttl", 30*24*time.Hour, "lifetime of issued tokens")
	flag.Parse()

	if *secret == "" {
		log.Fatalf("no signing secret: set %s or pass -secret", envSecret)
	}

	if *issueToken != "" {
		token, err := auth.Issue([]byte(*secret), *issueToken, *tokenTTL)
		if err != nil {
			log.Fatalf("can not issue token: %s", err)
		}
		fmt.Println(token)
		return
	}

	if *dbURI == "" {
		log.Fatalf("no database URI: set %s or pass -db", envDBURI)
	}

	path := *configPath
	if path == "" {
		path = os.Getenv(rater.EnvConfigPath)
	}
	conf, err := rater.LoadConfig(path)
	if err != nil {
		log.Fatalf("can not read configuration: %s", err)
	}
	if err := conf.VerifyPaths(); err != nil {
		log.Fatalf("configuration is not usable: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	e := echo.New()
	e.HideBanner = true
	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)

	// quit when the config file changes; the supervisor restarts us
	// with the new config.
	wctx, cancelWatch, err := filewatch.UntilModifyContext(ctx, path)
	if err != nil {
		log.Fatalf("can not watch configuration: %s", err)
	}
	defer cancelWatch()
	context.AfterFunc(wctx, func() {
		if errors.Is(context.Cause(wctx), context.Canceled) {
			return
		}
		e.Logger.Warnf("shutting down: %s", context.Cause(wctx))
		graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := e.Shutdown(graceful); err != nil {
			e.Logger.Errorf("error on shutdown: %s", err)
		}
	})

	// one database per configured pipeline
	databases := map[rater.PipelineKey]kdb.RaterDatabase{}
	for _, key := range conf.Keys() {
		uri, err := kpg.URIForDatabase(*dbURI, key.String())
		if err != nil {
			log.Fatalf("bad database URI: %s", err)
		}
		db, err := kpg.New(ctx, uri)
		if err != nil {
			log.Fatalf("can not open database %s: %s", key, err)
		}
		defer db.Close()
		databases[key] = db
	}

	resolve := func(study, pipeline string) (kdb.EntityInterface, bool) {
		db, ok := databases[rater.PipelineKey{Study: study, Pipeline: pipeline}]
		if !ok {
			return nil, false
		}
		return db.Entities(), true
	}
	resolveBase := func(study, pipeline string) (string, bool) {
		p, ok := conf.Lookup(study, pipeline)
		if !ok {
			return "", false
		}
		return p.BaseDir, true
	}

	api := e.Group("/study/:study/pipeline/:pipeline/api")
	api.GET("/summary", handlers.GetSummaryHandler(resolve))
	api.GET("/spreadsheet", handlers.GetSpreadsheetHandler(resolve))
	api.GET("/export", handlers.GetExportHandler(resolve))
	api.GET("/image", handlers.GetImageHandler(resolveBase))
	api.GET("/entity/:id", handlers.GetEntityHandler(resolve))
	api.POST("/entity/:id", handlers.PostEntityHandler(resolve), auth.BearerAuth([]byte(*secret)))

	if *pcert != "" {
		err = e.StartTLS(":"+*port, *pcert, *pkey)
	} else {
		err = e.Start(":" + *port)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		e.Logger.Fatal(err)
	}
}
