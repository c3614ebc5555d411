package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tiendaapp/tiendastore/config"
	"github.com/tiendaapp/tiendastore/internal/api"
	"github.com/tiendaapp/tiendastore/internal/app"
	"github.com/tiendaapp/tiendastore/internal/notify"
	"github.com/tiendaapp/tiendastore/internal/webserver"
	"go.uber.org/zap"
)

var (
	h        = flag.Bool("h", false, "help usage")
	x        = flag.Bool("x", false, "debug mode")
	initdb   = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	conffile = flag.String("c", "/etc/tiendastore.yml", "config file")
)

func printHelp() {
	if *h {
		ustr := fmt.Sprintf("tiendad version: %s, usage: tiendad -h\nOptions:", "latest")
		fmt.Fprintln(os.Stderr, ustr)
		flag.PrintDefaults()
		os.Exit(0)
	}
}

func main() {
	flag.Parse()
	printHelp()

	cfg := config.LoadConfig(*conffile)
	if *x {
		cfg.System.Debug = true
	}

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	notifier := notify.Setup(application)

	webserver.Init(application)
	api.Register(notifier)

	if err := webserver.Listen(); err != nil {
		zap.S().Fatal(err)
	}
}
