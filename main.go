package main

import (
	"flag"
	"fmt"
	"os"

	"foodgram-backend/database"
	"foodgram-backend/enums"
	"foodgram-backend/router"
	"foodgram-backend/services/activity"
	"foodgram-backend/services/catalog"
	logLib "foodgram-backend/services/log"
	"foodgram-backend/services/rabbitmq"
	"foodgram-backend/services/trackLog"
	"foodgram-backend/services/worker"
	"foodgram-backend/utils"

	"github.com/sirupsen/logrus"
)

const usage = `usage:
  foodgram-backend [serve]
  foodgram-backend importcsv [-type ingredients|tags] [-queue] [-task id] <file.csv>`

func main() {
	var envService utils.EnvService
	envService.InitEnv()
	trackLog.LogTrackInit()

	command := "serve"
	args := os.Args[1:]
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	var err error
	switch command {
	case "serve":
		err = serve()
	case "importcsv":
		err = importCSV(args)
	default:
		err = fmt.Errorf("unknown command %q\n%s", command, usage)
	}
	if err != nil {
		trackLog.Error(err.Error(), true)
		os.Exit(1)
	}
}

func serve() error {
	config := *utils.EnvConfig
	if err := database.InitDatabasePool(config); err != nil {
		return err
	}
	defer database.Close()
	insertActivityLog("app.init", "foodgram-backend started")

	var logService logLib.LogService
	logger := logService.LoggerInit("api").WithField("task", "api")
	defer logger.Warn("api shutdown")

	route, err := router.Router(database.DB, config, logger)
	if err != nil {
		return err
	}

	if config.RabbitMQ.Domain != "" {
		if err := catalogImportQueue(config.RabbitMQ.Domain, config.Server.AppAPI); err != nil {
			return err
		}
	}
	return route.Run(fmt.Sprintf(":%d", config.Router.Port))
}

// catalogImportQueue starts consuming catalog-import jobs in the background.
func catalogImportQueue(domain, appAPI string) error {
	conn := rabbitmq.NewConnection(enums.ConnectionName, domain, []string{enums.QueueCatalogImport})
	if err := conn.Connect(); err != nil {
		return err
	}
	if err := conn.BindQueue(); err != nil {
		return err
	}
	deliveries, err := conn.Consume()
	if err != nil {
		return err
	}

	var logService logLib.LogService
	logger := logService.LoggerInit("worker").WithField("task", "worker")
	importWorker := worker.NewCatalogImportWorker(database.DB, appAPI, logger)
	for q, d := range deliveries {
		go conn.HandleConsumedDeliveries(q, d, importWorker.Handler)
	}
	logger.WithField("queue", enums.QueueCatalogImport).Info("waiting for messages")
	return nil
}

func importCSV(args []string) error {
	flags := flag.NewFlagSet("importcsv", flag.ContinueOnError)
	kindName := flags.String("type", string(catalog.KindIngredients), "catalog to load: ingredients or tags")
	queued := flags.Bool("queue", false, "publish the job on the catalog-import queue instead of running it")
	taskID := flags.Uint("task", 0, "task id reported in the worker callback")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("expected exactly one csv file\n%s", usage)
	}
	path := flags.Arg(0)
	kind, err := catalog.ParseKind(*kindName)
	if err != nil {
		return err
	}
	config := *utils.EnvConfig

	if *queued {
		conn := rabbitmq.NewConnection(enums.ConnectionName, config.RabbitMQ.Domain, []string{enums.QueueCatalogImport})
		if err := conn.Reconnect(); err != nil {
			return err
		}
		defer conn.Close()
		if err := worker.Enqueue(conn, kind, path, uint(*taskID)); err != nil {
			return err
		}
		trackLog.Info(fmt.Sprintf("queued %s import of %s", kind, path), true)
		return nil
	}

	if err := database.InitDatabasePool(config); err != nil {
		return err
	}
	defer database.Close()

	logger := trackLog.WithFields(logrus.Fields{"kind": kind, "file": path})
	report, err := catalog.NewImportService(database.DB, logger).ImportFile(kind, path)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"total":      report.Total,
		"created":    report.Created,
		"duplicates": report.Duplicates,
		"skipped":    report.Skipped,
	}).Info("import finished")
	return nil
}

func insertActivityLog(logName string, data interface{}) {
	if err := activity.Insert(database.DB, logName, "foodgram-backend log", data); err != nil {
		trackLog.Error(err.Error(), true)
	}
}
