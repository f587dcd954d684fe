package log

import (
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"time"

	"foodgram-backend/utils"

	logrustash "github.com/bshuster-repo/logrus-logstash-hook"
	"github.com/elastic/go-elasticsearch/v7"
	"github.com/sirupsen/logrus"
	"gopkg.in/go-extras/elogrus.v7"
)

const hostName = "foodgram-backend"

type LogService struct{}

// LoggerInit returns a logger writing to stdout and logs/<date>/<name>.log,
// plus the ELK and logstash hooks when they are enabled in config.
func (l *LogService) LoggerInit(name string) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.Out = l.output(name)

	if utils.EnvConfig == nil {
		return logger
	}

	if utils.EnvConfig.Log.ElkEnable == 1 {
		client, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{utils.EnvConfig.Log.ElkURL},
		})
		if err != nil {
			logger.Debug(err.Error())
		} else {
			hook, err := elogrus.NewAsyncElasticHook(client, hostName, logrus.DebugLevel, utils.EnvConfig.Log.ElkIndex)
			if err != nil {
				logger.Debug(err.Error())
			} else {
				logger.Hooks.Add(hook)
			}
		}
	}

	if utils.EnvConfig.Log.LogstashEnable == 1 {
		conn, err := net.Dial("udp", utils.EnvConfig.Log.LogstashURL)
		if err != nil {
			logger.Debug(err)
		} else {
			fields := logrus.Fields{"type": hostName}
			if utils.EnvConfig.Log.LogstashIndex != "" {
				fields["index"] = utils.EnvConfig.Log.LogstashIndex
			}
			logger.Hooks.Add(logrustash.New(conn, logrustash.DefaultFormatter(fields)))
		}
	}

	return logger
}

func (l *LogService) output(name string) io.Writer {
	dir, err := os.Getwd()
	if err != nil {
		return os.Stdout
	}
	logFilePath := path.Join(dir, "logs", time.Now().Format("2006-01-02"))
	if err := os.MkdirAll(logFilePath, 0755); err != nil {
		fmt.Println(err.Error())
		return os.Stdout
	}

	fileName := path.Join(logFilePath, name+".log")
	src, err := os.OpenFile(fileName, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Println(err.Error())
		return os.Stdout
	}
	return io.MultiWriter(os.Stdout, src)
}
