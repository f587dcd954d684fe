// Package worker runs catalog import jobs delivered over RabbitMQ.
package worker

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"foodgram-backend/enums"
	"foodgram-backend/services"
	"foodgram-backend/services/catalog"
	"foodgram-backend/services/metrics"
	"foodgram-backend/services/rabbitmq"
	"foodgram-backend/structs"

	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

const (
	catalogImportCallback = "/api/v1/workerCallback/catalogImport"
	mismatchQueueCallback = "/api/v1/workerCallback/mismatchQueue"
)

// CatalogImportResult is posted to the callback endpoint after each job.
type CatalogImportResult struct {
	TaskID uint           `json:"task_id"`
	Status string         `json:"status"`
	Error  string         `json:"error,omitempty"`
	Report catalog.Report `json:"report"`
}

type CatalogImportWorker struct {
	db     *gorm.DB
	appAPI string
	logger *logrus.Entry
}

// NewCatalogImportWorker builds a worker; an empty appAPI disables callbacks.
func NewCatalogImportWorker(db *gorm.DB, appAPI string, logger *logrus.Entry) *CatalogImportWorker {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &CatalogImportWorker{db: db, appAPI: strings.TrimRight(appAPI, "/"), logger: logger}
}

// Handler consumes deliveries of q until the channel closes.
func (w *CatalogImportWorker) Handler(c *rabbitmq.Connection, q string, deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		w.logger.WithField("queue", q).Info("received: " + string(d.Body))
		w.HandleDelivery(q, d.Body)
	}
}

// HandleDelivery runs one job and returns its outcome label.
func (w *CatalogImportWorker) HandleDelivery(q string, body []byte) string {
	outcome := w.handle(q, body)
	metrics.QueueJobs.WithLabelValues(q, outcome).Inc()
	return outcome
}

func (w *CatalogImportWorker) handle(q string, body []byte) string {
	var param structs.CatalogImportQueueParam
	if err := json.Unmarshal(body, &param); err != nil {
		w.logger.WithFields(logrus.Fields{"queue": q, "error_message": err.Error()}).Error("malformed queue message")
		return enums.OutcomeMalformed
	}
	logger := w.logger.WithFields(logrus.Fields{"queue": q, "task_id": param.TaskID})

	// a message published for another queue is reported back, not run
	if q != param.QueueType {
		w.notifyMismatchQueue(param.TaskID, q, param.QueueType)
		return enums.OutcomeMismatch
	}

	result := CatalogImportResult{TaskID: param.TaskID, Status: enums.FinishedStatus}
	kind, err := catalog.ParseKind(param.Type)
	if err == nil {
		service := catalog.NewImportService(w.db, logger)
		result.Report, err = service.ImportFile(kind, param.Path)
	}
	outcome := enums.OutcomeDone
	if err != nil {
		result.Status = enums.FailedStatus
		result.Error = err.Error()
		outcome = enums.OutcomeFailed
		logger.WithField("error_message", err.Error()).Error("catalog import failed")
	}
	w.callback(catalogImportCallback, result, logger)
	return outcome
}

func (w *CatalogImportWorker) notifyMismatchQueue(taskID uint, queue, queueType string) {
	body := structs.MismatchQueueResponse{
		TaskId:    taskID,
		Queue:     queue,
		QueueType: queueType,
	}
	logger := w.logger.WithFields(logrus.Fields{"task_id": taskID, "queue": queue, "queue_type": queueType})
	logger.Warn("message delivered to the wrong queue")
	w.callback(mismatchQueueCallback, body, logger)
}

func (w *CatalogImportWorker) callback(path string, body interface{}, logger *logrus.Entry) {
	if w.appAPI == "" {
		return
	}
	if _, err := services.HttpRequest(http.MethodPost, w.appAPI+path, nil, body); err != nil {
		logger.WithField("error_message", err.Error()).Error("callback failed")
	}
}

// Enqueue publishes an import job for kind and path on the catalog-import queue.
func Enqueue(conn *rabbitmq.Connection, kind catalog.Kind, path string, taskID uint) error {
	data, err := json.Marshal(structs.CatalogImportQueueParam{
		Type:      string(kind),
		Path:      path,
		TaskID:    taskID,
		Result:    enums.QueueStatus,
		QueueType: enums.QueueCatalogImport,
	})
	if err != nil {
		return fmt.Errorf("failed to encode import job: %w", err)
	}
	return conn.Publish(rabbitmq.Message{
		Queue:       enums.QueueCatalogImport,
		ContentType: "application/json",
		Body:        rabbitmq.MessageBody{Data: data, Type: string(kind)},
	})
}
