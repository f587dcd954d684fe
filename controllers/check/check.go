package check

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"foodgram-backend/database"
	"foodgram-backend/enums"
	"foodgram-backend/services/rabbitmq"
	"foodgram-backend/services/trackLog"

	"github.com/gin-gonic/gin"
)

type AliveResponse struct {
	Success  bool      `json:"success"`
	Messsage string    `json:"message"`
	Info     CheckInfo `json:"info"`
}

type CheckInfo struct {
	Database   string   `json:"database"`
	Queues     []string `json:"queue"`
	RoutineNum int      `json:"routine_num"`
}

func CheckAlive(c *gin.Context) {
	resMsg := "main thread alive"
	success := true
	checkInfo := CheckInfo{Database: "ok"}

	// database
	if database.DB == nil {
		checkInfo.Database = "not initialized"
		success = false
	} else if err := database.DB.DB().Ping(); err != nil {
		checkInfo.Database = err.Error()
		success = false
		trackLog.Error(fmt.Sprintf("database ping failed: %s", err.Error()), false)
	}

	// the queue consumer only runs when rabbitmq.domain is configured
	if rabbitConn := rabbitmq.GetConnection(enums.ConnectionName); rabbitConn != nil {
		resMsg = inspectQueues(rabbitConn, &checkInfo)
	}

	trackLog.Info(fmt.Sprintf("goroutine number: %d", runtime.NumGoroutine()), false)
	checkInfo.RoutineNum = runtime.NumGoroutine()

	status := http.StatusOK
	if !success {
		status = http.StatusServiceUnavailable
		resMsg = "database unavailable"
	}
	c.JSON(status, AliveResponse{success, resMsg, checkInfo})
}

func inspectQueues(rabbitConn *rabbitmq.Connection, checkInfo *CheckInfo) string {
	resMsg := "main thread alive"
	if rabbitConn.IsClosed() {
		resMsg = "Api detect Connection lost, Reconnecting.."
		trackLog.Error(resMsg, false)
		if err := rabbitConn.Reconnect(); err != nil {
			resMsg = fmt.Sprintf("reconnect rabbit fail: %s", err.Error())
			trackLog.Error(resMsg, false)
			return resMsg
		}
	}
	for _, q := range rabbitConn.Queues {
		queue, queueErr := rabbitConn.Inspect(q)
		if queueErr != nil {
			resMsg = fmt.Sprintf("Queue[%s] error: %s", q, queueErr.Error())
			trackLog.Error(resMsg, false)
			continue
		}
		queueJson, _ := json.Marshal(queue)
		checkInfo.Queues = append(checkInfo.Queues, string(queueJson))
		trackLog.Info(fmt.Sprintf("Queue[%s]: %s", q, queueJson), false)
	}

	// give a just-closed connection a moment to report itself
	select {
	case err := <-rabbitConn.ApiErr:
		trackLog.Error(fmt.Sprintf("api error: %s", err.Error()), false)
		if err := rabbitConn.Reconnect(); err != nil {
			resMsg = fmt.Sprintf("reconnect rabbit fail: %s", err.Error())
			trackLog.Error(resMsg, false)
		}
	case <-time.After(time.Second):
	}
	return resMsg
}
