package rabbitmq

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"foodgram-backend/services/trackLog"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// MessageBody is the struct for the body passed in the AMQP message. The type will be set on the Request header
type MessageBody struct {
	Data []byte
	Type string
}

// Message is the amqp request to publish
type Message struct {
	Queue         string
	ReplyTo       string
	ContentType   string
	CorrelationID string
	Priority      uint8
	Body          MessageBody
}

// Connection is the connection created. mu guards Conn and Channel, which the
// consumer's reconnect loop and the health check both replace.
type Connection struct {
	mu      sync.Mutex
	name    string
	domain  string
	Conn    *amqp.Connection
	Channel *amqp.Channel
	Queues  []string
	Err     chan error
	ApiErr  chan error
}

var (
	poolMutex      sync.Mutex
	connectionPool = make(map[string]*Connection)
)

const reconnectDelay = 60 * time.Second

// NewConnection returns the new connection object
func NewConnection(name, domain string, queues []string) *Connection {
	poolMutex.Lock()
	defer poolMutex.Unlock()
	if c, ok := connectionPool[name]; ok {
		return c
	}
	c := &Connection{
		name:   name,
		domain: domain,
		Queues: queues,
		Err:    make(chan error, 1),
		ApiErr: make(chan error, 1),
	}
	connectionPool[name] = c
	return c
}

// GetConnection returns the connection which was instantiated
func GetConnection(name string) *Connection {
	poolMutex.Lock()
	defer poolMutex.Unlock()
	return connectionPool[name]
}

func (c *Connection) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connect()
}

func (c *Connection) connect() error {
	var err error
	c.Conn, err = amqp.Dial(c.domain)
	if err != nil {
		return fmt.Errorf("Error in creating rabbitmq connection for %s : %s", c.name, err.Error())
	}
	go func(conn *amqp.Connection) {
		<-conn.NotifyClose(make(chan *amqp.Error)) //Listen to NotifyClose
		c.Err <- errors.New("Connection Closed")
		select {
		case c.ApiErr <- errors.New("Api detect Connection Closed"):
		default:
		}
	}(c.Conn)
	c.Channel, err = c.Conn.Channel()
	if err != nil {
		return fmt.Errorf("Channel: %s", err)
	}
	return nil
}

func (c *Connection) BindQueue() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindQueue()
}

func (c *Connection) bindQueue() error {
	for _, q := range c.Queues {
		if _, err := c.Channel.QueueDeclare(q, false, false, false, false, nil); err != nil {
			return fmt.Errorf("error in declaring the queue %s", err)
		}
	}
	return nil
}

// Reconnect reconnects the connection
func (c *Connection) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.connect(); err != nil {
		return err
	}
	if err := c.bindQueue(); err != nil {
		return err
	}
	return nil
}

// IsClosed reports whether there is no open connection.
func (c *Connection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn == nil || c.Conn.IsClosed()
}

// Inspect returns the server-side state of queue q.
func (c *Connection) Inspect(q string) (amqp.Queue, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Channel == nil {
		return amqp.Queue{}, errors.New("rabbitmq channel is not open")
	}
	return c.Channel.QueueInspect(q)
}

// Publish sends m to its queue on the default exchange.
func (c *Connection) Publish(m Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Channel == nil {
		return errors.New("rabbitmq channel is not open")
	}
	return c.Channel.Publish("", m.Queue, false, false, amqp.Publishing{
		Headers:       amqp.Table{"type": m.Body.Type},
		ContentType:   m.ContentType,
		CorrelationId: m.CorrelationID,
		ReplyTo:       m.ReplyTo,
		Priority:      m.Priority,
		DeliveryMode:  amqp.Persistent,
		Timestamp:     time.Now(),
		Body:          m.Body.Data,
	})
}

func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Conn == nil {
		return nil
	}
	return c.Conn.Close()
}

func (c *Connection) Consume() (map[string]<-chan amqp.Delivery, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Channel == nil {
		return nil, errors.New("rabbitmq channel is not open")
	}
	m := make(map[string]<-chan amqp.Delivery)
	for _, q := range c.Queues {
		deliveries, err := c.Channel.Consume(q, "", true, false, false, false, nil)
		if err != nil {
			return nil, err
		}
		m[q] = deliveries
	}
	return m, nil
}

// HandleConsumedDeliveries runs fn over the deliveries of q and, whenever the
// connection drops, reconnects and resumes with a fresh delivery channel.
func (c *Connection) HandleConsumedDeliveries(q string, delivery <-chan amqp.Delivery, fn func(*Connection, string, <-chan amqp.Delivery)) {
	logger := trackLog.WithFields(logrus.Fields{"connection": c.name, "queue": q})
	logger.Info("delivery handler started")
	for {
		go fn(c, q, delivery)
		if err := <-c.Err; err != nil {
			for {
				logger.WithField("error_message", err.Error()).Warn("connection lost, reconnecting")
				if err := c.Reconnect(); err != nil {
					logger.WithField("error_message", err.Error()).Error("reconnect failed")
					time.Sleep(reconnectDelay)
					continue
				}

				deliveries, err := c.Consume()
				if err != nil {
					logger.WithField("error_message", err.Error()).Error("consume failed")
					time.Sleep(reconnectDelay)
					continue
				}
				logger.Info("reconnected")
				delivery = deliveries[q]
				break
			}
		}
	}
}
