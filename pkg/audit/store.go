package audit

import (
	"database/sql"
	"encoding/json"
	"os"
	"strconv"
	"time"

	// postgres driver for sql.Open
	_ "github.com/lib/pq"
)

const insertMessage = `INSERT INTO messages
	(facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// Store appends audit events to the messages table of the audit database.
// A nil *Store or a Store without a connection drops events silently.
type Store struct {
	db       *sql.DB
	hostname string
	procid   string
	now      func() time.Time
}

// Message is the row written for one event
type Message struct {
	Facility  int                          `json:"facility"`
	Severity  int                          `json:"severity"`
	Timestamp time.Time                    `json:"timestamp"`
	Hostname  string                       `json:"hostname"`
	Appname   string                       `json:"appname"`
	Procid    string                       `json:"procid"`
	Msgid     string                       `json:"msgid"`
	Sdata     map[string]map[string]string `json:"sdata"`
	Message   string                       `json:"message"`
}

// NewStore connects to AUDIT_DATABASE_URL. Without the variable there is
// nothing to persist to, and it returns a nil store.
func NewStore() (*Store, error) {
	dsn := os.Getenv("AUDIT_DATABASE_URL")
	if dsn == "" {
		return nil, nil
	}

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return NewStoreWithDB(conn), nil
}

// NewStoreWithDB wraps an already opened connection
func NewStoreWithDB(conn *sql.DB) *Store {
	host, _ := os.Hostname()
	return &Store{
		db:       conn,
		hostname: host,
		procid:   strconv.Itoa(os.Getpid()),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) message(event Event) Message {
	return Message{
		Facility:  event.Facility(),
		Severity:  int(event.Severity()),
		Timestamp: s.now(),
		Hostname:  s.hostname,
		Appname:   AppName,
		Procid:    s.procid,
		Msgid:     event.MessageID(),
		Sdata:     event.StructuredData(),
		Message:   event.Message(),
	}
}

// Save writes event as a single row
func (s *Store) Save(event Event) error {
	if s == nil || s.db == nil {
		return nil
	}

	m := s.message(event)
	sdata, err := json.Marshal(m.Sdata)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(insertMessage,
		m.Facility, m.Severity, m.Timestamp, m.Hostname, m.Appname,
		m.Procid, m.Msgid, sdata, m.Message)
	return err
}

// Close releases the connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
