// Package inmemory maps live websocket connections to their connection ids.
// Connections are process-local by nature, so this registry never touches
// redis.
package inmemory

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/watchalong/server/pkg/wsrouter"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type repo struct {
	logger *slog.Logger

	mu       sync.RWMutex
	byConn   map[*wsrouter.Conn]string
	byConnId map[string]*wsrouter.Conn
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		logger:   logger,
		byConn:   make(map[*wsrouter.Conn]string),
		byConnId: make(map[string]*wsrouter.Conn),
	}
}

func (r *repo) Add(conn *wsrouter.Conn, connId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byConn[conn] != "" || r.byConnId[connId] != nil {
		return ErrAlreadyExists
	}

	r.byConn[conn] = connId
	r.byConnId[connId] = conn

	return nil
}

func (r *repo) RemoveByConnId(connId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.byConnId[connId]
	if !ok {
		return ErrNotFound
	}

	delete(r.byConn, conn)
	delete(r.byConnId, connId)

	return nil
}

func (r *repo) GetConn(connId string) (*wsrouter.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.byConnId[connId]
	if !ok {
		return nil, ErrNotFound
	}

	return conn, nil
}
