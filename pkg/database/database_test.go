package database

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"no documents", mongo.ErrNoDocuments, false},
		{"plain", errors.New("duplicate key"), false},
		{"server selection", topology.ServerSelectionError{Wrapped: topology.ErrServerSelectionTimeout}, true},
		{"wrapped server selection", fmt.Errorf("set: %w", topology.ServerSelectionError{}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.want {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestConnectionLostStartsReconnect(t *testing.T) {
	db := NewDatabase()
	db.IsConnected = true
	defer func() { _ = db.Disconnect() }()

	if db.ConnectionLost(errors.New("duplicate key")) {
		t.Error("ConnectionLost() = true for a non-network error, want false")
	}
	if !db.Connected() {
		t.Fatal("Connected() = false after a non-network error, want true")
	}

	err := fmt.Errorf("set: %w", topology.ServerSelectionError{Wrapped: topology.ErrServerSelectionTimeout})
	if !db.ConnectionLost(err) {
		t.Error("ConnectionLost() = false for a server selection error, want true")
	}
	if db.Connected() {
		t.Error("Connected() = true after losing the server, want false")
	}

	db.mu.RLock()
	reconnecting := db.reconnectTicker != nil
	db.mu.RUnlock()
	if !reconnecting {
		t.Error("reconnect loop not started")
	}
}

func TestConnectionLostOnNil(t *testing.T) {
	var db *Database
	if db.ConnectionLost(topology.ServerSelectionError{}) {
		t.Error("ConnectionLost() on nil = true, want false")
	}
}
