//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"chat-relay/domain"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// IRegistry is the single source of truth for currently joined sessions.
// Implementations must keep every operation mutually exclusive and must not
// hold their lock across a network write.
type IRegistry interface {
	Insert(session *domain.Session) bool
	Remove(id string) (string, bool)
	Snapshot() []*domain.Session
	Len() int
	CloseAll()
}

// IBroadcaster fans a line out to every session except the excluded sender.
type IBroadcaster interface {
	Broadcast(line string, excludeID string)
}
