package storage

// Store persists the controller's durable cross-pass state. Exactly one
// value survives across reconcile passes: the database connection URI
// learned from a master-election notification.
//
// Write access is single-writer: only the database-master-changed
// handler writes the URI, and only when the announced logical database
// name matches. Reconcile passes only read it.
type Store interface {
	// SetDatabaseURI records the database connection URI. A later call
	// overwrites a previous value; there is no expiry.
	SetDatabaseURI(uri string) error

	// DatabaseURI returns the recorded URI, or the empty string when no
	// master has been announced yet.
	DatabaseURI() (string, error)

	Close() error
}

// Memory is an in-process Store used in tests and in deployments that
// do not need the URI to survive a controller restart.
type Memory struct {
	dbURI string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) SetDatabaseURI(uri string) error {
	m.dbURI = uri
	return nil
}

func (m *Memory) DatabaseURI() (string, error) {
	return m.dbURI, nil
}

func (m *Memory) Close() error {
	return nil
}
