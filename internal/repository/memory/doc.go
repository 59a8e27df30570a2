// Package memory holds map-backed implementations of the repository
// interfaces. They follow the PostgreSQL adapters' contracts (nil, nil on
// missing documents, version checks, unique employee/date) and are used by
// service and handler tests.
package memory
