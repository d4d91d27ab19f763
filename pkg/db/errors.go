package db

import "errors"

var (
	ErrParseConfig = errors.New("db: invalid connection settings")
	ErrConnect     = errors.New("db: postgres unreachable")
	ErrUnhealthy   = errors.New("db: postgres not ready")
	ErrMigrate     = errors.New("db: schema migration failed")

	ErrBeginTx  = errors.New("db: begin transaction")
	ErrCommitTx = errors.New("db: commit transaction")
)
