// Package database constructs the MySQL connection pool the
// repositories share.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// The schema stores every DATETIME in UTC; events.starts_at feeds the
// refund window guard, so the driver must parse times into time.Time with
// the same location or the guard drifts by the server's zone offset.
const dsnOptions = "charset=utf8mb4&parseTime=true&loc=UTC"

// Pool sizing for web-request traffic: a purchase holds a connection for
// one short transaction, so a modest cap is enough.
const (
	maxOpenConns    = 25
	maxIdleConns    = 25
	connMaxLifetime = 30 * time.Minute
)

// Open connects to MySQL and verifies the connection before handing the
// pool to the repositories.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	creds := user
	if pass != "" {
		creds = user + ":" + pass
	}
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?%s", creds, host, port, name, dsnOptions)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping %s@%s:%s/%s: %w", user, host, port, name, err)
	}
	return db, nil
}
