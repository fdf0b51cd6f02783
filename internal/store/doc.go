// Package store declares the persistence interfaces the rest of the
// application depends on, keeping business logic unaware of the database
// behind them.
package store
