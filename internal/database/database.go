// Package database persists game records, per-hand summaries and final
// results to Postgres as JSONB. The pool is optional; every writer is
// nil-safe so gameplay never depends on the database being up, and
// callers always invoke the writers from a goroutine.
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// DB is the shared connection pool. Nil when Postgres is not configured.
var DB *pgxpool.Pool

// ConnectDB opens the pool from DATABASE_URL (or the given dsn when
// non-empty) and verifies the connection.
func ConnectDB(ctx context.Context, dsn string) error {
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		return fmt.Errorf("no database url configured")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	DB = pool
	logrus.Info("connected to postgres")
	return nil
}

// InsertInitialGameState records the creation of a game.
func InsertInitialGameState(ctx context.Context, gameID uuid.UUID, seed uint64) {
	if DB == nil {
		return
	}
	_, err := DB.Exec(ctx, `
		INSERT INTO games (id, seed, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO NOTHING
	`, gameID, int64(seed))
	if err != nil {
		logrus.WithError(err).WithField("game_id", gameID).Warn("failed to insert game record")
	}
}

// RecordHandResult stores one hand's structured results as JSONB.
func RecordHandResult(ctx context.Context, gameID uuid.UUID, handNumber int, results interface{}) {
	if DB == nil {
		return
	}
	payload, err := json.Marshal(results)
	if err != nil {
		logrus.WithError(err).WithField("game_id", gameID).Warn("failed to marshal hand results")
		return
	}
	_, err = DB.Exec(ctx, `
		INSERT INTO game_hands (game_id, hand_number, results, recorded_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (game_id, hand_number) DO UPDATE SET results = EXCLUDED.results
	`, gameID, handNumber, payload)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"game_id": gameID,
			"hand":    handNumber,
		}).Warn("failed to record hand result")
	}
}

// FinalizeGameResult marks a game finished with its winner and final
// display scores.
func FinalizeGameResult(ctx context.Context, gameID uuid.UUID, winner string, playerScore, computerScore int) {
	if DB == nil {
		return
	}
	_, err := DB.Exec(ctx, `
		UPDATE games
		SET winner = $2, player_score = $3, computer_score = $4, finished_at = now()
		WHERE id = $1
	`, gameID, winner, playerScore, computerScore)
	if err != nil {
		logrus.WithError(err).WithField("game_id", gameID).Warn("failed to finalize game result")
	}
}
