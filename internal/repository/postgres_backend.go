package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"storefront_service/internal/domain"
)

// NotifyChannel carries the collection name of every committed write.
const NotifyChannel = "storefront_documents"

const documentsSchema = `
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    id         TEXT NOT NULL,
    data       JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (collection, id)
)`

// PostgresBackend is the remote document store: one JSONB row per entity and
// LISTEN/NOTIFY for live snapshots.
type PostgresBackend struct {
	db  *sql.DB
	dsn string
	hub *hub
	log *logrus.Logger
}

func NewPostgresBackend(ctx context.Context, db *sql.DB, dsn string, logger *logrus.Logger) (*PostgresBackend, error) {
	if _, err := db.ExecContext(ctx, documentsSchema); err != nil {
		return nil, fmt.Errorf("could not ensure documents table: %w", err)
	}
	return &PostgresBackend{db: db, dsn: dsn, hub: newHub(), log: logger}, nil
}

func (b *PostgresBackend) Mode() Mode { return ModeRemote }

func (b *PostgresBackend) Load(ctx context.Context, collection string) ([]Document, error) {
	rows, err := b.db.QueryContext(ctx, `
        SELECT id, data
        FROM documents
        WHERE collection = $1
        ORDER BY id ASC`, collection)
	if err != nil {
		b.log.Errorf("Repository: Failed to load collection %s: %v", collection, err)
		return nil, fmt.Errorf("could not load collection %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var d Document
		var data []byte
		if err := rows.Scan(&d.ID, &data); err != nil {
			return nil, fmt.Errorf("error scanning %s document: %w", collection, err)
		}
		d.Data = data
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s documents: %w", collection, err)
	}
	return docs, nil
}

func (b *PostgresBackend) Get(ctx context.Context, collection, id string) (Document, error) {
	var data []byte
	err := b.db.QueryRowContext(ctx, `
        SELECT data FROM documents
        WHERE collection = $1 AND id = $2`, collection, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("could not get %s/%s: %w", collection, id, err)
	}
	return Document{ID: id, Data: data}, nil
}

// inTx runs fn and a change notification for collection in one transaction,
// so watchers are only told about committed writes.
func (b *PostgresBackend) inTx(ctx context.Context, collection string, fn func(tx *sql.Tx) error) (err error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				b.log.Errorf("Repository: Failed to rollback transaction: %v (original error: %v)", rbErr, err)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `SELECT pg_notify($1, $2)`, NotifyChannel, collection); err != nil {
		return fmt.Errorf("could not notify watchers of %s: %w", collection, err)
	}
	return nil
}

func (b *PostgresBackend) Upsert(ctx context.Context, collection string, doc Document) error {
	return b.inTx(ctx, collection, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO documents (collection, id, data, updated_at)
            VALUES ($1, $2, $3::jsonb, NOW())
            ON CONFLICT (collection, id)
            DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
			collection, doc.ID, string(doc.Data))
		if err != nil {
			b.log.Errorf("Repository: Failed to upsert %s/%s: %v", collection, doc.ID, err)
			return fmt.Errorf("could not upsert %s/%s: %w", collection, doc.ID, err)
		}
		return nil
	})
}

func (b *PostgresBackend) Insert(ctx context.Context, collection string, doc Document) error {
	return b.inTx(ctx, collection, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
            INSERT INTO documents (collection, id, data, updated_at)
            VALUES ($1, $2, $3::jsonb, NOW())
            ON CONFLICT (collection, id) DO NOTHING`,
			collection, doc.ID, string(doc.Data))
		if err != nil {
			b.log.Errorf("Repository: Failed to insert %s/%s: %v", collection, doc.ID, err)
			return fmt.Errorf("could not insert %s/%s: %w", collection, doc.ID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("could not confirm insert of %s/%s: %w", collection, doc.ID, err)
		}
		if affected == 0 {
			return fmt.Errorf("%s/%s: %w", collection, doc.ID, domain.ErrAlreadyExists)
		}
		return nil
	})
}

func (b *PostgresBackend) Delete(ctx context.Context, collection, id string) error {
	return b.inTx(ctx, collection, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
		if err != nil {
			return fmt.Errorf("could not delete %s/%s: %w", collection, id, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("could not confirm deletion of %s/%s: %w", collection, id, err)
		}
		if affected == 0 {
			return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
		}
		return nil
	})
}

func (b *PostgresBackend) DecrementFloor(ctx context.Context, collection, id, field string, n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("decrement amount cannot be negative: %d", n)
	}
	var next int
	err := b.inTx(ctx, collection, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
            UPDATE documents
            SET data = jsonb_set(data, $3::text[], to_jsonb(GREATEST(COALESCE((data->>$4)::int, 0) - $5::int, 0))),
                updated_at = NOW()
            WHERE collection = $1 AND id = $2
            RETURNING (data->>$4)::int`,
			collection, id, pq.Array([]string{field}), field, n).Scan(&next)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("could not decrement %s on %s/%s: %w", field, collection, id, err)
		}
		return nil
	})
	return next, err
}

func (b *PostgresBackend) Watch(ctx context.Context, collection string) (<-chan []Document, error) {
	ch, seq := b.hub.subscribe(ctx, collection)
	docs, err := b.Load(ctx, collection)
	if err != nil {
		return nil, err
	}
	if !b.hub.offer(collection, ch, seq, docs) {
		b.log.Debugf("Repository: Initial %s snapshot superseded by a newer change", collection)
	}
	return ch, nil
}

func (b *PostgresBackend) refresh(ctx context.Context, collection string) {
	docs, err := b.Load(ctx, collection)
	if err != nil {
		b.log.Warnf("Repository: Could not refresh watched collection %s: %v", collection, err)
		return
	}
	b.hub.publish(collection, docs)
}

// Run listens for change notifications and pushes fresh snapshots to
// watchers until ctx is done.
func (b *PostgresBackend) Run(ctx context.Context) error {
	listener := pq.NewListener(b.dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			b.log.Warnf("Repository: Listener event %d: %v", ev, err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(NotifyChannel); err != nil {
		return fmt.Errorf("could not listen on %s: %w", NotifyChannel, err)
	}
	b.log.Infof("Repository: Listening for document changes on %s", NotifyChannel)

	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			if n == nil {
				// Reconnected; notifications may have been missed.
				for _, collection := range b.hub.watched() {
					b.refresh(ctx, collection)
				}
				continue
			}
			b.refresh(ctx, n.Extra)
		case <-ping.C:
			go func() { _ = listener.Ping() }()
		}
	}
}
