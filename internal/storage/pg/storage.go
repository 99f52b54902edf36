package pg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/rds/rdsutils"
	backoff "github.com/cenkalti/backoff/v4"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/cytora/melp-api/internal/config"
	"github.com/cytora/melp-api/internal/logging"
	"github.com/cytora/melp-api/internal/storage"
)

const uniqueViolation = "23505"

type Storage struct {
	mu   sync.RWMutex
	pool *pgxpool.Pool
	conf *config.Config
}

// ConnString returns the postgres connection url. Local runs use DATABASE_URL;
// otherwise an RDS IAM auth token is minted for the proxy user.
func ConnString(conf *config.Config) (string, error) {
	if conf.Local {
		return conf.DatabaseURL, nil
	}
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(conf.AWSRegion),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create aws session: %w", err)
	}
	token, err := rdsutils.BuildAuthToken(conf.RDSProxyEndpoint, conf.AWSRegion, conf.RDSProxyUser, sess.Config.Credentials)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve token: %w", err)
	}
	psqlUrl, err := url.Parse("postgres://")
	if err != nil {
		return "", err
	}
	psqlUrl.Host = conf.RDSProxyEndpoint
	psqlUrl.User = url.UserPassword(conf.RDSProxyUser, token)
	psqlUrl.Path = conf.RDSDBName
	q := psqlUrl.Query()
	q.Add("sslmode", "require")
	psqlUrl.RawQuery = q.Encode()
	return psqlUrl.String(), nil
}

func connect(ctx context.Context, conf *config.Config) (*pgxpool.Pool, error) {
	ats := time.Now()
	connString, err := ConnString(conf)
	if err != nil {
		return nil, err
	}
	cts := time.Now()
	pool, err := pgxpool.Connect(ctx, connString)
	if err != nil {
		return nil, err
	}
	logging.Info(ctx, logging.Data{
		"local":           conf.Local,
		"proxy":           conf.RDSProxyEndpoint,
		"connection_time": time.Since(cts).String(),
		"auth_time":       time.Since(ats).String(),
	}, "connection stats")
	return pool, nil
}

func New(ctx context.Context, conf *config.Config) (*Storage, error) {
	pool, err := connect(ctx, conf)
	if err != nil {
		return nil, err
	}
	return &Storage{
		conf: conf,
		pool: pool,
	}, nil
}

func (s *Storage) Close() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.pool.Close()
}

func (s *Storage) db() *pgxpool.Pool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool
}

func (s *Storage) reconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.db().Ping(ctx); err == nil {
		return nil
	}
	logging.Info(ctx, nil, "reconnecting")
	pool, err := connect(ctx, s.conf)
	if err != nil {
		return err
	}
	s.mu.Lock()
	old := s.pool
	s.pool = pool
	s.mu.Unlock()
	old.Close()
	return nil
}

// run executes op, retrying with exponential backoff while the connection
// keeps dropping mid-statement.
func (s *Storage) run(ctx context.Context, name string, op func(pool *pgxpool.Pool) error) error {
	ts := time.Now()
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 50 * time.Millisecond
	bo.MaxElapsedTime = 10 * time.Second
	ticker := backoff.NewTicker(backoff.WithContext(bo, ctx))
	defer ticker.Stop()
	err := storage.ErrStorage
	ran := false
	for range ticker.C {
		ran = true
		err = op(s.db())
		if err == nil || !errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		logging.Warn(ctx, logging.Data{"query": name, "error": err.Error()}, "connection dropped, retrying")
		if err := s.reconnect(ctx); err != nil {
			logging.Warn(ctx, logging.Data{"query": name, "error": err.Error()}, "failed to reconnect")
		}
	}
	if !ran && ctx.Err() != nil {
		err = ctx.Err()
	}
	logging.Debug(ctx, logging.Data{"query": name, "query_time": time.Since(ts).String()}, "query stats")
	return err
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %s", storage.ErrStorage, err)
}

func (s *Storage) Ping(ctx context.Context) error {
	return wrap(s.db().Ping(ctx))
}

func (s *Storage) Restaurant(ctx context.Context, id string) (*storage.Data, error) {
	data := &storage.Data{}
	err := s.run(ctx, "restaurant", func(pool *pgxpool.Pool) error {
		return pgxscan.Get(ctx, pool, data, selectStmt, id)
	})
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, storage.ErrNotFound
		}
		return nil, wrap(err)
	}
	return data, nil
}

func (s *Storage) Restaurants(ctx context.Context) ([]*storage.Data, error) {
	var rows []*storage.Data
	err := s.run(ctx, "restaurants", func(pool *pgxpool.Pool) error {
		rows = nil
		return pgxscan.Select(ctx, pool, &rows, listStmt)
	})
	if err != nil {
		return nil, wrap(err)
	}
	return rows, nil
}

func args(d *storage.Data) []interface{} {
	return []interface{}{d.ID, d.Rating, d.Name, d.Site, d.Email, d.Phone, d.Street, d.City, d.State, d.Lat, d.Lng}
}

func (s *Storage) Insert(ctx context.Context, data *storage.Data) error {
	attempt := 0
	err := s.run(ctx, "insert", func(pool *pgxpool.Pool) error {
		attempt++
		_, err := pool.Exec(ctx, insertStmt, args(data)...)
		return insertResult(err, attempt)
	})
	return wrap(err)
}

// insertResult maps the outcome of an insert attempt. A unique violation on a
// retry means an earlier attempt committed before the connection dropped.
func insertResult(err error, attempt int) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if attempt > 1 {
			return nil
		}
		return storage.ErrAlreadyExists
	}
	return err
}

func (s *Storage) Update(ctx context.Context, data *storage.Data) error {
	var affected int64
	err := s.run(ctx, "update", func(pool *pgxpool.Pool) error {
		tag, err := pool.Exec(ctx, updateStmt, args(data)...)
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		return wrap(err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, id string) error {
	var affected int64
	err := s.run(ctx, "delete", func(pool *pgxpool.Pool) error {
		tag, err := pool.Exec(ctx, deleteQuery, id)
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		return wrap(err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Storage) RatingsWithin(ctx context.Context, lat, lng, radius float64) ([]int, error) {
	var ratings []int
	err := s.run(ctx, "ratings_within", func(pool *pgxpool.Pool) error {
		ratings = nil
		rows, err := pool.Query(ctx, ratingsWithinQuery, lat, lng, radius)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var rating int32
			if err := rows.Scan(&rating); err != nil {
				return err
			}
			ratings = append(ratings, int(rating))
		}
		return rows.Err()
	})
	if err != nil {
		return nil, wrap(err)
	}
	return ratings, nil
}
