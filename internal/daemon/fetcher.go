package daemon

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
)

// JobFetcher abstracts where pending solution IDs come from. The
// default is MySQL polling against the `solution` table (OJ_WT0), the
// same status the teacher's C++ daemon polls for; OJ_REDISENABLE=1
// switches to a Redis list instead, matching judge.conf's existing
// OJ_REDIS* keys.
type JobFetcher interface {
	GetJobs(maxRunning int) ([]int, error)
	CheckOut(solutionID int, status int) (bool, error)
	Close() error
}

// NewFetcher picks the fetcher implementation per cfg.RedisEnable.
func NewFetcher(cfg *Config) (JobFetcher, error) {
	if cfg.RedisEnable {
		return newRedisFetcher(cfg)
	}
	return newMySQLFetcher(cfg)
}

const ojWT0 = 0 // queued, matches pkg/constants.OJ_WT0

type mySQLFetcher struct {
	db *sql.DB
}

func newMySQLFetcher(cfg *Config) (*mySQLFetcher, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8",
		cfg.UserName, cfg.Password, cfg.HostName, cfg.PortNumber, cfg.DBName)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetConnMaxLifetime(time.Minute * 3)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return &mySQLFetcher{db: db}, nil
}

func (f *mySQLFetcher) GetJobs(maxRunning int) ([]int, error) {
	rows, err := f.db.Query(
		"SELECT solution_id FROM solution WHERE result=? ORDER BY solution_id ASC LIMIT ?",
		ojWT0, maxRunning,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending solutions: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan solution id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CheckOut atomically claims a solution by moving it out of OJ_WT0, so
// a second worker polling concurrently never picks up the same job.
func (f *mySQLFetcher) CheckOut(solutionID int, status int) (bool, error) {
	res, err := f.db.Exec(
		"UPDATE solution SET result=? WHERE solution_id=? AND result=?",
		status, solutionID, ojWT0,
	)
	if err != nil {
		return false, fmt.Errorf("checkout solution %d: %w", solutionID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (f *mySQLFetcher) Close() error {
	return f.db.Close()
}

// redisFetcher pops ready-to-judge solution IDs off a Redis list
// instead of polling MySQL for OJ_WT0 rows; the web frontend pushes
// onto the same list as submissions arrive. Checkout still happens
// against MySQL, since `result` is the field the rest of the schema
// (contest standings, user stats) reads.
type redisFetcher struct {
	client *redis.Client
	mysql  *mySQLFetcher
	qname  string
}

func newRedisFetcher(cfg *Config) (*redisFetcher, error) {
	mysqlFetcher, err := newMySQLFetcher(cfg)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisServer, cfg.RedisPort),
		Password: cfg.RedisAuth,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		mysqlFetcher.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	qname := cfg.RedisQName
	if qname == "" {
		qname = "judge_queue"
	}
	slog.Info("using redis job queue", "addr", rdb.Options().Addr, "queue", qname)
	return &redisFetcher{client: rdb, mysql: mysqlFetcher, qname: qname}, nil
}

func (f *redisFetcher) GetJobs(maxRunning int) ([]int, error) {
	ctx := context.Background()
	var ids []int
	for len(ids) < maxRunning {
		val, err := f.client.LPop(ctx, f.qname).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return ids, fmt.Errorf("lpop %s: %w", f.qname, err)
		}
		id, err := strconv.Atoi(val)
		if err != nil {
			slog.Warn("skipping malformed queue entry", "queue", f.qname, "value", val)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *redisFetcher) CheckOut(solutionID int, status int) (bool, error) {
	return f.mysql.CheckOut(solutionID, status)
}

func (f *redisFetcher) Close() error {
	err := f.client.Close()
	if mysqlErr := f.mysql.Close(); mysqlErr != nil {
		return mysqlErr
	}
	return err
}
