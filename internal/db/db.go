package db

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"docclass/internal/config"
	"docclass/internal/models"
)

// Result is one document-level classification outcome.
type Result struct {
	bun.BaseModel `bun:"table:classification_results,alias:r"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	ModelID       string    `bun:"model_id,notnull" json:"model_id"`
	Source        string    `bun:"source,notnull" json:"source"`
	Class         string    `bun:"class,notnull" json:"class"`
	Confidence    float64   `bun:"confidence,notnull" json:"confidence"`
	Blocks        int       `bun:"blocks,notnull" json:"blocks"`
	Selected      int       `bun:"selected,notnull" json:"selected"`
	Agreeing      int       `bun:"agreeing,notnull" json:"agreeing"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

func NewResult(modelID, source string, res models.AggregatedResult) *Result {
	return &Result{
		ModelID:    modelID,
		Source:     source,
		Class:      res.Class,
		Confidence: res.Confidence,
		Blocks:     res.Blocks,
		Selected:   res.Selected,
		Agreeing:   res.Agreeing,
		CreatedAt:  time.Now().UTC(),
	}
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

// ConnectDB opens a postgres handle with either the bun pgdriver or lib/pq.
// No connection is made until the first query.
func ConnectDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	if cfg.Driver == config.DriverPostgres {
		return sql.Open("postgres", cfg.DSN)
	}
	opts := []pgdriver.Option{pgdriver.WithDSN(cfg.DSN)}
	if cfg.Password != "" {
		opts = append(opts, pgdriver.WithPassword(cfg.Password))
	}
	return sql.OpenDB(pgdriver.NewConnector(opts...)), nil
}

func InitDB(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*Result)(nil)).IfNotExists().Exec(ctx)
	return err
}

func StoreResults(ctx context.Context, db *bun.DB, results []*Result) error {
	if len(results) == 0 {
		return nil
	}
	_, err := db.NewInsert().Model(&results).Exec(ctx)
	return err
}

// ListResults returns the most recent results first, optionally for one class.
func ListResults(ctx context.Context, db *bun.DB, class string, limit int) ([]Result, error) {
	var results []Result
	err := listQuery(db, &results, class, limit).Scan(ctx)
	return results, err
}

func listQuery(db *bun.DB, dest *[]Result, class string, limit int) *bun.SelectQuery {
	q := db.NewSelect().Model(dest).OrderExpr("created_at DESC, id DESC")
	if class != "" {
		q = q.Where("class = ?", class)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

func DropResults(ctx context.Context, db *bun.DB) error {
	_, err := db.NewDropTable().Model((*Result)(nil)).IfExists().Exec(ctx)
	return err
}
