package datasource

import (
	"database/sql"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-optimizer/internal/logger"
	"github.com/rxtech-lab/argo-optimizer/internal/types"
	"github.com/rxtech-lab/argo-optimizer/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBSource reads price files through an in-memory DuckDB view named market_data.
type DuckDBSource struct {
	db  *sql.DB
	log *logger.Logger
	sq  squirrel.StatementBuilderType
	mu  sync.Mutex
}

// NewDuckDBSource opens an in-memory DuckDB database.
func NewDuckDBSource(log *logger.Logger) (PriceSource, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to open duckdb", err)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &DuckDBSource{
		db:  db,
		log: log,
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Load implements PriceSource.
func (d *DuckDBSource) Load(path string, r Range) (*types.PriceTable, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.log.Debug("Loading prices",
		zap.String("path", path),
		zap.String("symbol", r.Symbol),
	)

	if err := d.createView(path); err != nil {
		return nil, err
	}

	query, args, err := d.buildQuery(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build price query", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to query prices from %s", path)
	}
	defer rows.Close()

	table := &types.PriceTable{Symbol: r.Symbol}

	for rows.Next() {
		var (
			timestamp   time.Time
			open, close sql.NullFloat64
		)

		if err := rows.Scan(&timestamp, &open, &close); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan price row", err)
		}

		table.Index = append(table.Index, timestamp)
		table.Open = append(table.Open, nullToNaN(open))
		table.Close = append(table.Close, nullToNaN(close))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate price rows", err)
	}

	if table.Len() == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no prices found in %s for the requested range", path)
	}

	if err := table.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration,
			"price data must hold one row per timestamp, set a symbol filter for multi-instrument files", err)
	}

	d.log.Debug("Loaded prices",
		zap.Int("bars", table.Len()),
		zap.Time("first", table.Index[0]),
		zap.Time("last", table.Index[table.Len()-1]),
	)

	return table, nil
}

// Close implements PriceSource.
func (d *DuckDBSource) Close() error {
	return d.db.Close()
}

func (d *DuckDBSource) createView(path string) error {
	if _, err := d.db.Exec(`DROP VIEW IF EXISTS market_data;`); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	// CREATE VIEW cannot take bind parameters.
	query := fmt.Sprintf(`
		CREATE VIEW market_data AS
		SELECT * FROM %s('%s');
	`, readerFor(path), strings.ReplaceAll(path, "'", "''"))

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to read price file %s", path)
	}

	return nil
}

func (d *DuckDBSource) buildQuery(r Range) (string, []any, error) {
	conditions := squirrel.And{}

	if r.Symbol != "" {
		conditions = append(conditions, squirrel.Eq{"symbol": r.Symbol})
	}

	if r.Start.IsSome() {
		conditions = append(conditions, squirrel.GtOrEq{"time": r.Start.Unwrap()})
	}

	if r.End.IsSome() {
		conditions = append(conditions, squirrel.LtOrEq{"time": r.End.Unwrap()})
	}

	builder := d.sq.
		Select("time", "open", "close").
		From("market_data").
		OrderBy("time ASC")

	if len(conditions) > 0 {
		builder = builder.Where(conditions)
	}

	return builder.ToSql()
}

func readerFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return "read_csv_auto"
	}

	return "read_parquet"
}

func nullToNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}

	return v.Float64
}
