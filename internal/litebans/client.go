// Package litebans reads and writes a LiteBans-compatible schema that this
// service does not own. Table prefix and staff columns vary between plugin
// versions, so every query shape is discovered defensively instead of assumed.
package litebans

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// RawRow is one heterogeneous row as returned by the plugin's schema.
type RawRow map[string]interface{}

// Client wraps the plugin database with prefix/column discovery.
type Client struct {
	db     *sqlx.DB
	driver string
	prefix string
}

// NewClient wraps db. prefix may be empty, in which case DetectPrefix should
// be called once at startup.
func NewClient(db *sqlx.DB, prefix string) *Client {
	return &Client{db: db, driver: db.DriverName(), prefix: prefix}
}

// Prefix returns the configured or detected table prefix.
func (c *Client) Prefix() string {
	return c.prefix
}

// TableNames lists all tables in the active schema (debug surface).
func (c *Client) TableNames(ctx context.Context) ([]string, error) {
	return c.tableNames(ctx)
}

// tableBase maps a punishment type to its table base name.
func tableBase(typ string) string {
	switch typ {
	case "ban":
		return "bans"
	case "kick":
		return "kicks"
	default:
		return "mutes"
	}
}

// hasExpiry reports whether the table carries until/active columns.
func hasExpiry(base string) bool {
	return base != "kicks"
}

// ListRows fetches recent rows for a punishment type, trying progressively
// simpler query shapes. Each shape targets a schema variant seen in the wild;
// the first that succeeds wins and only a total failure surfaces the original
// error.
func (c *Client) ListRows(ctx context.Context, typ string) ([]RawRow, error) {
	base := tableBase(typ)
	shapes := []func(context.Context, string) (string, error){
		c.detectedShape,
		c.flatShape,
		c.playersJoinShape,
		c.unprefixedJoinShape,
	}

	var firstErr error
	for _, shape := range shapes {
		query, err := shape(ctx, base)
		if err == nil {
			var rows []RawRow
			rows, err = c.queryRows(ctx, query)
			if err == nil {
				return rows, nil
			}
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// detectedShape resolves the actor columns first and pulls player names from
// the history table, so it works on schemas without a name column.
func (c *Client) detectedShape(ctx context.Context, base string) (string, error) {
	actorCol, err := c.ActorNameColumn(ctx, base)
	if err != nil {
		return "", err
	}
	actorUUIDCol, err := c.ActorUUIDColumn(ctx, base)
	if err != nil {
		return "", err
	}

	actorExpr := "NULL"
	switch {
	case actorCol != "":
		actorExpr = "x." + actorCol
	case actorUUIDCol != "":
		actorExpr = fmt.Sprintf(
			`COALESCE((SELECT h.name FROM %[1]shistory h WHERE h.uuid = x.%[2]s ORDER BY h.date DESC LIMIT 1),
			          (SELECT p.name FROM %[1]splayers p WHERE p.uuid = x.%[2]s ORDER BY p.date DESC LIMIT 1))`,
			c.prefix, actorUUIDCol)
	}

	cols := fmt.Sprintf(
		`x.id, x.uuid,
		 (SELECT h.name FROM %[1]shistory h WHERE h.uuid = x.uuid ORDER BY h.date DESC LIMIT 1) AS name,
		 x.reason, %[2]s AS actor_name, x.time`, c.prefix, actorExpr)
	if hasExpiry(base) {
		cols += ", x.until, x.active"
	}
	return fmt.Sprintf("SELECT %s FROM %s%s x ORDER BY x.time DESC LIMIT 200", cols, c.prefix, base), nil
}

// flatShape assumes a modern schema with a direct actor_name column.
func (c *Client) flatShape(_ context.Context, base string) (string, error) {
	cols := "id, uuid, reason, actor_name, time"
	if hasExpiry(base) {
		// until is reserved on mysql when unqualified
		cols += ", " + c.quoteIdent("until") + ", active"
	}
	return fmt.Sprintf("SELECT %s FROM %s%s ORDER BY time DESC LIMIT 200", cols, c.prefix, base), nil
}

// playersJoinShape resolves names through the players table and uses the
// type-specific *_by_name column.
func (c *Client) playersJoinShape(_ context.Context, base string) (string, error) {
	return c.joinShape(base, c.prefix), nil
}

// unprefixedJoinShape is the last resort for schemas created without a prefix.
func (c *Client) unprefixedJoinShape(_ context.Context, base string) (string, error) {
	return c.joinShape(base, ""), nil
}

func (c *Client) joinShape(base, prefix string) string {
	cols := fmt.Sprintf("x.id, x.uuid, p.name AS name, x.reason, x.%s, x.time", byNameColumn(base))
	if hasExpiry(base) {
		cols += ", x.until, x.active"
	}
	return fmt.Sprintf(
		"SELECT %s FROM %s%s x LEFT JOIN %splayers p ON p.uuid = x.uuid ORDER BY x.time DESC LIMIT 200",
		cols, prefix, base, prefix)
}

func (c *Client) queryRows(ctx context.Context, query string) ([]RawRow, error) {
	rows, err := c.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RawRow
	for rows.Next() {
		m := RawRow{}
		if err := rows.MapScan(m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Insert creates a punishment row. The player's uuid is resolved from the
// players table on a best-effort basis; bans and mutes are written permanent
// and active, matching what the panel can express.
func (c *Client) Insert(ctx context.Context, typ, player, reason, issuer string, nowMillis int64) (int64, error) {
	base := tableBase(typ)

	var uuid interface{}
	var resolved string
	lookup := c.db.Rebind(fmt.Sprintf("SELECT uuid FROM %splayers WHERE name = ? ORDER BY date DESC LIMIT 1", c.prefix))
	if err := c.db.GetContext(ctx, &resolved, lookup, player); err == nil && resolved != "" {
		uuid = resolved
	}

	var query string
	args := []interface{}{uuid, player, reason, issuer, nowMillis}
	if hasExpiry(base) {
		query = fmt.Sprintf("INSERT INTO %s%s (uuid, name, reason, %s, time, %s, active) VALUES (?, ?, ?, ?, ?, 0, %s)",
			c.prefix, base, byNameColumn(base), c.quoteIdent("until"), c.activeLiteral())
	} else {
		query = fmt.Sprintf("INSERT INTO %s%s (uuid, name, reason, %s, time) VALUES (?, ?, ?, ?, ?)",
			c.prefix, base, byNameColumn(base))
	}
	query = c.db.Rebind(query)

	if c.driver == "postgres" {
		var id int64
		if err := c.db.QueryRowxContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil || id == 0 {
		// some drivers cannot report the id; fall back to the timestamp
		return nowMillis, nil
	}
	return id, nil
}

// CountActive counts active rows of a bans/mutes table.
func (c *Client) CountActive(ctx context.Context, typ string) (int64, error) {
	base := tableBase(typ)
	var n int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s%s WHERE active = %s", c.prefix, base, c.activeLiteral())
	err := c.db.GetContext(ctx, &n, query)
	return n, err
}

// Count counts all rows of a punishment table.
func (c *Client) Count(ctx context.Context, typ string) (int64, error) {
	base := tableBase(typ)
	var n int64
	err := c.db.GetContext(ctx, &n, fmt.Sprintf("SELECT COUNT(*) FROM %s%s", c.prefix, base))
	return n, err
}

// quoteIdent quotes a column name with the driver's identifier quote.
func (c *Client) quoteIdent(name string) string {
	if c.driver == "postgres" {
		return `"` + name + `"`
	}
	return "`" + name + "`"
}

// activeLiteral is TRUE on postgres and 1 on mysql; LiteBans stores the
// active flag as boolean or tinyint depending on the backend.
func (c *Client) activeLiteral() string {
	if c.driver == "postgres" {
		return "TRUE"
	}
	return "1"
}
