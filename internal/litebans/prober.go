package litebans

import (
	"context"
	"strings"
)

// Column candidates are tried in priority order; the first one present in the
// table wins. A miss is "issuer unknown", never an error.

func actorNameCandidates(base string) []string {
	return []string{byNameColumn(base), "actor_name", "executor_name", "staff"}
}

func actorUUIDCandidates(base string) []string {
	byName := strings.TrimSuffix(byNameColumn(base), "_name")
	return []string{
		byName + "_uuid",
		// some schemas keep the uuid in the bare *_by column
		byName,
		"actor",
		"executor",
		"actor_uuid",
		"executor_uuid",
		"staff_uuid",
	}
}

// byNameColumn returns the type-specific staff display-name column.
func byNameColumn(base string) string {
	switch base {
	case "bans":
		return "banned_by_name"
	case "kicks":
		return "kicked_by_name"
	default:
		return "muted_by_name"
	}
}

// PickPrefix infers the table prefix from a schema's table names: the table
// ending in "mutes" is preferred, then "bans", and the suffix is stripped.
// Suffix matching is case-insensitive; the stripped prefix keeps the table's
// original casing. Returns "" when no candidate table exists.
func PickPrefix(names []string) string {
	var pick, suffix string
	for _, n := range names {
		lower := strings.ToLower(n)
		if strings.HasSuffix(lower, "mutes") {
			pick, suffix = n, "mutes"
			break
		}
		if pick == "" && strings.HasSuffix(lower, "bans") {
			pick, suffix = n, "bans"
		}
	}
	if pick == "" {
		return ""
	}
	return pick[:len(pick)-len(suffix)]
}

func firstMatch(cols, candidates []string) string {
	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		have[c] = true
	}
	for _, c := range candidates {
		if have[c] {
			return c
		}
	}
	return ""
}

// DefaultPrefix is the prefix LiteBans ships with out of the box.
const DefaultPrefix = "litebans_"

// DetectPrefix infers and caches the table prefix when none was configured.
// When detection fails or finds no candidate table (information_schema may
// be unreadable to this account) the stock prefix is assumed; the query
// cascade still tries unprefixed shapes as a last resort.
func (c *Client) DetectPrefix(ctx context.Context) (string, error) {
	names, err := c.tableNames(ctx)
	if err != nil {
		c.prefix = DefaultPrefix
		return c.prefix, err
	}
	if p := PickPrefix(names); p != "" {
		c.prefix = p
	} else if c.prefix == "" {
		c.prefix = DefaultPrefix
	}
	return c.prefix, nil
}

// ActorNameColumn resolves which column of the punishment table holds the
// staff display name, or "" when the schema has none.
func (c *Client) ActorNameColumn(ctx context.Context, base string) (string, error) {
	cols, err := c.tableColumns(ctx, c.prefix+base)
	if err != nil {
		return "", err
	}
	return firstMatch(cols, actorNameCandidates(base)), nil
}

// ActorUUIDColumn resolves the staff-identity uuid column used to look up a
// display name through the history/players tables, or "" when absent.
func (c *Client) ActorUUIDColumn(ctx context.Context, base string) (string, error) {
	cols, err := c.tableColumns(ctx, c.prefix+base)
	if err != nil {
		return "", err
	}
	return firstMatch(cols, actorUUIDCandidates(base)), nil
}

func (c *Client) tableNames(ctx context.Context) ([]string, error) {
	q := "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE()"
	if c.driver == "postgres" {
		q = "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema()"
	}
	var names []string
	if err := c.db.SelectContext(ctx, &names, q); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *Client) tableColumns(ctx context.Context, table string) ([]string, error) {
	q := "SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ?"
	if c.driver == "postgres" {
		q = "SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1"
	}
	var cols []string
	if err := c.db.SelectContext(ctx, &cols, q, table); err != nil {
		return nil, err
	}
	return cols, nil
}
