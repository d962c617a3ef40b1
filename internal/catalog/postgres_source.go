package catalog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads the category table maintained by the portal.
type PostgresSource struct {
	db pgxQuerier
}

// NewPostgresSource initializes a source backed by pgxpool.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	if pool == nil {
		panic("catalog: pgx pool required")
	}
	return &PostgresSource{db: pool}
}

func newPostgresSourceWithQuerier(db pgxQuerier) *PostgresSource {
	return &PostgresSource{db: db}
}

type categoryRow struct {
	id          int64
	parentID    *int64
	name        string
	description *string
	modalConfig []byte
}

// Tree loads the subtree rooted at id with one recursive query.
func (s *PostgresSource) Tree(ctx context.Context, id ID) (*Category, error) {
	rootID, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return nil, ErrCategoryNotFound
	}

	query := `
		WITH RECURSIVE subtree AS (
			SELECT id, parent_id, name, description, modal_config
			FROM category
			WHERE id = $1
			UNION ALL
			SELECT c.id, c.parent_id, c.name, c.description, c.modal_config
			FROM category c
			JOIN subtree s ON c.parent_id = s.id
		)
		SELECT id, parent_id, name, description, modal_config
		FROM subtree
		ORDER BY id
	`
	rows, err := s.db.Query(ctx, query, rootID)
	if err != nil {
		return nil, fmt.Errorf("catalog: query subtree: %w", err)
	}
	defer rows.Close()

	var list []categoryRow
	for rows.Next() {
		var row categoryRow
		if err := rows.Scan(&row.id, &row.parentID, &row.name, &row.description, &row.modalConfig); err != nil {
			return nil, fmt.Errorf("catalog: scan category: %w", err)
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate categories: %w", err)
	}

	root := assemble(list, rootID)
	if root == nil {
		return nil, ErrCategoryNotFound
	}
	return root, nil
}

// assemble links rows into a tree. Children keep id order.
func assemble(rows []categoryRow, rootID int64) *Category {
	nodes := make(map[int64]*Category, len(rows))
	for _, row := range rows {
		node := &Category{
			ID:   ID(strconv.FormatInt(row.id, 10)),
			Name: row.name,
		}
		if row.description != nil {
			node.Description = *row.description
		}
		if len(row.modalConfig) > 0 {
			node.ModalConfig = append([]byte(nil), row.modalConfig...)
		}
		nodes[row.id] = node
	}
	for _, row := range rows {
		if row.parentID == nil || row.id == rootID {
			continue
		}
		if parent, ok := nodes[*row.parentID]; ok {
			parent.Children = append(parent.Children, nodes[row.id])
		}
	}
	return nodes[rootID]
}
