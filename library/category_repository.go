package library

import (
	"context"

	"github.com/rs/zerolog"
)

type CategoryRepository struct {
	t table
}

func NewCategoryRepository(conn Conn, log zerolog.Logger) *CategoryRepository {
	return &CategoryRepository{t: newTable(conn, log, "categories")}
}

func (r *CategoryRepository) Save(ctx context.Context, c *Category) error {
	if c.ID.IsNew() {
		id, err := r.t.insert(ctx, `INSERT INTO categories (name, description) VALUES (?, ?)`, c.Name, c.Description)
		if err != nil {
			return err
		}
		c.ID = Existing(id)
		return nil
	}
	return r.t.update(ctx, `UPDATE categories SET name = ?, description = ? WHERE category_id = ?`,
		c.Name, c.Description, c.ID.Int64())
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return r.t.deleteByID(ctx, "category_id", id)
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*Category, error) {
	return queryOne(ctx, r.t, "get", `SELECT category_id, name, description FROM categories WHERE category_id = ?`, scanCategory, id)
}

func (r *CategoryRepository) GetAll(ctx context.Context) ([]Category, error) {
	return queryAll(ctx, r.t, "get_all", `SELECT category_id, name, description FROM categories`, scanCategory)
}

func scanCategory(row rowScanner) (Category, error) {
	var c Category
	err := row.Scan(rowID(&c.ID), text(&c.Name), text(&c.Description))
	return c, err
}
