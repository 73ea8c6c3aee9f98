package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Repository reads active products from the catalog database.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Lookup(ctx context.Context, id string) (*Product, error) {
	var row models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", strings.TrimSpace(id), true).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound(id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	p := fromModel(row)
	return &p, nil
}

func (r *Repository) List(ctx context.Context) ([]Product, error) {
	return r.find(r.active(ctx))
}

func (r *Repository) Search(ctx context.Context, query string) ([]Product, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return r.List(ctx)
	}
	pattern := "%" + likeEscaper.Replace(q) + "%"
	return r.find(r.active(ctx).
		Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern))
}

func (r *Repository) FilterByCategory(ctx context.Context, category string) ([]Product, error) {
	c := strings.TrimSpace(category)
	if c == "" || strings.EqualFold(c, AllCategories) {
		return r.List(ctx)
	}
	return r.find(r.active(ctx).Where("LOWER(category) = ?", strings.ToLower(c)))
}

func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ? AND category <> ''", true).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &out).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return out, nil
}

func (r *Repository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true).
		Order("position ASC, id ASC")
}

func (r *Repository) find(query *gorm.DB) ([]Product, error) {
	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out, nil
}

func fromModel(row models.Product) Product {
	return Product{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Emoji:       row.Emoji,
		Category:    row.Category,
		BasePrice:   row.BasePrice,
		Sizes:       append([]types.SizeOption(nil), row.Sizes...),
		SugarLevels: append([]string(nil), row.SugarLevels...),
		IceLevels:   append([]string(nil), row.IceLevels...),
	}
}
