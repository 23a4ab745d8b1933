package repositories

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"

	"infinite-experiment/router/internal/models"
	"infinite-experiment/router/internal/models/gorm"
)

// ErrRouteNotFound is returned when no stored route matches an origin.
var ErrRouteNotFound = errors.New("route not found")

// RouteRepository handles routes table operations
type RouteRepository struct {
	db  *gormlib.DB
	sql *sqlx.DB
}

// NewRouteRepository creates a new route repository. sql may be nil, in which
// case Stats is computed through GORM.
func NewRouteRepository(db *gormlib.DB, sql *sqlx.DB) *RouteRepository {
	return &RouteRepository{db: db, sql: sql}
}

// Save inserts a route or replaces the destination of an existing origin
// ON CONFLICT (from) DO UPDATE
func (r *RouteRepository) Save(ctx context.Context, route *gorm.Route) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from"}},
			DoUpdates: clause.AssignmentColumns([]string{"to", "type", "updated_at"}),
		}).
		Create(route).Error
}

// DeleteByFrom removes the route for an origin.
func (r *RouteRepository) DeleteByFrom(ctx context.Context, from string) error {
	res := r.db.WithContext(ctx).
		Where(&gorm.Route{From: from}).
		Delete(&gorm.Route{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRouteNotFound
	}
	return nil
}

// FindByFrom returns the stored route for an origin.
func (r *RouteRepository) FindByFrom(ctx context.Context, from string) (*gorm.Route, error) {
	var route gorm.Route

	err := r.db.WithContext(ctx).
		Where(&gorm.Route{From: from}).
		First(&route).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}

	return &route, nil
}

// List returns all routes, most recently updated first
func (r *RouteRepository) List(ctx context.Context) ([]gorm.Route, error) {
	var routes []gorm.Route

	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&routes).Error
	if err != nil {
		return nil, err
	}

	return routes, nil
}

// Count returns the total number of stored routes
func (r *RouteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gorm.Route{}).Count(&count).Error
	return count, err
}

type typeCount struct {
	Type  models.RouteType `db:"type"`
	Count int64            `db:"count"`
}

// Stats returns the number of stored routes per route type.
func (r *RouteRepository) Stats(ctx context.Context) (map[models.RouteType]int64, error) {
	var rows []typeCount

	if r.sql != nil {
		query := `SELECT "type" AS "type", COUNT(*) AS "count" FROM routes GROUP BY "type"`
		if err := r.sql.SelectContext(ctx, &rows, query); err != nil {
			return nil, err
		}
	} else {
		err := r.db.WithContext(ctx).
			Model(&gorm.Route{}).
			Select(`"type" AS "type", COUNT(*) AS "count"`).
			Group(`"type"`).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
	}

	stats := make(map[models.RouteType]int64, len(rows))
	for _, row := range rows {
		stats[row.Type] = row.Count
	}
	return stats, nil
}

// Ping checks the underlying connection.
func (r *RouteRepository) Ping(ctx context.Context) error {
	if r.sql != nil {
		return r.sql.PingContext(ctx)
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
