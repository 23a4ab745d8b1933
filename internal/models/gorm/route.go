package gorm

import (
	"time"

	"infinite-experiment/router/internal/models"
)

// Route is a persisted origin -> destination mapping
type Route struct {
	ID        uint             `gorm:"column:id;primaryKey;autoIncrement"`
	From      string           `gorm:"column:from;type:varchar(255);uniqueIndex;not null"`
	To        string           `gorm:"column:to;type:varchar(255);not null"`
	Type      models.RouteType `gorm:"column:type;type:varchar(16);not null"`
	CreatedAt time.Time        `gorm:"column:created_at"`
	UpdatedAt time.Time        `gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM
func (Route) TableName() string {
	return "routes"
}

// Info returns the in-memory form of the route.
func (r Route) Info() models.RouteInfo {
	return models.RouteInfo{To: r.To, Type: r.Type}
}
