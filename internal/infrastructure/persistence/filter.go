package persistence

import (
	"fmt"
	"strings"

	"github.com/finvoice/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// orderableColumns are the columns list queries may sort by. Anything else
// falls back to created_at to keep user input out of the ORDER BY clause.
var orderableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"code":       true,
	"number":     true,
	"date":       true,
	"due_date":   true,
	"issue_date": true,
	"amount":     true,
	"total":      true,
	"status":     true,
	"email":      true,
}

// applyFilter applies pagination and ordering from a shared.Filter
func applyFilter(db *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := filter.OrderBy
	if !orderableColumns[orderBy] {
		orderBy = "created_at"
	}
	orderDir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		orderDir = "ASC"
	}
	db = db.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	return db.Offset((page - 1) * pageSize).Limit(pageSize)
}
