package services

import (
	"fmt"

	"gorm.io/gorm"
)

// ColumnDescriptor describes one browsable column.
type ColumnDescriptor struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Searchable bool   `json:"searchable"`
	Sortable   bool   `json:"sortable"`
}

// CollectionDescriptor describes one browsable table. The column lists
// double as allow-lists: search and sort only ever touch columns that
// are declared here, so user input never reaches SQL identifiers.
type CollectionDescriptor struct {
	Name    string             `json:"name"`
	Table   string             `json:"-"`
	Columns []ColumnDescriptor `json:"columns"`
}

// CollectionService exposes a read-only admin browser over a fixed set
// of tables. The registry is built once at startup.
type CollectionService struct {
	db          *gorm.DB
	collections map[string]CollectionDescriptor
	order       []string
}

func NewCollectionService(db *gorm.DB) *CollectionService {
	s := &CollectionService{
		db:          db,
		collections: make(map[string]CollectionDescriptor),
	}
	for _, d := range defaultCollections() {
		s.collections[d.Name] = d
		s.order = append(s.order, d.Name)
	}
	return s
}

// Sensitive columns (token hashes, secret hashes) are simply not
// declared, so the browser can never select them.
func defaultCollections() []CollectionDescriptor {
	return []CollectionDescriptor{
		{
			Name:  "users",
			Table: "users",
			Columns: []ColumnDescriptor{
				{Name: "id", Type: "integer", Sortable: true},
				{Name: "email", Type: "string", Searchable: true, Sortable: true},
				{Name: "name", Type: "string", Searchable: true, Sortable: true},
				{Name: "role", Type: "string", Searchable: true, Sortable: true},
				{Name: "last_login", Type: "datetime", Sortable: true},
				{Name: "created_at", Type: "datetime", Sortable: true},
			},
		},
		{
			Name:  "provider_accounts",
			Table: "provider_accounts",
			Columns: []ColumnDescriptor{
				{Name: "id", Type: "integer", Sortable: true},
				{Name: "user_id", Type: "integer", Sortable: true},
				{Name: "provider", Type: "string", Searchable: true, Sortable: true},
				{Name: "email", Type: "string", Searchable: true, Sortable: true},
				{Name: "linked_at", Type: "datetime", Sortable: true},
			},
		},
		{
			Name:  "api_keys",
			Table: "api_keys",
			Columns: []ColumnDescriptor{
				{Name: "id", Type: "integer", Sortable: true},
				{Name: "user_id", Type: "integer", Sortable: true},
				{Name: "name", Type: "string", Searchable: true, Sortable: true},
				{Name: "is_active", Type: "boolean", Sortable: true},
				{Name: "last_used_at", Type: "datetime", Sortable: true},
				{Name: "expires_at", Type: "datetime", Sortable: true},
				{Name: "created_at", Type: "datetime", Sortable: true},
			},
		},
		{
			Name:  "refresh_tokens",
			Table: "refresh_tokens",
			Columns: []ColumnDescriptor{
				{Name: "id", Type: "integer", Sortable: true},
				{Name: "user_id", Type: "integer", Sortable: true},
				{Name: "family_id", Type: "string", Searchable: true, Sortable: true},
				{Name: "is_used", Type: "boolean", Sortable: true},
				{Name: "expires_at", Type: "datetime", Sortable: true},
				{Name: "revoked_at", Type: "datetime", Sortable: true},
				{Name: "created_by_ip", Type: "string", Searchable: true},
				{Name: "created_at", Type: "datetime", Sortable: true},
			},
		},
		{
			Name:  "system_logs",
			Table: "system_logs",
			Columns: []ColumnDescriptor{
				{Name: "id", Type: "integer", Sortable: true},
				{Name: "level", Type: "string", Searchable: true, Sortable: true},
				{Name: "module", Type: "string", Searchable: true, Sortable: true},
				{Name: "message", Type: "string", Searchable: true},
				{Name: "created_at", Type: "datetime", Sortable: true},
			},
		},
	}
}

// List returns the registry in declaration order.
func (s *CollectionService) List() []CollectionDescriptor {
	out := make([]CollectionDescriptor, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.collections[name])
	}
	return out
}

type BrowseResult struct {
	Collection string                   `json:"collection"`
	Rows       []map[string]interface{} `json:"rows"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
}

// Browse reads one page from a registered collection. search matches any
// searchable column; sortBy must name a sortable column.
func (s *CollectionService) Browse(name string, page, pageSize int, search, sortBy, sortDir string) (*BrowseResult, error) {
	desc, ok := s.collections[name]
	if !ok {
		return nil, ErrCollectionNotFound
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	selectCols := make([]string, 0, len(desc.Columns))
	for _, col := range desc.Columns {
		selectCols = append(selectCols, col.Name)
	}

	query := s.db.Table(desc.Table).Select(selectCols)

	if search != "" {
		like := "%" + search + "%"
		var cond *gorm.DB
		for _, col := range desc.Columns {
			if !col.Searchable {
				continue
			}
			clause := s.db.Where(fmt.Sprintf("%s LIKE ?", col.Name), like)
			if cond == nil {
				cond = clause
			} else {
				cond = cond.Or(clause)
			}
		}
		if cond != nil {
			query = query.Where(cond)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	order := "id DESC"
	if sortBy != "" {
		sortable := false
		for _, col := range desc.Columns {
			if col.Name == sortBy && col.Sortable {
				sortable = true
				break
			}
		}
		if !sortable {
			return nil, ErrInvalidSortColumn
		}
		dir := "ASC"
		if sortDir == "desc" {
			dir = "DESC"
		}
		order = fmt.Sprintf("%s %s", sortBy, dir)
	}

	rows := make([]map[string]interface{}, 0, pageSize)
	if err := query.Order(order).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return &BrowseResult{
		Collection: name,
		Rows:       rows,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}
