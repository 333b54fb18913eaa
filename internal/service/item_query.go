package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gallerycms/internal/db"
	"gorm.io/gorm"
)

// ListLimit 是两种分页模式共用的固定页大小
const ListLimit = 10

// CursorStart is the sentinel cursor meaning "from the start of the sequence".
const CursorStart = "0"

var (
	ErrOrderByInvalid    = errors.New("order by expects field,asc or field,desc")
	ErrOrderFieldInvalid = errors.New("order field is not sortable")
	ErrPageInvalid       = errors.New("page must be a positive integer")
	ErrCursorInvalid     = errors.New("cursor does not match any item")
)

// sortableItemFields 是可排序字段的封闭映射，映射之外的字段名一律拒绝。
var sortableItemFields = map[string]string{
	"id":        "id",
	"dateAdded": "date_added",
	"updatedAt": "updated_at",
}

// ItemFilter describes filters for listing gallery items.
type ItemFilter struct {
	Search     string
	Categories []uint
}

// ItemOrder is a validated ordering: a sortable field plus a direction.
type ItemOrder struct {
	Field     string
	Column    string
	Direction string
}

// ItemPage aggregates offset-mode results for the admin table.
type ItemPage struct {
	Items      []db.Item
	TotalCount int64
	Page       int
}

// ItemFeed aggregates cursor-mode results for the infinite-scroll feed.
// NextCursor 为空表示序列结束。
type ItemFeed struct {
	Items      []db.Item
	NextCursor string
}

// ItemQueryService 将过滤/排序/分页请求翻译为有界且顺序确定的藏品切片。
type ItemQueryService struct {
	db *gorm.DB
}

// NewItemQueryService creates an ItemQueryService instance.
func NewItemQueryService(gdb *gorm.DB) *ItemQueryService {
	return &ItemQueryService{db: gdb}
}

// DefaultOrder returns the resolved default ordering, updatedAt descending.
func DefaultOrder() ItemOrder {
	return ItemOrder{Field: "updatedAt", Column: "updated_at", Direction: "desc"}
}

// ParseOrderBy validates a raw "field,direction" pair. Empty input yields the default.
func ParseOrderBy(raw string) (ItemOrder, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DefaultOrder(), nil
	}

	parts := strings.Split(trimmed, ",")
	if len(parts) != 2 {
		return ItemOrder{}, ErrOrderByInvalid
	}

	field := strings.TrimSpace(parts[0])
	column, ok := sortableItemFields[field]
	if !ok {
		return ItemOrder{}, ErrOrderFieldInvalid
	}

	direction := strings.ToLower(strings.TrimSpace(parts[1]))
	if direction != "asc" && direction != "desc" {
		return ItemOrder{}, ErrOrderByInvalid
	}

	return ItemOrder{Field: field, Column: column, Direction: direction}, nil
}

// ParsePage validates a 1-based page parameter, defaulting to 1 when absent.
func ParsePage(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 1, nil
	}

	page, err := strconv.Atoi(trimmed)
	if err != nil || page < 1 {
		return 0, ErrPageInvalid
	}
	return page, nil
}

// ParseCategoryList splits a comma-joined id list, excluding empty and malformed entries.
func ParseCategoryList(raw string) []uint {
	ids := make([]uint, 0)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parsed, err := strconv.ParseUint(trimmed, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(parsed))
	}
	return ids
}

// orderClauses 返回解析后的排序子句。主排序字段不是 id 时追加 id desc
// 打破平局，保证相同参数的重复查询产出完全一致的全序。
func (o ItemOrder) orderClauses() []string {
	clauses := []string{o.Column + " " + strings.ToUpper(o.Direction)}
	if o.Field != "id" {
		clauses = append(clauses, "id DESC")
	}
	return clauses
}

func (s *ItemQueryService) filtered(filter ItemFilter) *gorm.DB {
	query := s.db.Model(&db.Item{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(id) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if len(filter.Categories) > 0 {
		query = query.Where("category_id IN ?", filter.Categories)
	}
	return query
}

// ListOffset returns the page-th LIMIT-bounded slice plus the total match count.
// Count 与切片是先后两次读取，并发写入期间两者可能基于略有差异的快照，
// 这是已接受的窗口，不做事务隔离。
func (s *ItemQueryService) ListOffset(filter ItemFilter, order ItemOrder, page int) (ItemPage, error) {
	if page < 1 {
		return ItemPage{}, ErrPageInvalid
	}

	result := ItemPage{Page: page}

	query := s.filtered(filter)
	if err := query.Count(&result.TotalCount).Error; err != nil {
		return result, err
	}

	for _, clause := range order.orderClauses() {
		query = query.Order(clause)
	}

	if err := query.
		Limit(ListLimit).
		Offset((page - 1) * ListLimit).
		Preload("Translations").
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	return result, nil
}

// ListCursor returns the slice strictly after the cursor row, or from the start
// for the CursorStart sentinel. NextCursor is set only on a full page.
func (s *ItemQueryService) ListCursor(filter ItemFilter, order ItemOrder, cursor string) (ItemFeed, error) {
	result := ItemFeed{}

	query := s.filtered(filter)

	if cursor != CursorStart {
		var row db.Item
		if err := s.db.First(&row, "id = ?", cursor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return result, ErrCursorInvalid
			}
			return result, err
		}
		predicate, args := order.keysetAfter(row)
		query = query.Where(predicate, args...)
	}

	for _, clause := range order.orderClauses() {
		query = query.Order(clause)
	}

	if err := query.
		Limit(ListLimit).
		Preload("Translations").
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	if len(result.Items) == ListLimit {
		result.NextCursor = result.Items[len(result.Items)-1].ID
	}

	return result, nil
}

// keysetAfter 构造“严格位于游标行之后”的谓词。主字段相等时按 id desc 平局序继续。
func (o ItemOrder) keysetAfter(row db.Item) (string, []interface{}) {
	primaryCmp := "<"
	if o.Direction == "asc" {
		primaryCmp = ">"
	}

	if o.Field == "id" {
		return "id " + primaryCmp + " ?", []interface{}{row.ID}
	}

	var value interface{}
	switch o.Field {
	case "dateAdded":
		value = row.DateAdded
	default:
		value = row.UpdatedAt
	}

	predicate := "(" + o.Column + " " + primaryCmp + " ?) OR (" + o.Column + " = ? AND id < ?)"
	return predicate, []interface{}{value, value, row.ID}
}
