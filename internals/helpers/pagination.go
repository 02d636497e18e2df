package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Pagination struct {
	Page           int   `json:"page"`
	PerPage        int   `json:"per_page"`
	Total          int64 `json:"total"`
	TotalPages     int   `json:"total_pages"`
	HasNext        bool  `json:"has_next"`
	HasPrev        bool  `json:"has_prev"`
	Count          int   `json:"count"` // jumlah item di halaman ini
	PerPageOptions []int `json:"per_page_options,omitempty"`
}

var defaultPerPageOptions = []int{10, 20, 30, 50, 100}

type Paging struct {
	Page    int
	PerPage int
	Offset  int
	Limit   int
}

// ResolvePaging membaca ?page= & ?per_page= (alias ?limit=) lalu normalisasi.
// maxPerPage 0 = tanpa batas.
func ResolvePaging(c *fiber.Ctx, defaultPerPage, maxPerPage int) Paging {
	page, _ := strconv.Atoi(strings.TrimSpace(c.Query("page", "1")))
	if page < 1 {
		page = 1
	}

	perPageStr := strings.TrimSpace(c.Query("per_page"))
	if perPageStr == "" {
		perPageStr = strings.TrimSpace(c.Query("limit"))
	}
	perPage, _ := strconv.Atoi(perPageStr)
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}

	return Paging{
		Page:    page,
		PerPage: perPage,
		Offset:  (page - 1) * perPage,
		Limit:   perPage,
	}
}

func BuildPaginationFromPage(total int64, page, perPage, count int) Pagination {
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage)) // ceil
	if totalPages == 0 {
		totalPages = 1
	}
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
		Count:      count,
	}
}

// ResolveSort: ?sort_by= & ?order= dengan whitelist kolom.
// allowed memetakan nama publik -> kolom DB.
func ResolveSort(c *fiber.Ctx, allowed map[string]string, defaultKey string, defaultDesc bool) string {
	key := strings.ToLower(strings.TrimSpace(c.Query("sort_by", defaultKey)))
	col, ok := allowed[key]
	if !ok {
		col = allowed[defaultKey]
	}
	desc := defaultDesc
	switch strings.ToLower(strings.TrimSpace(c.Query("order"))) {
	case "asc":
		desc = false
	case "desc":
		desc = true
	}
	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}

// Paged menjalankan count + satu halaman pada query yang sama.
// Preload hanya dipasang di query Find (bukan di count).
func Paged[T any](db *gorm.DB, order string, pg Paging, preloads ...string) ([]T, int64, error) {
	var total int64
	if err := db.Session(&gorm.Session{}).Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q := db.Session(&gorm.Session{})
	for _, p := range preloads {
		q = q.Preload(p)
	}
	rows := make([]T, 0)
	if err := q.Order(order).Offset(pg.Offset).Limit(pg.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
