package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Options struct {
	DefaultPerPage int
	MaxPerPage     int
	AllowAll       bool
	AllHardCap     int
}

var (
	DefaultOpts = Options{DefaultPerPage: 20, MaxPerPage: 200}
	AdminOpts   = Options{DefaultPerPage: 50, MaxPerPage: 500}
	ExportOpts  = Options{DefaultPerPage: 100, MaxPerPage: 1000, AllowAll: true, AllHardCap: 10_000}
)

// Params is the parsed ?page=&per_page=&search=&sort_by=&order= set.
type Params struct {
	Page      int
	PerPage   int
	Search    string
	SortBy    string
	SortOrder string
	All       bool
}

func (p Params) Limit() int  { return p.PerPage }
func (p Params) Offset() int { return (p.Page - 1) * p.PerPage }

// ParseFiber reads paging, search and sort from the query string. per_page has the legacy alias limit.
func ParseFiber(c *fiber.Ctx, defaultSortBy, defaultSortOrder string, opt Options) Params {
	page, err := strconv.Atoi(strings.TrimSpace(c.Query("page")))
	if err != nil || page < 1 {
		page = 1
	}

	perRaw := strings.TrimSpace(c.Query("per_page"))
	if perRaw == "" {
		perRaw = strings.TrimSpace(c.Query("limit"))
	}
	per := opt.DefaultPerPage
	all := false
	if opt.AllowAll && strings.EqualFold(perRaw, "all") {
		all = true
		page = 1
		per = opt.AllHardCap
		if per <= 0 {
			per = opt.MaxPerPage
		}
	} else {
		if n, err := strconv.Atoi(perRaw); err == nil && n > 0 {
			per = n
		}
		if opt.MaxPerPage > 0 && per > opt.MaxPerPage {
			per = opt.MaxPerPage
		}
	}

	sortBy := strings.TrimSpace(c.Query("sort_by"))
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	order := strings.ToLower(strings.TrimSpace(c.Query("order", c.Query("sort"))))
	if order != "asc" && order != "desc" {
		order = strings.ToLower(defaultSortOrder)
		if order != "asc" && order != "desc" {
			order = "desc"
		}
	}

	return Params{
		Page:      page,
		PerPage:   per,
		Search:    strings.TrimSpace(c.Query("search", c.Query("q"))),
		SortBy:    sortBy,
		SortOrder: order,
		All:       all,
	}
}

// OrderClause resolves sort_by against a whitelist so user input never reaches SQL.
func (p Params) OrderClause(allowed map[string]string, defaultKey string) string {
	col, ok := allowed[p.SortBy]
	if !ok {
		col = allowed[defaultKey]
	}
	dir := "DESC"
	if p.SortOrder == "asc" {
		dir = "ASC"
	}
	return col + " " + dir
}

// SearchLike returns the lowercased %term% pattern, or "" when no search was given.
func (p Params) SearchLike() string {
	if p.Search == "" {
		return ""
	}
	return "%" + strings.ToLower(p.Search) + "%"
}

// Paginate counts the query, then loads one page into dest.
func Paginate(q *gorm.DB, p Params, order string, dest any) (Pagination, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, err
	}
	if err := q.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(dest).Error; err != nil {
		return Pagination{}, err
	}
	return BuildPaginationFromPage(total, p.Page, p.PerPage), nil
}
