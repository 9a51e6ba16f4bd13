// Package catalog turns product listing parameters into a backend-neutral query.
//
// Filter describes which products match, SortKey how they are ordered and Limit how
// many are returned. Stores translate a Filter into their own query language; the
// Matches and Apply methods here define the semantics every store must agree with.
package catalog

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

// allSentinel disables the collection and category clauses.
const allSentinel = "all"

type SortKey string

const (
	SortNatural    SortKey = ""
	SortPriceAsc   SortKey = "priceAsc"
	SortPriceDesc  SortKey = "priceDesc"
	SortPopularity SortKey = "popularity"
	SortNewest     SortKey = "newest"
)

// ParseSortKey maps the public sortBy values; anything unknown falls back to natural order.
// SortNewest is internal and cannot be requested through sortBy.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriceAsc, SortPriceDesc, SortPopularity:
		return SortKey(s)
	}
	return SortNatural
}

type Filter struct {
	Collection string
	Category   string
	Brands     []string
	Sizes      []string
	Colors     []string
	Gender     string
	Material   string
	MinPrice   *float64
	MaxPrice   *float64
	Search     string
	ExcludeID  string
}

// Empty reports whether the filter restricts nothing.
func (f Filter) Empty() bool {
	return f.Collection == "" && f.Category == "" && len(f.Brands) == 0 && len(f.Sizes) == 0 &&
		len(f.Colors) == 0 && f.Gender == "" && f.Material == "" && f.MinPrice == nil &&
		f.MaxPrice == nil && f.Search == "" && f.ExcludeID == ""
}

type Query struct {
	Filter Filter
	Sort   SortKey
	// Limit caps the result count; zero means no cap.
	Limit int
}

// ParseQuery builds a Query from GET /api/products parameters.
func ParseQuery(v url.Values) (Query, error) {
	var q Query
	f := &q.Filter

	if c := strings.TrimSpace(v.Get("collection")); c != "" && !strings.EqualFold(c, allSentinel) {
		f.Collection = c
	}
	if c := strings.TrimSpace(v.Get("category")); c != "" && !strings.EqualFold(c, allSentinel) {
		f.Category = c
	}
	f.Brands = splitList(v.Get("brand"))
	f.Sizes = splitList(v.Get("size"))
	if c := strings.TrimSpace(v.Get("color")); c != "" {
		f.Colors = []string{c}
	}
	f.Gender = strings.TrimSpace(v.Get("gender"))
	f.Material = strings.TrimSpace(v.Get("material"))

	var err error
	if f.MinPrice, err = parsePrice(v, "minPrice"); err != nil {
		return Query{}, err
	}
	if f.MaxPrice, err = parsePrice(v, "maxPrice"); err != nil {
		return Query{}, err
	}
	f.Search = strings.TrimSpace(v.Get("search"))

	q.Sort = ParseSortKey(v.Get("sortBy"))

	// A limit that is not a positive integer means no cap.
	if n, err := strconv.Atoi(strings.TrimSpace(v.Get("limit"))); err == nil && n > 0 {
		q.Limit = n
	}
	return q, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parsePrice(v url.Values, key string) (*float64, error) {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, s)
	}
	return &n, nil
}

// Matches evaluates the filter against a single product.
func (f Filter) Matches(p *domain.Product) bool {
	if f.ExcludeID != "" && p.ID == f.ExcludeID {
		return false
	}
	if f.Collection != "" && p.Collections != f.Collection {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if len(f.Brands) > 0 && !contains(f.Brands, p.Brand) {
		return false
	}
	if len(f.Sizes) > 0 && !intersects(f.Sizes, p.Sizes) {
		return false
	}
	if len(f.Colors) > 0 && !intersects(f.Colors, p.Colors) {
		return false
	}
	if f.Gender != "" && p.Gender != f.Gender {
		return false
	}
	if f.Material != "" && p.Material != f.Material {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	return true
}

// Apply filters, sorts and limits products in process. The input order is the natural order.
func (q Query) Apply(products []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for i := range products {
		if q.Filter.Matches(&products[i]) {
			out = append(out, products[i])
		}
	}
	Sort(out, q.Sort)
	return Limit(out, q.Limit)
}

// Sort orders products by key. Ties keep their relative order.
func Sort(products []domain.Product, key SortKey) {
	var less func(a, b *domain.Product) bool
	switch key {
	case SortPriceAsc:
		less = func(a, b *domain.Product) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b *domain.Product) bool { return a.Price > b.Price }
	case SortPopularity:
		less = func(a, b *domain.Product) bool { return a.Rating > b.Rating }
	case SortNewest:
		less = func(a, b *domain.Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	default:
		return
	}
	sort.SliceStable(products, func(i, j int) bool { return less(&products[i], &products[j]) })
}

func Limit(products []domain.Product, n int) []domain.Product {
	if n > 0 && len(products) > n {
		return products[:n]
	}
	return products
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func intersects(want, have []string) bool {
	for _, h := range have {
		if contains(want, h) {
			return true
		}
	}
	return false
}
