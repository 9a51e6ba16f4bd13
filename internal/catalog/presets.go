package catalog

import (
	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

const (
	NewArrivalsLimit = 8
	SimilarLimit     = 4
)

func BestSellerQuery() Query {
	return Query{Sort: SortPopularity, Limit: 1}
}

func NewArrivalsQuery() Query {
	return Query{Sort: SortNewest, Limit: NewArrivalsLimit}
}

// SimilarQuery matches products sharing p's gender and category, p itself excluded.
func SimilarQuery(p *domain.Product) Query {
	return Query{
		Filter: Filter{
			Gender:    p.Gender,
			Category:  p.Category,
			ExcludeID: p.ID,
		},
		Limit: SimilarLimit,
	}
}
