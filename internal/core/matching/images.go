package matching

import (
	"sort"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
)

// ExtractImages picks small, medium and large cover URLs from images.
// One image fills every slot; two give the smaller as small and the larger
// as medium and large; with more, medium is the second largest.
func ExtractImages(images []domain.Image) domain.Images {
	sorted := append([]domain.Image(nil), images...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Height < sorted[j].Height
	})

	n := len(sorted)
	switch {
	case n == 0:
		return domain.Images{}
	case n == 1:
		url := sorted[0].URL
		return domain.Images{Small: url, Medium: url, Large: url}
	case n == 2:
		return domain.Images{Small: sorted[0].URL, Medium: sorted[1].URL, Large: sorted[1].URL}
	default:
		return domain.Images{Small: sorted[0].URL, Medium: sorted[n-2].URL, Large: sorted[n-1].URL}
	}
}
