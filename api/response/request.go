package response

import (
	"math"
	"strconv"

	"ordercore/domain/shared"

	"github.com/gin-gonic/gin"
)

// PageParams reads page and size as floats and normalizes them.
// Missing or unparsable values fall back to the defaults.
func PageParams(c *gin.Context) (int, int) {
	return shared.NormalizePage(queryFloat(c, "page"), queryFloat(c, "size"))
}

func queryFloat(c *gin.Context, key string) float64 {
	raw, ok := c.GetQuery(key)
	if !ok {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
