package nlquery

import (
	"fmt"
	"strings"
)

// Commodity phrasings the rule-based generator recognizes, mapped to
// the FAOSTAT item_name pattern
var commodityPatterns = map[string]string{
	"wheat":   "Wheat",
	"rice":    "Rice",
	"maize":   "Maize",
	"corn":    "Maize",
	"soybean": "Soybean",
	"potato":  "Potato",
	"cattle":  "Cattle",
	"sugar":   "Sugar",
	"coffee":  "Coffee",
	"cotton":  "Cotton",
}

// GenerateSQL answers a few common question shapes without the API.
// Anything it cannot match is an error, which sends the question to
// the model instead.
func GenerateSQL(question string) (string, error) {
	q := strings.ToLower(question)

	var element string
	switch {
	case strings.Contains(q, "yield"):
		element = "Yield"
	case strings.Contains(q, "area harvested") || strings.Contains(q, "harvested"):
		element = "Area"
	case strings.Contains(q, "production") || strings.Contains(q, "produce"):
		element = "Production"
	default:
		return "", fmt.Errorf("could not generate SQL for question: %s", question)
	}

	var item string
	for keyword, pattern := range commodityPatterns {
		if strings.Contains(q, keyword) {
			item = pattern
			break
		}
	}
	if item == "" {
		return "", fmt.Errorf("could not generate SQL for question: %s", question)
	}

	wantsRanking := strings.Contains(q, "top") || strings.Contains(q, "largest") ||
		strings.Contains(q, "biggest") || strings.Contains(q, "highest")

	if wantsRanking {
		return fmt.Sprintf(`
		SELECT area_name, SUM(value) AS total, unit
		FROM faostat_data_view
		WHERE item_name LIKE '%%%s%%'
		AND element_name LIKE '%%%s%%'
		AND value IS NOT NULL
		GROUP BY area_name, unit
		ORDER BY total DESC
		LIMIT 10;`, item, element), nil
	}

	return fmt.Sprintf(`
	SELECT year, area_name, SUM(value) AS total, unit
	FROM faostat_data_view
	WHERE item_name LIKE '%%%s%%'
	AND element_name LIKE '%%%s%%'
	AND value IS NOT NULL
	GROUP BY year, area_name, unit
	ORDER BY year DESC, total DESC
	LIMIT 20;`, item, element), nil
}
