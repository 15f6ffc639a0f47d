package output

import (
	"encoding/json"

	"github.com/rosca/committee-forecast/internal/domain"
)

// JSONFormatter serializes the forecast result as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(result *domain.ForecastResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}
