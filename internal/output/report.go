package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rosca/committee-forecast/internal/domain"
	"gopkg.in/yaml.v3"
)

// Partition is one named table of a forecast export
type Partition struct {
	Name      string
	Formatter Formatter
}

// Partitions lists the tables written by the "all" format, in workbook order.
var Partitions = []Partition{
	{Name: "Forecast", Formatter: CSVForecastExporter{}},
	{Name: "Monthly", Formatter: CSVMonthlySummarizer{}},
	{Name: "Yearly", Formatter: CSVYearlySummarizer{}},
	{Name: "Flows", Formatter: CSVFlowsExporter{}},
}

// GenerateReport writes the result in the given format under dir and returns the files written.
// "all" writes the console report plus one CSV file per partition.
func GenerateReport(result *domain.ForecastResult, format, dir string) ([]string, error) {
	if result == nil {
		return nil, fmt.Errorf("no forecast result to report")
	}
	if NormalizeFormatName(format) == "all" {
		files, err := WritePartitions(result, dir)
		if err != nil {
			return nil, err
		}
		name, err := WriteFormatted(ConsoleFormatter{}, result, dir, "txt")
		if err != nil {
			return nil, err
		}
		return append(files, name), nil
	}

	f := GetFormatterByName(format)
	if f == nil {
		// enrich error with available formatters and aliases
		return nil, fmt.Errorf("%w: %q. Try one of: %s, all (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	name, err := WriteFormatted(f, result, dir, extensionFor(f.Name()))
	if err != nil {
		return nil, err
	}
	return []string{name}, nil
}

// WritePartitions writes <name>_<Partition>.csv for every partition into dir
func WritePartitions(result *domain.ForecastResult, dir string) ([]string, error) {
	base := reportBaseName(result)
	files := make([]string, 0, len(Partitions))
	for _, p := range Partitions {
		data, err := p.Formatter.Format(result)
		if err != nil {
			return nil, fmt.Errorf("%s partition: %w", p.Name, err)
		}
		filename := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", base, p.Name))
		if err := writeFile(filename, data); err != nil {
			return nil, err
		}
		files = append(files, filename)
	}
	return files, nil
}

// SaveConfiguration writes the configuration used for a run next to its report
func SaveConfiguration(config *domain.Configuration, filename string) error {
	b, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
