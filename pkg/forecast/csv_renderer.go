package forecast

import (
	"bytes"
	"encoding/csv"
	"strconv"

	log "github.com/sirupsen/logrus"
)

type ResultRenderer interface {
	RenderResult(result Result) (string, error)
}

type CsvResultRendererImpl struct {
}

func NewCsvResultRenderer() *CsvResultRendererImpl {
	return &CsvResultRendererImpl{}
}

// RenderResult writes one row per forecast step: step number, expense and income.
func (r *CsvResultRendererImpl) RenderResult(result Result) (string, error) {
	data := make([][]string, 0, result.Quantity+1)
	data = append(data, []string{"Step", "Expense", "Income"})
	for i := 0; i < len(result.Expenses) && i < len(result.Incomes); i++ {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			formatAmount(result.Expenses[i]),
			formatAmount(result.Incomes[i]),
		})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
