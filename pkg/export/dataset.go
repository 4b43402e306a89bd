package export

import "fmt"

// Dataset is a titled table ready for rendering.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Validate rejects datasets without headers or with ragged rows.
func (d Dataset) Validate() error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("dataset requires at least one header")
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Headers) {
			return fmt.Errorf("row %d has %d columns, expected %d", i, len(row), len(d.Headers))
		}
	}
	return nil
}
