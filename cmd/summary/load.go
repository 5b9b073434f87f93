package summary

import (
	"fmt"

	"github.com/bookingdash/dashtool/record"
	"github.com/bookingdash/dashtool/sheet"
	"github.com/bookingdash/dashtool/util"
)

func loadRecords(path string) ([]record.Record, error) {
	input, err := util.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	records, err := sheet.Load(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", input, err)
	}
	return records, nil
}
