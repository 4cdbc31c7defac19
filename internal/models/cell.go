package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Cell is a numeric table value that may also be empty. Attendance day
// counts and subject marks both arrive from the UI as numbers, numeric
// strings or "", and empty must round-trip as "" to match stored data.
type Cell struct {
	Valid bool
	Value int
	// Raw preserves non-numeric input so validation can report it before
	// clamping. Never persisted: validation always clears it.
	Raw string
}

// NewCell returns a populated numeric cell.
func NewCell(v int) Cell {
	return Cell{Valid: true, Value: v}
}

// EmptyCell is the zero, empty cell.
var EmptyCell = Cell{}

func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte(`""`), nil
	}
	return json.Marshal(c.Value)
}

func (c *Cell) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*c = Cell{Valid: true, Value: n}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("cell must be a number or string, got %s", string(b))
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*c = Cell{}
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*c = Cell{Valid: true, Value: n}
		return nil
	}
	*c = Cell{Raw: s}
	return nil
}
