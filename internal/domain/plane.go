package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Plane struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Configuration string `json:"configuration"`
	AirlineID     int64  `json:"airlineId"`
	AirlineName   string `json:"airlineName,omitempty"`
}

var (
	ErrInvalidConfiguration = errors.New("invalid seating configuration")
	ErrInvalidSeat          = errors.New("invalid seat")
)

// CabinSection is one bracketed group of a seating configuration string,
// e.g. "[Economy 10 3x3]": class name, row count and the aisle layout.
type CabinSection struct {
	Class      string
	Rows       int
	SeatGroups []int
}

// SeatsAcross is the number of seats in a single row of the section.
func (s CabinSection) SeatsAcross() int {
	total := 0
	for _, g := range s.SeatGroups {
		total += g
	}
	return total
}

var (
	sectionRe = regexp.MustCompile(`\[(\w+)\s+(\d+)\s+([\dx]+)]`)
	seatRe    = regexp.MustCompile(`^(\d+)([A-Z])$`)
)

// ParseSeatingConfiguration parses a configuration string of the form
// "[ClassName Rows SeatsPerRow]..." where SeatsPerRow is either a single
// number or aisle groups like "3x3". Sections keep their declared order.
func ParseSeatingConfiguration(config string) ([]CabinSection, error) {
	matches := sectionRe.FindAllStringSubmatch(config, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidConfiguration, config)
	}

	sections := make([]CabinSection, 0, len(matches))
	for _, m := range matches {
		rows, err := strconv.Atoi(m[2])
		if err != nil || rows <= 0 {
			return nil, fmt.Errorf("%w: row count %q", ErrInvalidConfiguration, m[2])
		}

		var groups []int
		for _, part := range strings.Split(m[3], "x") {
			n, err := strconv.Atoi(part)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("%w: seat layout %q", ErrInvalidConfiguration, m[3])
			}
			groups = append(groups, n)
		}

		sections = append(sections, CabinSection{Class: m[1], Rows: rows, SeatGroups: groups})
	}
	return sections, nil
}

// ResolveSeatClass determines the cabin class a seat belongs to. Row numbers
// are cumulative over sections with an inclusive upper bound, so with
// "[Economy 10 3x3] [Business 5 2x2]" rows 1-10 are Economy and row 11 is the
// first Business row. A row past the last section or a column outside the
// section's layout is an ErrInvalidSeat, never an empty class.
func ResolveSeatClass(configuration, seat string) (string, error) {
	sections, err := ParseSeatingConfiguration(configuration)
	if err != nil {
		return "", err
	}

	m := seatRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(seat)))
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidSeat, seat)
	}
	row, err := strconv.Atoi(m[1])
	if err != nil || row <= 0 {
		return "", fmt.Errorf("%w: row %q", ErrInvalidSeat, m[1])
	}
	column := int(m[2][0] - 'A')

	for _, section := range sections {
		if row <= section.Rows {
			if column >= section.SeatsAcross() {
				return "", fmt.Errorf("%w: no column %s in %s rows", ErrInvalidSeat, m[2], section.Class)
			}
			return section.Class, nil
		}
		row -= section.Rows
	}
	return "", fmt.Errorf("%w: row beyond configured cabin sections", ErrInvalidSeat)
}
