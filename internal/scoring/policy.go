// internal/scoring/policy.go
package scoring

import (
	"fmt"
	"strings"

	"inverter-savings/internal/common/config"
)

// Band awards Points when a value passes Threshold.
type Band struct {
	Threshold float64
	Points    int
}

// BandTable is evaluated top-down; the first matching band wins, Floor
// applies when none match. Strict tables compare with >, others with >=.
type BandTable struct {
	Bands  []Band
	Floor  int
	Strict bool
}

func (t BandTable) points(v float64) int {
	for _, b := range t.Bands {
		if (t.Strict && v > b.Threshold) || (!t.Strict && v >= b.Threshold) {
			return b.Points
		}
	}
	return t.Floor
}

// validate requires thresholds to descend with non-increasing points that
// never drop below the floor.
func (t BandTable) validate(name string) error {
	if t.Floor < 0 {
		return fmt.Errorf("%s: floor must not be negative", name)
	}
	for i, b := range t.Bands {
		if b.Points < t.Floor {
			return fmt.Errorf("%s: band %d awards %d points, below floor %d", name, i, b.Points, t.Floor)
		}
		if i == 0 {
			continue
		}
		prev := t.Bands[i-1]
		if b.Threshold >= prev.Threshold {
			return fmt.Errorf("%s: band thresholds must be strictly descending", name)
		}
		if b.Points > prev.Points {
			return fmt.Errorf("%s: band %d awards more points than a higher band", name, i)
		}
	}
	return nil
}

type EmailRule struct {
	// PersonalMarkers are matched as substrings of the lower-cased address.
	PersonalMarkers []string
	PersonalPoints  int
	CorporatePoints int
}

func (r EmailRule) points(email string) int {
	lower := strings.ToLower(email)
	for _, m := range r.PersonalMarkers {
		if m != "" && strings.Contains(lower, strings.ToLower(m)) {
			return r.PersonalPoints
		}
	}
	return r.CorporatePoints
}

type Policy struct {
	OfficeSize      BandTable
	ACUnits         BandTable
	MonthlyBill     BandTable
	Email           EmailRule
	HighThreshold   int
	MediumThreshold int
	MaxScore        int
}

func DefaultPolicy() Policy {
	return Policy{
		OfficeSize: BandTable{
			Bands:  []Band{{10000, 30}, {5000, 20}, {2000, 10}},
			Floor:  0,
			Strict: true,
		},
		ACUnits: BandTable{
			Bands: []Band{{20, 25}, {10, 20}, {5, 15}},
			Floor: 10,
		},
		MonthlyBill: BandTable{
			Bands: []Band{{200000, 25}, {100000, 20}, {50000, 15}},
			Floor: 10,
		},
		Email: EmailRule{
			PersonalMarkers: []string{"gmail", "yahoo", "hotmail"},
			PersonalPoints:  5,
			CorporatePoints: 20,
		},
		HighThreshold:   80,
		MediumThreshold: 60,
		MaxScore:        100,
	}
}

// ScoreCeiling bounds MaxScore; lead scores are percentages.
const ScoreCeiling = 100

func (p Policy) Validate() error {
	tables := []struct {
		name  string
		table BandTable
	}{
		{"office size", p.OfficeSize},
		{"ac units", p.ACUnits},
		{"monthly bill", p.MonthlyBill},
	}
	for _, t := range tables {
		if err := t.table.validate(t.name); err != nil {
			return err
		}
	}

	if p.Email.PersonalPoints < 0 || p.Email.CorporatePoints < 0 {
		return fmt.Errorf("email points must not be negative")
	}
	if p.MaxScore <= 0 || p.MaxScore > ScoreCeiling {
		return fmt.Errorf("max score must be in (0, %d], got %d", ScoreCeiling, p.MaxScore)
	}
	if p.MediumThreshold > p.HighThreshold {
		return fmt.Errorf("medium threshold %d exceeds high threshold %d", p.MediumThreshold, p.HighThreshold)
	}
	if p.HighThreshold > p.MaxScore {
		return fmt.Errorf("high threshold %d is unreachable with max score %d", p.HighThreshold, p.MaxScore)
	}
	return nil
}

// PolicyFromConfig overlays the configured bands and thresholds on
// DefaultPolicy. An empty band list keeps the default table.
func PolicyFromConfig(cfg config.ScoringPolicyConfig) Policy {
	p := DefaultPolicy()

	overlay := func(t *BandTable, bands []config.BandConfig, floor *int) {
		if len(bands) > 0 {
			t.Bands = make([]Band, len(bands))
			for i, b := range bands {
				t.Bands[i] = Band{Threshold: b.Threshold, Points: b.Points}
			}
		}
		if floor != nil {
			t.Floor = *floor
		}
	}
	overlay(&p.OfficeSize, cfg.OfficeSizeBands, cfg.OfficeSizeFloor)
	overlay(&p.ACUnits, cfg.ACUnitBands, cfg.ACUnitFloor)
	overlay(&p.MonthlyBill, cfg.BillBands, cfg.BillFloor)

	if len(cfg.PersonalEmailMarkers) > 0 {
		p.Email.PersonalMarkers = cfg.PersonalEmailMarkers
	}
	if cfg.PersonalEmailPoints != nil {
		p.Email.PersonalPoints = *cfg.PersonalEmailPoints
	}
	if cfg.CorporateEmailPoints != nil {
		p.Email.CorporatePoints = *cfg.CorporateEmailPoints
	}
	if cfg.HighThreshold != 0 {
		p.HighThreshold = cfg.HighThreshold
	}
	if cfg.MediumThreshold != 0 {
		p.MediumThreshold = cfg.MediumThreshold
	}
	if cfg.MaxScore != 0 {
		p.MaxScore = cfg.MaxScore
	}
	return p
}
