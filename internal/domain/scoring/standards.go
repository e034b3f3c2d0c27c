package scoring

import (
	"github.com/okian/devbracket/internal/domain/model"
)

// DefaultStandards returns goal values for the default catalog. Power is in
// watts, acceleration in m/s^2.
func DefaultStandards() Standards {
	return Standards{
		model.Power: {
			model.Male: {
				"Straight Arm Trunk Rotation":     450,
				"Shot Put (Countermovement)":      600,
				"PNF D2 Flexion":                  250,
				"PNF D2 Extension":                250,
				"Biceps Curl (One Hand)":          220,
				"Triceps Extension (One Hand)":    200,
				"Horizontal Row (One Hand)":       400,
				"Chest Press (One Hand)":          450,
				"Lateral Bound":                   1400,
				"Vertical Jump (Countermovement)": 2000,
			},
			model.Female: {
				"Straight Arm Trunk Rotation":     300,
				"Shot Put (Countermovement)":      400,
				"PNF D2 Flexion":                  165,
				"PNF D2 Extension":                165,
				"Biceps Curl (One Hand)":          145,
				"Triceps Extension (One Hand)":    130,
				"Horizontal Row (One Hand)":       270,
				"Chest Press (One Hand)":          300,
				"Lateral Bound":                   950,
				"Vertical Jump (Countermovement)": 1350,
			},
		},
		model.Acceleration: {
			model.Male: {
				"Straight Arm Trunk Rotation":     25,
				"Shot Put (Countermovement)":      30,
				"PNF D2 Flexion":                  20,
				"PNF D2 Extension":                20,
				"Biceps Curl (One Hand)":          18,
				"Triceps Extension (One Hand)":    17,
				"Horizontal Row (One Hand)":       22,
				"Chest Press (One Hand)":          24,
				"Lateral Bound":                   20,
				"Vertical Jump (Countermovement)": 22,
			},
			model.Female: {
				"Straight Arm Trunk Rotation":     20,
				"Shot Put (Countermovement)":      24,
				"PNF D2 Flexion":                  16,
				"PNF D2 Extension":                16,
				"Biceps Curl (One Hand)":          14.5,
				"Triceps Extension (One Hand)":    13.5,
				"Horizontal Row (One Hand)":       17.5,
				"Chest Press (One Hand)":          19,
				"Lateral Bound":                   16,
				"Vertical Jump (Countermovement)": 17.5,
			},
		},
	}
}
