package catalog

// Region names of the default catalog.
const (
	Torso     = "Torso"
	Arms      = "Arms"
	PressPull = "Press/Pull"
	Legs      = "Legs"
)

// DefaultRegions returns the standard exercise battery grouped by body region.
func DefaultRegions() []Region {
	return []Region{
		{Name: Torso, Exercises: []Exercise{
			{Name: "Straight Arm Trunk Rotation", Sides: SidesRequired},
			{Name: "Shot Put (Countermovement)", Sides: SidesOptional},
		}},
		{Name: Arms, Exercises: []Exercise{
			{Name: "PNF D2 Flexion", Sides: SidesRequired},
			{Name: "PNF D2 Extension", Sides: SidesRequired},
			{Name: "Biceps Curl (One Hand)", Sides: SidesRequired},
			{Name: "Triceps Extension (One Hand)", Sides: SidesRequired},
		}},
		{Name: PressPull, Exercises: []Exercise{
			{Name: "Horizontal Row (One Hand)", Sides: SidesRequired},
			{Name: "Chest Press (One Hand)", Sides: SidesRequired},
		}},
		{Name: Legs, Exercises: []Exercise{
			{Name: "Lateral Bound", Sides: SidesRequired},
			{Name: "Vertical Jump (Countermovement)", Sides: SidesNone},
		}},
	}
}

// Default returns the standard catalog.
func Default() *Catalog {
	c, err := New(DefaultRegions()...)
	if err != nil {
		panic(err) // static definition
	}
	return c
}
