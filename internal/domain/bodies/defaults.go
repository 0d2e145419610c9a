package bodies

// DefaultRecords returns the built-in data set in display order.
func DefaultRecords() []BodyRecord {
	return []BodyRecord{
		{
			ID:             "Mercury",
			GravityFactor:  0.38,
			YearLengthDays: Days(88),
			Gravity:        "3.7 m/s²",
			Surface:        "Rocky, cratered surface",
			Temperature:    "From -180°C to 430°C",
			DayLength:      "59 Earth days",
			YearLength:     "88 Earth days",
			FunFacts:       "1. Closest planet to the Sun. 2. No significant atmosphere. 3. A year lasts shorter than its day.",
			ImageKey:       "mercury.svg",
		},
		{
			ID:             "Earth",
			GravityFactor:  1.0,
			YearLengthDays: Days(365),
			Gravity:        "9.8 m/s²",
			Surface:        "71% water, 29% land",
			Temperature:    "15°C",
			DayLength:      "24 hours",
			YearLength:     "365 days",
			FunFacts:       "1. Only planet known to have life. 2. Atmosphere blocks harmful rays. 3. The Moon stabilizes its rotation.",
			ImageKey:       "earth.svg",
		},
		{
			ID:             "Jupiter",
			GravityFactor:  2.34,
			YearLengthDays: Days(11.9 * daysPerEarthYear),
			Gravity:        "24.8 m/s²",
			Surface:        "Gaseous, made of hydrogen and helium",
			Temperature:    "110°C",
			DayLength:      "10 hours",
			YearLength:     "11.9 Earth years",
			FunFacts:       "1. Largest planet in the Solar System. 2. Home to the Great Red Spot storm. 3. Has over 90 moons.",
			ImageKey:       "jupiter.svg",
		},
		{
			ID:            "Moon",
			GravityFactor: 0.165,
			Gravity:       "1.6 m/s²",
			Surface:       "Rocky and dusty, cratered",
			Temperature:   "From -173°C to 127°C",
			DayLength:     "27.3 Earth days",
			YearLength:    "Not applicable (orbits Earth)",
			FunFacts:      "1. No atmosphere or sound. 2. Only body visited by humans. 3. Causes ocean tides on Earth.",
			ImageKey:      "moon.svg",
		},
		{
			ID:            "Sun",
			GravityFactor: 27.9,
			Gravity:       "274 m/s²",
			Surface:       "Gaseous (hydrogen and helium)",
			Temperature:   "5,500°C on surface / 15 million °C in core",
			DayLength:     "25 days (equator)",
			YearLength:    "Not applicable",
			FunFacts:      "1. Contains 99.8% of the Solar System’s mass. 2. Generates energy through fusion. 3. Sunlight takes 8 min 20 s to reach Earth.",
			ImageKey:      "sun.svg",
		},
	}
}

// DefaultCatalog builds the catalog from DefaultRecords.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultRecords())
	if err != nil {
		panic("bodies: built-in catalog is invalid: " + err.Error())
	}
	return c
}
