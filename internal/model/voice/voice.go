package voice

// Gender buckets for the fixed voice catalog.
const (
	Male   = "male"
	Female = "female"
)

// Voice describes one selectable synthesis voice.
type Voice struct {
	ID          string `json:"voiceId"`
	Style       string `json:"style"`
	Description string `json:"description"`
	Gender      string `json:"gender"`
}

// Catalog is the fixed, immutable voice list partitioned by gender.
type Catalog struct {
	MaleVoices   []Voice `json:"male"`
	FemaleVoices []Voice `json:"female"`
}

// DefaultCatalog returns the built-in Murf voice set.
func DefaultCatalog() Catalog {
	return Catalog{
		MaleVoices: []Voice{
			{ID: "en-US-Terrell", Style: "Conversational", Description: "Warm & friendly", Gender: Male},
			{ID: "en-US-Wayne", Style: "Conversational", Description: "Professional", Gender: Male},
			{ID: "en-US-Marcus", Style: "Conversational", Description: "Deep & authoritative", Gender: Male},
		},
		FemaleVoices: []Voice{
			{ID: "en-US-Natalie", Style: "Conversational", Description: "Natural & clear", Gender: Female},
			{ID: "en-UK-Ruby", Style: "Conversational", Description: "Young & energetic", Gender: Female},
			{ID: "en-US-Daisy", Style: "Conversational", Description: "Warm & friendly", Gender: Female},
		},
	}
}

// FindByID looks up a voice across both gender lists.
func (c Catalog) FindByID(id string) (Voice, bool) {
	for _, v := range c.MaleVoices {
		if v.ID == id {
			return v, true
		}
	}
	for _, v := range c.FemaleVoices {
		if v.ID == id {
			return v, true
		}
	}
	return Voice{}, false
}

// Default is the voice assigned when persona creation has not run.
func (c Catalog) Default() Voice {
	return c.FemaleVoices[0]
}
