package voice

import "github.com/mirrorpersona/backend/internal/analysis/gender"

// Select resolves a voice for a persona. First match wins:
//
//  1. an explicit voice id present in the catalog
//  2. the profile's gender field
//  3. indicator-word scoring over the bio, name suffix as tie-break
//  4. the default female voice
func (c Catalog) Select(explicitID, genderField, bio, name string) Voice {
	if explicitID != "" {
		if v, ok := c.FindByID(explicitID); ok {
			return v
		}
	}

	switch gender.FromField(genderField) {
	case gender.Male:
		return c.MaleVoices[0]
	case gender.Female:
		return c.FemaleVoices[0]
	}

	if gender.FromBio(bio, name) == gender.Male {
		return c.MaleVoices[0]
	}

	return c.FemaleVoices[0]
}
