package models

// Clone returns a deep copy of the profile, nil stays nil.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	c.Allergies = append([]string(nil), p.Allergies...)
	c.DislikedFoods = append([]string(nil), p.DislikedFoods...)
	return &c
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Profile = u.Profile.Clone()
	return &c
}

// CloneSymptoms copies the slice and every entry's symptom list.
func CloneSymptoms(in []SymptomLog) []SymptomLog {
	out := make([]SymptomLog, len(in))
	for i, s := range in {
		s.Symptoms = append([]string(nil), s.Symptoms...)
		out[i] = s
	}
	return out
}
