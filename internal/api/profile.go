package api

// Profile is returned by GET /users/me/ and PUT /users/update_profile/.
type Profile struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	InjuryType  int64  `json:"injury_type,omitempty"`
	LastReset   string `json:"last_reset,omitempty"`
}

// ProfileUpdate carries a partial profile; nil fields are left unchanged.
type ProfileUpdate struct {
	Email       *string `json:"email,omitempty"`
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	InjuryType  *int64  `json:"injury_type,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.Email == nil && u.FirstName == nil && u.LastName == nil &&
		u.DateOfBirth == nil && u.InjuryType == nil
}

// InjuryType is one entry of GET /injury-types/.
type InjuryType struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Treatment   []int64 `json:"treatment"`
}
