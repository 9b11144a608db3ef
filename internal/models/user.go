package models

type User struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"                 validate:"required"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
	IsAdmin    Flag   `json:"is_admin"`
}

// UserPatch holds the profile fields to overwrite. Nil fields are kept.
type UserPatch struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	Country    *string `json:"country,omitempty"`
	IsAdmin    *bool   `json:"is_admin,omitempty"`
}

// PatchFromUser turns a full profile returned by the backend into a patch
// that overwrites every field.
func PatchFromUser(u User) UserPatch {
	admin := bool(u.IsAdmin)
	return UserPatch{
		Name:       &u.Name,
		Email:      &u.Email,
		Phone:      &u.Phone,
		Address:    &u.Address,
		City:       &u.City,
		PostalCode: &u.PostalCode,
		Country:    &u.Country,
		IsAdmin:    &admin,
	}
}

func (u User) Merge(p UserPatch) User {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&u.Name, p.Name)
	set(&u.Email, p.Email)
	set(&u.Phone, p.Phone)
	set(&u.Address, p.Address)
	set(&u.City, p.City)
	set(&u.PostalCode, p.PostalCode)
	set(&u.Country, p.Country)
	if p.IsAdmin != nil {
		u.IsAdmin = Flag(*p.IsAdmin)
	}
	return u
}
