package user

// UserDto is the transport representation of a user. It never carries the id.
type UserDto struct {
	FirstName string `json:"firstName" validate:"required,min=2"`
	LastName  string `json:"lastName" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
}
