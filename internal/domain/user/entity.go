package user

// Resource is the resource name carried by user not-found errors.
const Resource = "user"

// User represents a user entity in the system.
type User struct {
	ID        int64  `json:"id"`        // ID is generated by the store and never changes
	FirstName string `json:"firstName"` // FirstName of the user
	LastName  string `json:"lastName"`  // LastName of the user
	Email     string `json:"email"`     // Email address of the user
}
