package user

import (
	"slices"
	"strings"
)

// Matches reports whether query is a case-sensitive substring of the user's
// first name, last name or email. The empty query matches every user.
func Matches(u User, query string) bool {
	return strings.Contains(u.FirstName, query) ||
		strings.Contains(u.LastName, query) ||
		strings.Contains(u.Email, query)
}

// Filter returns the users matching query, keeping the input order.
func Filter(users []User, query string) []User {
	matched := make([]User, 0, len(users))
	for _, u := range users {
		if Matches(u, query) {
			matched = append(matched, u)
		}
	}
	return matched
}

// SortByID stable-sorts users by ascending id in place.
func SortByID(users []User) {
	slices.SortStableFunc(users, func(a, b User) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
}

// Search computes the matching set over users, orders it by id and returns
// the requested page of it. users is not modified.
func Search(users []User, query string, p Pageable) (*Page[User], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	matched := Filter(users, query)
	SortByID(matched)

	return PageOf(matched, p), nil
}
