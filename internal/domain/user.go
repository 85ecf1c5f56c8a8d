package domain

// User is a person tickets can be assigned to. Users are loaded once per
// session and treated as immutable.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
