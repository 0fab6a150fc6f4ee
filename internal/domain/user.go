package domain

// User is the authenticated identity returned by the backend's auth
// endpoints and persisted in the local session store. An absent user is
// equivalent to "not logged in".
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Admin bool   `json:"admin"`
}
