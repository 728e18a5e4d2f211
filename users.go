package match

import (
	"slices"
	"sync"
)

// User is an account owning orders.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// UserDirectory is a concurrent id -> User map. Order placement does not consult it.
type UserDirectory struct {
	users sync.Map // int64 -> User
}

func NewUserDirectory() *UserDirectory {
	return &UserDirectory{}
}

func (d *UserDirectory) Put(user User) {
	d.users.Store(user.ID, user)
}

func (d *UserDirectory) Get(id int64) (User, bool) {
	v, ok := d.users.Load(id)
	if !ok {
		return User{}, false
	}
	return v.(User), true
}

// List returns every user ordered by id.
func (d *UserDirectory) List() []User {
	var users []User
	d.users.Range(func(_, value any) bool {
		users = append(users, value.(User))
		return true
	})
	slices.SortFunc(users, func(a, b User) int {
		return compareInt64(a.ID, b.ID)
	})
	return users
}
