package domain

// Role is the platform-wide role resolved from the identity service.
type Role string

const (
	RoleOwner    Role = "OWNER"
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// Identity is the projection of a platform user this service consumes.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// CanRegisterStore reports whether the identity may own a store.
func (i *Identity) CanRegisterStore() bool {
	return i != nil && i.Role == RoleOwner
}

// CanModerateStores reports whether the identity may perform platform actions
// such as suspending a store.
func (i *Identity) CanModerateStores() bool {
	return i != nil && i.Role == RoleAdmin
}
