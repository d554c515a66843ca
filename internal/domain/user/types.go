package user

import "errors"

var ErrInvalidRole = errors.New("invalid role")

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
	RoleShipper  Role = "shipper"
)

func NewRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleStaff, RoleCustomer, RoleShipper:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	_, err := NewRole(string(r))
	return err == nil
}
