package user

import "errors"

var (
	ErrInvalidToken           = errors.New("invalid token")
	ErrIdentityMissing        = errors.New("identity claims are missing or invalid")
	ErrOrganizationIDRequired = errors.New("organization ID is required")
	ErrEmployeeIDRequired     = errors.New("employee ID is required")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrForbidden              = errors.New("not allowed to access this resource")
)
