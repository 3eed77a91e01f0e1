package domain

import "errors"

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrNotMember         = errors.New("not a member of this workspace")
	ErrForbidden         = errors.New("only owner or admin can invite members")
	ErrAlreadyMember     = errors.New("user is already a workspace member")
	ErrUserNotFound      = errors.New("user not found with this email")
)
