package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// Wallet permissions
	PermissionWalletRead  = "wallet:read"
	PermissionWalletWrite = "wallet:write"

	// Marketplace permissions
	PermissionProductRead  = "product:read"
	PermissionProductWrite = "product:write"
	PermissionOrderRead    = "order:read"
	PermissionOrderWrite   = "order:write"

	// Social permissions
	PermissionCommunityRead  = "community:read"
	PermissionCommunityWrite = "community:write"

	// Account permissions
	PermissionKYCSubmit      = "kyc:submit"
	PermissionChangePassword = "user:change-password"

	// Agent permissions
	PermissionAgentRead = "agent:read"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	base := []string{
		PermissionWalletRead,
		PermissionWalletWrite,
		PermissionProductRead,
		PermissionOrderRead,
		PermissionOrderWrite,
		PermissionCommunityRead,
		PermissionCommunityWrite,
		PermissionKYCSubmit,
		PermissionChangePassword,
	}

	switch role {
	case RoleAdmin:
		return append(base,
			PermissionProductWrite,
			PermissionAgentRead,
			PermissionReadAdmin,
			PermissionWriteAdmin,
		)
	case RoleFarmer, RoleBusiness:
		return append(base, PermissionProductWrite)
	case RoleAgent:
		return append(base, PermissionAgentRead)
	case RolePersonal:
		return base
	default:
		return []string{}
	}
}
