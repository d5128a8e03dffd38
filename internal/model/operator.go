package model

import "time"

// Operator roles.  Admins may force-approve conflicts; operators may do
// everything else on the desk.
const (
    RoleOperator = "OPERATOR"
    RoleAdmin    = "ADMIN"
)

// Operator represents a desk user as stored in the `operators` table.
// The json tags are omitted here because these structs are primarily
// used internally by the repository layer; handlers define their own
// response types.
//
// Fields:
//  ID           – primary key identifier of the operator.
//  Email        – unique login address.
//  Name         – display name recorded on holds and audit entries.
//  PasswordHash – bcrypt hashed password.
//  Role         – OPERATOR or ADMIN.
//  IsActive     – whether the account may log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Operator struct {
    ID           uint64    // operators.id
    Email        string    // operators.email
    Name         string    // operators.name
    PasswordHash string    // operators.password_hash
    Role         string    // operators.role
    IsActive     bool      // operators.is_active
    CreatedAt    time.Time // operators.created_at
    UpdatedAt    time.Time // operators.updated_at
}

// DisplayName is the name shown on holds and audit entries, falling back
// to the email when no name was set.
func (o Operator) DisplayName() string {
    if o.Name != "" {
        return o.Name
    }
    return o.Email
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is never stored, only its SHA-256 hash.
//
// Fields:
//  ID         – primary key identifier.
//  OperatorID – owner of the token.
//  TokenHash  – SHA-256 hex digest of the token value.
//  ExpiresAt  – expiration timestamp of the token.
//  RevokedAt  – when the token was revoked (null if still active).
//  CreatedAt  – timestamp of creation.
type RefreshToken struct {
    ID         uint64     // refresh_tokens.id
    OperatorID uint64     // refresh_tokens.operator_id
    TokenHash  string     // refresh_tokens.token_hash
    ExpiresAt  time.Time  // refresh_tokens.expires_at
    RevokedAt  *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt  time.Time  // refresh_tokens.created_at
}
