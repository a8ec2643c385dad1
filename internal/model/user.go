package model

import "time"

// User roles.  ADMIN manages catalog data (airports, routes,
// airplanes, crew, flights); CUSTOMER browses and buys tickets.
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// User is an application account.  Balance is the prepaid amount in
// dollars that orders debit and refunds credit; it never goes
// negative.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – ADMIN or CUSTOMER.
//  Balance      – prepaid balance in dollars, two decimal places.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	Balance      float64   // users.balance
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Transaction records the outcome of a balance deposit attempt made
// through the payment gateway.  Failed attempts are recorded too so
// operators can reconcile against the provider.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – account the deposit targeted.
//  Amount    – deposit amount in dollars.
//  Email     – email reported by the payment provider.
//  Status    – SUCCESS or FAILURE.
//  CreatedAt – when the webhook was processed.
type Transaction struct {
	ID        uint64    // transactions.id
	UserID    uint64    // transactions.user_id
	Amount    float64   // transactions.amount
	Email     string    // transactions.email
	Status    string    // transactions.status
	CreatedAt time.Time // transactions.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
